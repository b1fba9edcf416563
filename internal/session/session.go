package session

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/five82/showcase/internal/catalog"
	"github.com/five82/showcase/internal/imageload"
	"github.com/five82/showcase/internal/source"
	"github.com/five82/showcase/internal/status"
)

const (
	// DefaultConfirmDuration is how long "Saved: ..." stays visible.
	DefaultConfirmDuration = 2 * time.Second
	// ImageWarningDuration is how long an image failure warning stays visible.
	ImageWarningDuration = 4 * time.Second

	clipboardStatusDuration = 4 * time.Second
	invalidPriceDuration    = 3 * time.Second
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Clipboard receives the exported product list.
type Clipboard interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(text string) error

// WriteAll calls f(text).
func (f ClipboardFunc) WriteAll(text string) error { return f(text) }

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboardWriteAll(text) }

// ExportSinkError reports that the export could not be handed to the
// clipboard. The catalog is unaffected.
type ExportSinkError struct {
	Err error
}

func (e *ExportSinkError) Error() string {
	return fmt.Sprintf("copy product list: %v", e.Err)
}

func (e *ExportSinkError) Unwrap() error {
	return e.Err
}

// Options configures a Session.
type Options struct {
	Images          imageload.Fetcher
	Placeholder     image.Image
	Clipboard       Clipboard // nil uses the system clipboard
	Currency        string    // empty uses catalog.DefaultCurrency
	ConfirmDuration time.Duration
	Logger          *zap.Logger
}

// Session owns the catalog, the image sequencer and the status line for one
// editing session, and runs every user action through them in order: flush
// the pending edit, mutate, retrigger the image, report.
type Session struct {
	store    *catalog.Store
	images   *imageload.Sequencer
	notifier *status.Notifier

	clipboard  Clipboard
	currency   string
	confirmFor time.Duration
	log        *zap.Logger

	loadErr error
	// rejected is the invalid price text last warned about, keyed by product,
	// so retrying the same text does not repeat the warning.
	rejected string
}

// New returns an empty Session.
func New(opts Options) *Session {
	s := &Session{
		store:      &catalog.Store{},
		images:     imageload.NewSequencer(opts.Images, opts.Placeholder),
		notifier:   status.NewNotifier(),
		clipboard:  opts.Clipboard,
		currency:   opts.Currency,
		confirmFor: opts.ConfirmDuration,
		log:        opts.Logger,
	}
	if s.clipboard == nil {
		s.clipboard = systemClipboard{}
	}
	if s.currency == "" {
		s.currency = catalog.DefaultCurrency
	}
	if s.confirmFor <= 0 {
		s.confirmFor = DefaultConfirmDuration
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Load replaces the catalog with the document from src. On any failure the
// catalog is left empty and the error is kept for LoadErr; there is no retry.
func (s *Session) Load(ctx context.Context, src source.Fetcher) (catalog.LoadStats, error) {
	s.images.Reset()
	s.loadErr = nil
	s.rejected = ""

	raw, err := src.Fetch(ctx)
	if err != nil {
		s.store.Reset()
		s.loadErr = err
		s.log.Error("catalog load failed", zap.Error(err))
		return catalog.LoadStats{}, err
	}
	stats, err := s.store.Load(raw)
	if stats.Skipped > 0 {
		s.log.Warn("skipped records without title or image", zap.Int("skipped", stats.Skipped))
	}
	if err != nil {
		s.loadErr = err
		s.log.Error("catalog load failed", zap.Error(err), zap.Int("records", len(raw)))
		return stats, err
	}
	s.log.Info("catalog loaded", zap.Int("products", stats.Loaded))
	return stats, nil
}

// LoadErr returns the error of the last Load, if any.
func (s *Session) LoadErr() error {
	return s.loadErr
}

// Empty reports whether there is nothing to show.
func (s *Session) Empty() bool {
	return s.store.Len() == 0
}

// Current returns the product under the cursor.
func (s *Session) Current() (catalog.Product, bool) {
	return s.store.Current()
}

// Position returns the cursor index and catalog size.
func (s *Session) Position() (index, count int) {
	return s.store.Position()
}

// Products returns a copy of the catalog.
func (s *Session) Products() []catalog.Product {
	return s.store.Products()
}

// Currency returns the currency used by Export.
func (s *Session) Currency() string {
	return s.currency
}

// Frame returns what the image pane should draw.
func (s *Session) Frame() imageload.Frame {
	return s.images.Snapshot()
}

// Status returns the visible status message.
func (s *Session) Status() (status.Message, bool) {
	return s.notifier.Current()
}

// Notify shows a status message.
func (s *Session) Notify(text string, level status.Level, d time.Duration) status.Message {
	return s.notifier.Show(text, level, d)
}

// Open starts the image load for the current product, moving to the
// product with resumeID first when it exists.
func (s *Session) Open(resumeID string) (imageload.Ticket, bool) {
	if resumeID != "" && !s.store.Locate(resumeID) {
		s.log.Debug("resume product not found", zap.String("id", resumeID))
	}
	p, ok := s.store.Current()
	if !ok {
		return imageload.Ticket{}, false
	}
	return s.images.Begin(p.ID, p.Image), true
}

// Navigate silently commits pending, moves the cursor by delta with
// wraparound and starts the new product's image load.
func (s *Session) Navigate(delta int, pending catalog.Edit) (imageload.Ticket, bool) {
	if s.Empty() {
		return imageload.Ticket{}, false
	}
	s.commit(pending, catalog.Silent)
	p, ok := s.store.Seek(delta)
	if !ok {
		return imageload.Ticket{}, false
	}
	return s.images.Begin(p.ID, p.Image), true
}

// Jump is Navigate to an absolute index; negative indexes count from the
// end.
func (s *Session) Jump(index int, pending catalog.Edit) (imageload.Ticket, bool) {
	if s.Empty() {
		return imageload.Ticket{}, false
	}
	s.commit(pending, catalog.Silent)
	p, ok := s.store.SeekTo(index)
	if !ok {
		return imageload.Ticket{}, false
	}
	return s.images.Begin(p.ID, p.Image), true
}

// Save commits pending to the current product and confirms when something
// changed.
func (s *Session) Save(pending catalog.Edit) catalog.Outcome {
	if s.Empty() {
		return catalog.Outcome{}
	}
	return s.commit(pending, catalog.Interactive)
}

func (s *Session) commit(pending catalog.Edit, mode catalog.Mode) catalog.Outcome {
	out := catalog.Commit(s.store, pending, mode)
	if out.Changed {
		s.log.Debug("product updated",
			zap.String("id", out.Product.ID),
			zap.Bool("available", out.Product.IsAvailable),
			zap.Bool("silent", mode == catalog.Silent),
		)
	}
	if out.InvalidPrice {
		key := out.Product.ID + "\x00" + strings.TrimSpace(pending.Price)
		if key == s.rejected {
			return out
		}
		s.rejected = key
		s.notifier.Show(fmt.Sprintf("Invalid price %q for %s; kept the previous value", pending.Price, out.Product.Title),
			status.LevelWarning, invalidPriceDuration)
		return out
	}
	s.rejected = ""
	if out.Confirmation != "" {
		s.notifier.Show(out.Confirmation, status.LevelSuccess, s.confirmFor)
	}
	return out
}

// Export silently commits pending and formats the whole catalog.
func (s *Session) Export(pending catalog.Edit) string {
	if !s.Empty() {
		s.commit(pending, catalog.Silent)
	}
	return catalog.Export(s.store.Products(), s.currency)
}

// CopyAll exports the catalog to the clipboard. A failure is reported as an
// *ExportSinkError and on the status line.
func (s *Session) CopyAll(pending catalog.Edit) error {
	text := s.Export(pending)
	if err := s.clipboard.WriteAll(text); err != nil {
		sinkErr := &ExportSinkError{Err: err}
		s.log.Warn("clipboard write failed", zap.Error(err))
		s.notifier.Show("Could not copy the product list: "+err.Error(), status.LevelError, clipboardStatusDuration)
		return sinkErr
	}
	s.notifier.Show("Product list copied to clipboard", status.LevelSuccess, clipboardStatusDuration)
	return nil
}

// LoadImage performs the blocking image fetch for t.
func (s *Session) LoadImage(ctx context.Context, t imageload.Ticket) imageload.Result {
	return s.images.Load(ctx, t)
}

// ResolveImage applies r and reports whether the frame changed. A failure
// of the current product's image raises a warning.
func (s *Session) ResolveImage(r imageload.Result) bool {
	if !s.images.Resolve(r) {
		s.log.Debug("dropped stale image result", zap.String("product", r.Ticket.ProductID))
		return false
	}
	frame := s.images.Snapshot()
	if frame.State == imageload.StateFailed {
		title := r.Ticket.ProductID
		if p, ok := s.store.Current(); ok && p.ID == r.Ticket.ProductID {
			title = p.Title
		}
		s.log.Warn("image load failed", zap.String("product", r.Ticket.ProductID), zap.Error(frame.Err))
		s.notifier.Show("Image unavailable for "+title, status.LevelWarning, ImageWarningDuration)
	}
	return true
}

// Close abandons any image load in flight.
func (s *Session) Close() {
	s.images.Reset()
}
