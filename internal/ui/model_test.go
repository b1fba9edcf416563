package ui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"

	"github.com/five82/showcase/internal/catalog"
	"github.com/five82/showcase/internal/imageload"
	"github.com/five82/showcase/internal/prefs"
	"github.com/five82/showcase/internal/session"
	"github.com/five82/showcase/internal/source"
	"github.com/five82/showcase/internal/status"
)

type staticSource struct {
	items []catalog.RawProduct
	err   error
}

func (s staticSource) Fetch(context.Context) ([]catalog.RawProduct, error) {
	return s.items, s.err
}

type mapImages map[string]image.Image

func (m mapImages) Fetch(_ context.Context, ref string) (image.Image, error) {
	if img, ok := m[ref]; ok {
		return img, nil
	}
	return nil, errors.New("not found")
}

func ptr[T any](v T) *T { return &v }

func sampleProducts() []catalog.RawProduct {
	return []catalog.RawProduct{
		{ID: []byte(`"pen"`), Title: "Pen", Image: "pen.png", Price: catalog.Price{Value: ptr(10.0)}},
		{ID: []byte(`"cup"`), Title: "Cup", Image: "cup.png", IsAvailable: ptr(false), Note: ptr("chipped")},
		{ID: []byte(`"mug"`), Title: "Mug", Image: "mug.png", Price: catalog.Price{Value: ptr(450.0)}},
	}
}

type harness struct {
	t         *testing.T
	m         Model
	sess      *session.Session
	prefsPath string
	copied    string
}

func newHarness(t *testing.T, src source.Fetcher, clipErr error, resumeID string) *harness {
	t.Helper()
	h := &harness{t: t, prefsPath: filepath.Join(t.TempDir(), "prefs.toml")}
	h.sess = session.New(session.Options{
		Images: mapImages{
			"pen.png": imaging.New(4, 4, color.White),
			"mug.png": imaging.New(4, 4, color.Black),
		},
		Clipboard: session.ClipboardFunc(func(text string) error {
			if clipErr != nil {
				return clipErr
			}
			h.copied = text
			return nil
		}),
	})
	h.m = New(Options{Session: h.sess, Source: src, PrefsPath: h.prefsPath, ResumeID: resumeID})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.send(h.m.Init()())
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	updated, cmd := h.m.Update(msg)
	h.m = updated.(Model)
	return cmd
}

func (h *harness) keys(keys ...tea.KeyMsg) {
	h.t.Helper()
	for _, k := range keys {
		h.send(k)
	}
}

// resolveImage completes the image load the sequencer is waiting for.
func (h *harness) resolveImage() {
	h.t.Helper()
	f := h.sess.Frame()
	ticket := imageload.Ticket{Generation: f.Generation, ProductID: f.ProductID, Ref: f.Ref}
	h.send(imageLoadedMsg(h.sess.LoadImage(context.Background(), ticket)))
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter  = tea.KeyMsg{Type: tea.KeyEnter}
	esc    = tea.KeyMsg{Type: tea.KeyEsc}
	clearKey = tea.KeyMsg{Type: tea.KeyCtrlU}
	right  = tea.KeyMsg{Type: tea.KeyRight}
	pgDown = tea.KeyMsg{Type: tea.KeyPgDown}
)

func currentTitle(t *testing.T, sess *session.Session) string {
	t.Helper()
	p, ok := sess.Current()
	if !ok {
		t.Fatalf("no current product")
	}
	return p.Title
}

func TestModel_LoadsCatalogAndShowsPosition(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")
	h.resolveImage()

	view := h.m.View()
	for _, want := range []string{"1 of 3", "Pen", "Price", "Not available", "Note", "Shared as"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if got := h.m.priceInput.Value(); got != "10" {
		t.Fatalf("price input = %q, want 10", got)
	}
	if h.sess.Frame().State != imageload.StateLoaded {
		t.Fatalf("image state = %v, want loaded", h.sess.Frame().State)
	}
}

func TestModel_ResumesAtSavedProduct(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "cup")
	if got := currentTitle(t, h.sess); got != "Cup" {
		t.Fatalf("current = %q, want Cup", got)
	}
	if !h.m.notAvailable {
		t.Fatalf("form notAvailable = false, want true for Cup")
	}
}

func TestModel_NavigationWrapsAndFlushesPendingEdit(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	// Type a price, leave the field without saving, then move on.
	h.keys(runes("e"), clearKey, runes("12"), esc, runes("n"))

	if got := currentTitle(t, h.sess); got != "Cup" {
		t.Fatalf("current = %q, want Cup", got)
	}
	pen := h.sess.Products()[0]
	if pen.Price == nil || *pen.Price != 12 {
		t.Fatalf("Pen price = %v, want 12", pen.Price)
	}
	if _, shown := h.sess.Status(); shown {
		t.Fatalf("silent flush showed a status message")
	}

	h.keys(runes("p"), runes("p"))
	if got := currentTitle(t, h.sess); got != "Mug" {
		t.Fatalf("current after wrapping back = %q, want Mug", got)
	}
	if got := h.m.priceInput.Value(); got != "450" {
		t.Fatalf("price input = %q, want 450", got)
	}

	h.keys(runes("G"))
	if got := currentTitle(t, h.sess); got != "Mug" {
		t.Fatalf("last = %q, want Mug", got)
	}
	h.keys(runes("g"))
	if got := currentTitle(t, h.sess); got != "Pen" {
		t.Fatalf("first = %q, want Pen", got)
	}
}

func TestModel_PageDownWhileEditingKeepsFocus(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	h.keys(runes("N"), runes("gift"), pgDown)

	if got := h.sess.Products()[0].Note; got != "gift" {
		t.Fatalf("Pen note = %q, want gift", got)
	}
	if h.m.focus != fieldNote {
		t.Fatalf("focus = %v, want note field", h.m.focus)
	}
	if got := h.m.noteInput.Value(); got != "chipped" {
		t.Fatalf("note input = %q, want Cup's note", got)
	}
}

func TestModel_EnterSavesAndConfirms(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	h.keys(runes("e"), clearKey, runes("15"))
	cmd := h.send(enter)

	msg, ok := h.sess.Status()
	if !ok || msg.Text != "Saved: Pen" || msg.Level != status.LevelSuccess {
		t.Fatalf("status = %+v (shown %v), want Saved: Pen", msg, ok)
	}
	if cmd == nil {
		t.Fatalf("save returned no status expiry command")
	}
	if h.m.focus != fieldNone {
		t.Fatalf("focus = %v, want none after Enter", h.m.focus)
	}
	if !strings.Contains(h.m.View(), "Saved: Pen") {
		t.Fatalf("status line not rendered")
	}
}

func TestModel_InvalidPriceIsRejected(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	h.keys(runes("e"), clearKey, runes("abc"), enter)

	msg, ok := h.sess.Status()
	if !ok || msg.Level != status.LevelWarning {
		t.Fatalf("status = %+v, want warning", msg)
	}
	if got := h.m.priceInput.Value(); got != "10" {
		t.Fatalf("price input = %q, want restored 10", got)
	}
}

func TestModel_ToggleAvailabilitySavesImmediately(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	h.keys(runes("a"))

	if h.sess.Products()[0].IsAvailable {
		t.Fatalf("Pen still available after toggle")
	}
	if msg, _ := h.sess.Status(); msg.Text != "Saved: Pen" {
		t.Fatalf("status = %q, want Saved: Pen", msg.Text)
	}
	if !strings.Contains(h.m.View(), "[x]") {
		t.Fatalf("checkbox not rendered as checked")
	}
}

func TestModel_CopyAllShowsAcknowledgment(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	h.keys(runes("c"))
	if h.m.modal == nil {
		t.Fatalf("no acknowledgment modal after copy")
	}
	if !strings.Contains(h.m.View(), "Ready to share") {
		t.Fatalf("modal view missing success title")
	}
	if !strings.HasPrefix(h.copied, "--- PRODUCT LIST ---") {
		t.Fatalf("clipboard = %q, want export text", h.copied)
	}

	// The modal swallows keys until acknowledged.
	h.keys(right)
	if got := currentTitle(t, h.sess); got != "Pen" {
		t.Fatalf("navigation happened behind the modal")
	}
	h.keys(enter)
	if h.m.modal != nil {
		t.Fatalf("modal still open after Enter")
	}
}

func TestModel_CopyAllFailure(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, errors.New("clipboard denied"), "")
	before := h.sess.Products()

	h.keys(runes("c"))

	view := h.m.View()
	if !strings.Contains(view, "Copy failed") || !strings.Contains(view, "denied") {
		t.Fatalf("modal view missing failure details:\n%s", view)
	}
	msg, _ := h.sess.Status()
	if msg.Level != status.LevelError {
		t.Fatalf("status level = %v, want error", msg.Level)
	}
	if len(h.sess.Products()) != len(before) {
		t.Fatalf("catalog changed after a failed copy")
	}
}

func TestModel_ImageFailureShowsPlaceholderAndWarning(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	h.keys(runes("n"))
	h.resolveImage()

	if h.sess.Frame().State != imageload.StateFailed {
		t.Fatalf("image state = %v, want failed", h.sess.Frame().State)
	}
	msg, ok := h.sess.Status()
	if !ok || msg.Text != "Image unavailable for Cup" {
		t.Fatalf("status = %+v, want image warning", msg)
	}
	if !strings.Contains(h.m.View(), "Image unavailable") {
		t.Fatalf("view missing image failure caption")
	}
}

func TestModel_StaleImageResultIgnored(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")
	f := h.sess.Frame()
	stale := imageload.Ticket{Generation: f.Generation, ProductID: f.ProductID, Ref: f.Ref}

	h.keys(runes("n"), runes("n"))
	h.send(imageLoadedMsg(imageload.Result{Ticket: stale, Err: errors.New("late")}))

	if _, shown := h.sess.Status(); shown {
		t.Fatalf("stale failure produced a status message")
	}
	if got := h.sess.Frame(); got.State != imageload.StateLoading || got.ProductID != "mug" {
		t.Fatalf("frame = %+v, want mug still loading", got)
	}
}

func TestModel_LoadErrorShowsEmptyScreen(t *testing.T) {
	loadErr := &source.LoadError{Location: "https://shop.example/products.json", Err: errors.New("returned status 500")}
	h := newHarness(t, staticSource{err: loadErr}, nil, "")

	view := h.m.View()
	if !strings.Contains(view, "No products available") {
		t.Fatalf("view missing empty message:\n%s", view)
	}
	if !strings.Contains(view, "shop.example") {
		t.Fatalf("view missing source location")
	}

	// Every slide command is a no-op.
	h.keys(runes("n"), runes("e"), runes("a"), runes("c"))
	if h.m.modal != nil || h.m.focus != fieldNone {
		t.Fatalf("commands acted on an empty catalog")
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")
	h.keys(runes("n"), runes("T"))

	if h.m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", h.m.theme.Name)
	}
	p := prefs.Load(h.prefsPath)
	if p.Theme != "Kanagawa" || p.LastProductID != "cup" {
		t.Fatalf("prefs = %+v, want Kanagawa at cup", p)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	h.keys(runes("?"))
	if !strings.Contains(h.m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	h.keys(runes("n"))
	if h.m.showHelp {
		t.Fatalf("help still open")
	}
	if got := currentTitle(t, h.sess); got != "Pen" {
		t.Fatalf("key closing help also navigated")
	}
}

func TestModel_StatusExpirySchedulesOncePerMessage(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")

	if cmd := h.m.scheduleStatusExpiry(); cmd != nil {
		t.Fatalf("expiry scheduled without a message")
	}
	h.sess.Notify("hello", status.LevelInfo, time.Minute)
	first := h.m.scheduleStatusExpiry()
	second := h.m.scheduleStatusExpiry()
	if first == nil || second != nil {
		t.Fatalf("expected exactly one timer per message")
	}

	h.sess.Notify("later", status.LevelInfo, 2*time.Minute)
	if cmd := h.m.scheduleStatusExpiry(); cmd == nil {
		t.Fatalf("no expiry scheduled for a replacement message")
	}
}

func TestModel_QuitSavesPosition(t *testing.T) {
	h := newHarness(t, staticSource{items: sampleProducts()}, nil, "")
	h.keys(runes("n"), runes("n"))

	if cmd := h.send(runes("q")); cmd == nil {
		t.Fatalf("quit returned no command")
	}
	if p := prefs.Load(h.prefsPath); p.LastProductID != "mug" {
		t.Fatalf("LastProductID = %q, want mug", p.LastProductID)
	}
}
