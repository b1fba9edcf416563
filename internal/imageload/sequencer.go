package imageload

import (
	"context"
	"errors"
	"image"
	"sync"
)

// ErrStale is returned by Load for a ticket that a newer Begin replaced.
var ErrStale = errors.New("image load superseded")

// State is the phase of the current product's image.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Ticket identifies one load. Only the ticket from the latest Begin can
// change what is displayed.
type Ticket struct {
	Generation uint64
	ProductID  string
	Ref        string
}

// Result is the outcome of Load, to be handed to Resolve.
type Result struct {
	Ticket Ticket
	Image  image.Image
	Err    error
}

// Frame is what the view should draw for the current product.
type Frame struct {
	State      State
	Generation uint64
	ProductID  string
	Ref        string
	// Image is the decoded image once loaded, the placeholder after a
	// failure, and the previous frame's image (if any) while loading.
	Image image.Image
	Err   error
}

// Sequencer tracks the image of the current product. Each Begin starts a
// new generation; results from older generations are ignored by Resolve.
type Sequencer struct {
	fetcher     Fetcher
	placeholder image.Image

	mu     sync.Mutex
	gen    uint64
	frame  Frame
	cancel context.CancelFunc
}

// NewSequencer returns a Sequencer using fetcher. A nil placeholder uses
// the built-in one.
func NewSequencer(fetcher Fetcher, placeholder image.Image) *Sequencer {
	if placeholder == nil {
		placeholder = Placeholder()
	}
	return &Sequencer{fetcher: fetcher, placeholder: placeholder}
}

// Begin enters Loading for a new product and invalidates any load in
// flight. The previous load's context is cancelled as well.
func (s *Sequencer) Begin(productID, ref string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.gen++
	s.frame = Frame{
		State:      StateLoading,
		Generation: s.gen,
		ProductID:  productID,
		Ref:        ref,
		Image:      s.frame.Image,
	}
	return Ticket{Generation: s.gen, ProductID: productID, Ref: ref}
}

// Load fetches the image for t. It blocks and is meant to run off the
// event loop. It does not change the frame; pass the result to Resolve.
func (s *Sequencer) Load(ctx context.Context, t Ticket) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if t.Generation != s.gen {
		s.mu.Unlock()
		return Result{Ticket: t, Err: ErrStale}
	}
	s.cancel = cancel
	s.mu.Unlock()

	if s.fetcher == nil {
		return Result{Ticket: t, Err: &LoadError{Ref: t.Ref, Err: errors.New("no image fetcher")}}
	}
	img, err := s.fetcher.Fetch(ctx, t.Ref)
	return Result{Ticket: t, Image: img, Err: err}
}

// Resolve applies r if it belongs to the current generation and reports
// whether the frame changed. Results of superseded loads are dropped.
func (s *Sequencer) Resolve(r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Ticket.Generation != s.gen || s.frame.State != StateLoading {
		return false
	}
	s.cancel = nil
	if r.Err != nil || r.Image == nil {
		err := r.Err
		if err == nil {
			err = &LoadError{Ref: r.Ticket.Ref, Err: errors.New("no image data")}
		}
		s.frame.State = StateFailed
		s.frame.Image = s.placeholder
		s.frame.Err = err
		return true
	}
	s.frame.State = StateLoaded
	s.frame.Image = r.Image
	s.frame.Err = nil
	return true
}

// Reset returns to Idle and invalidates any load in flight.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.gen++
	s.frame = Frame{State: StateIdle, Generation: s.gen}
}

// Snapshot returns the current frame.
func (s *Sequencer) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *Sequencer) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
