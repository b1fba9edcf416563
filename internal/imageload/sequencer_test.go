package imageload

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// gatedFetcher blocks each fetch until the test releases it.
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[string]chan fetchReply
	started chan string
}

type fetchReply struct {
	img image.Image
	err error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[string]chan fetchReply), started: make(chan string, 8)}
}

func (f *gatedFetcher) gate(ref string) chan fetchReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.gates[ref]
	if !ok {
		ch = make(chan fetchReply, 1)
		f.gates[ref] = ch
	}
	return ch
}

func (f *gatedFetcher) Fetch(ctx context.Context, ref string) (image.Image, error) {
	f.started <- ref
	select {
	case reply := <-f.gate(ref):
		return reply.img, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func solid(c color.Color) image.Image {
	return imaging.New(4, 4, c)
}

func TestSequencer_LoadsCurrentImage(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newGatedFetcher()
	seq := NewSequencer(f, nil)

	assert.Equal(t, StateIdle, seq.Snapshot().State)

	ticket := seq.Begin("pen", "pen.png")
	assert.Equal(t, StateLoading, seq.Snapshot().State)

	want := solid(color.White)
	f.gate("pen.png") <- fetchReply{img: want}
	result := seq.Load(context.Background(), ticket)

	require.True(t, seq.Resolve(result))
	frame := seq.Snapshot()
	assert.Equal(t, StateLoaded, frame.State)
	assert.Equal(t, "pen", frame.ProductID)
	assert.Same(t, want, frame.Image)
	assert.NoError(t, frame.Err)
}

func TestSequencer_FailureUsesPlaceholder(t *testing.T) {
	f := newGatedFetcher()
	placeholder := solid(color.Black)
	seq := NewSequencer(f, placeholder)

	ticket := seq.Begin("cup", "cup.png")
	f.gate("cup.png") <- fetchReply{err: errors.New("404")}
	require.True(t, seq.Resolve(seq.Load(context.Background(), ticket)))

	frame := seq.Snapshot()
	assert.Equal(t, StateFailed, frame.State)
	assert.Same(t, placeholder, frame.Image)
	assert.Error(t, frame.Err)
}

func TestSequencer_StaleResultsAreIgnored(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, staleErr := range []error{nil, errors.New("boom")} {
		f := newGatedFetcher()
		seq := NewSequencer(f, nil)

		staleTicket := seq.Begin("x", "x.png")
		staleDone := make(chan Result, 1)
		go func() { staleDone <- seq.Load(context.Background(), staleTicket) }()
		<-f.started

		current := seq.Begin("y", "y.png")
		yImage := solid(color.White)
		f.gate("y.png") <- fetchReply{img: yImage}
		require.True(t, seq.Resolve(seq.Load(context.Background(), current)))
		before := seq.Snapshot()

		// The stale load was cancelled by Begin; whatever it reports later
		// must not touch the frame.
		stale := <-staleDone
		assert.False(t, seq.Resolve(stale))
		assert.False(t, seq.Resolve(Result{Ticket: staleTicket, Image: solid(color.Black), Err: staleErr}))
		assert.Equal(t, before, seq.Snapshot())
		assert.Same(t, yImage, seq.Snapshot().Image)
	}
}

func TestSequencer_StaleResultWhileCurrentStillLoading(t *testing.T) {
	f := newGatedFetcher()
	seq := NewSequencer(f, nil)

	stale := seq.Begin("x", "x.png")
	current := seq.Begin("y", "y.png")

	assert.False(t, seq.Resolve(Result{Ticket: stale, Err: errors.New("late failure")}))
	frame := seq.Snapshot()
	assert.Equal(t, StateLoading, frame.State)
	assert.Equal(t, current.Generation, frame.Generation)
	assert.Equal(t, "y", frame.ProductID)
}

func TestSequencer_LoadOfStaleTicketReturnsImmediately(t *testing.T) {
	seq := NewSequencer(newGatedFetcher(), nil)
	old := seq.Begin("x", "x.png")
	seq.Begin("y", "y.png")

	result := seq.Load(context.Background(), old)
	assert.ErrorIs(t, result.Err, ErrStale)
}

func TestSequencer_ResolveTwiceAppliesOnce(t *testing.T) {
	f := newGatedFetcher()
	seq := NewSequencer(f, nil)
	ticket := seq.Begin("x", "x.png")
	f.gate("x.png") <- fetchReply{img: solid(color.White)}
	result := seq.Load(context.Background(), ticket)

	assert.True(t, seq.Resolve(result))
	assert.False(t, seq.Resolve(result))
}

func TestSequencer_KeepsPreviousImageWhileLoading(t *testing.T) {
	f := newGatedFetcher()
	seq := NewSequencer(f, nil)
	first := seq.Begin("x", "x.png")
	img := solid(color.White)
	f.gate("x.png") <- fetchReply{img: img}
	require.True(t, seq.Resolve(seq.Load(context.Background(), first)))

	seq.Begin("y", "y.png")
	frame := seq.Snapshot()
	assert.Equal(t, StateLoading, frame.State)
	assert.Same(t, img, frame.Image)
}

func TestSequencer_ResetInvalidatesInFlight(t *testing.T) {
	seq := NewSequencer(newGatedFetcher(), nil)
	ticket := seq.Begin("x", "x.png")
	seq.Reset()

	assert.False(t, seq.Resolve(Result{Ticket: ticket, Image: solid(color.White)}))
	assert.Equal(t, StateIdle, seq.Snapshot().State)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "failed", StateFailed.String())
}
