package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/matrix-rain/rain"
	"github.com/lixenwraith/matrix-rain/render"
	"github.com/lixenwraith/matrix-rain/terminal"
)

// fakeTerminal delivers events over an unbuffered channel so each send is a sync point with the loop
type fakeTerminal struct {
	mu     sync.Mutex
	width  int
	height int
	events chan terminal.Event
	fini   atomic.Int32
}

func newFakeTerminal(width, height int) *fakeTerminal {
	return &fakeTerminal{width: width, height: height, events: make(chan terminal.Event)}
}

func (f *fakeTerminal) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *fakeTerminal) setSize(w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height = w, h
}

func (f *fakeTerminal) Events() <-chan terminal.Event { return f.events }

func (f *fakeTerminal) Fini() { f.fini.Add(1) }

var (
	ctrlC  = terminal.Event{Type: terminal.EventKey, Key: terminal.KeyCtrlC}
	keyA   = terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'a'}
	resize = terminal.Event{Type: terminal.EventResize}
)

type harness struct {
	term   *fakeTerminal
	clock  *MockTimeProvider
	engine *rain.Engine
	frames *render.DoubleBuffer
	out    *bytes.Buffer
	sched  *Scheduler
	start  time.Time
}

func newHarness(width, height int, speed float64) *harness {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &harness{
		term:  newFakeTerminal(width, height),
		clock: NewMockTimeProvider(start),
		out:   &bytes.Buffer{},
		start: start,
	}
	h.engine = rain.NewEngine(rain.Config{
		Base:       render.RGB{G: 255},
		Background: render.RGBBlack,
		Density:    1.0,
		Chars:      []rune("ab"),
	}, width, height, rand.New(rand.NewPCG(1, 2)))
	h.frames = render.NewDoubleBuffer(h.out, height, width, render.RGBBlack, terminal.ColorModeTrueColor)
	h.sched = New(h.term, h.engine, h.frames, speed, WithClock(h.clock))
	return h
}

func (h *harness) run(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- h.sched.Run(ctx) }()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRun_InterruptAfterFrames(t *testing.T) {
	h := newHarness(20, 1000, 10)
	before := h.engine.Drops()
	done := h.run(context.Background())

	h.clock.Fire(h.start.Add(33 * time.Millisecond))
	h.clock.Fire(h.start.Add(66 * time.Millisecond))
	h.term.events <- ctrlC

	if err := wait(t, done); err != nil {
		t.Fatalf("Run returned %v, want nil", err)
	}
	if got := h.term.fini.Load(); got != 1 {
		t.Errorf("Fini called %d times, want 1", got)
	}
	if h.sched.Frames() != 2 {
		t.Errorf("frames = %d, want 2", h.sched.Frames())
	}
	if h.out.Len() == 0 {
		t.Error("no output written")
	}

	// 10 rows/s over 66ms
	after := h.engine.Drops()
	for i := range before {
		if math.Abs(after[i].Pos-before[i].Pos-0.66) > 1e-9 {
			t.Fatalf("drop %d fell %v, want 0.66", i, after[i].Pos-before[i].Pos)
		}
	}

	want := []time.Time{
		h.start.Add(33 * time.Millisecond),
		h.start.Add(66 * time.Millisecond),
		h.start.Add(99 * time.Millisecond),
	}
	got := h.clock.Deadlines()
	if len(got) != len(want) {
		t.Fatalf("deadlines = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("deadline %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRun_InputDoesNotRearmDeadline(t *testing.T) {
	h := newHarness(10, 10, 5)
	done := h.run(context.Background())

	h.term.events <- keyA
	h.term.events <- resize
	h.term.events <- keyA

	if n := len(h.clock.Deadlines()); n != 1 {
		t.Fatalf("armed %d timers after input, want 1", n)
	}
	if h.sched.Frames() != 0 {
		t.Fatalf("input produced a frame")
	}

	h.clock.Fire(h.start.Add(40 * time.Millisecond))
	h.term.events <- keyA

	got := h.clock.Deadlines()
	if len(got) != 2 {
		t.Fatalf("deadlines = %v, want 2 entries", got)
	}
	if want := h.start.Add(73 * time.Millisecond); !got[1].Equal(want) {
		t.Errorf("next deadline = %v, want %v", got[1], want)
	}

	h.term.events <- ctrlC
	if err := wait(t, done); err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestRun_InputError(t *testing.T) {
	h := newHarness(10, 10, 5)
	done := h.run(context.Background())

	h.term.events <- terminal.Event{Type: terminal.EventError, Err: io.ErrUnexpectedEOF}

	err := wait(t, done)
	if !errors.Is(err, ErrInput) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Run returned %v, want wrapped input error", err)
	}
	if got := h.term.fini.Load(); got != 1 {
		t.Errorf("Fini called %d times, want 1", got)
	}
}

func TestRun_EndOfInput(t *testing.T) {
	t.Run("closed event", func(t *testing.T) {
		h := newHarness(10, 10, 5)
		done := h.run(context.Background())
		h.term.events <- terminal.Event{Type: terminal.EventClosed}
		if err := wait(t, done); err != nil {
			t.Fatalf("Run returned %v", err)
		}
		if got := h.term.fini.Load(); got != 1 {
			t.Errorf("Fini called %d times, want 1", got)
		}
	})

	t.Run("closed channel", func(t *testing.T) {
		h := newHarness(10, 10, 5)
		done := h.run(context.Background())
		close(h.term.events)
		if err := wait(t, done); err != nil {
			t.Fatalf("Run returned %v", err)
		}
		if got := h.term.fini.Load(); got != 1 {
			t.Errorf("Fini called %d times, want 1", got)
		}
	})
}

func TestRun_ContextCancel(t *testing.T) {
	h := newHarness(10, 10, 5)
	ctx, cancel := context.WithCancel(context.Background())
	done := h.run(ctx)

	h.clock.Fire(h.start.Add(33 * time.Millisecond))
	cancel()

	if err := wait(t, done); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if got := h.term.fini.Load(); got != 1 {
		t.Errorf("Fini called %d times, want 1", got)
	}
}

func TestRun_Resize(t *testing.T) {
	h := newHarness(10, 5, 5)
	done := h.run(context.Background())

	h.clock.Fire(h.start.Add(33 * time.Millisecond))

	h.term.setSize(25, 8)
	h.term.events <- resize
	h.clock.Fire(h.start.Add(66 * time.Millisecond))
	h.term.events <- ctrlC

	if err := wait(t, done); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	cur := h.frames.Current()
	if cur.Width() != 25 || cur.Height() != 8 {
		t.Errorf("buffer = %dx%d, want 25x8", cur.Width(), cur.Height())
	}
	if got, want := len(h.engine.Drops()), rain.DropCount(25, 1.0); got != want {
		t.Errorf("drops = %d, want %d", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestRun_PresentError(t *testing.T) {
	h := newHarness(10, 10, 5)
	h.frames = render.NewDoubleBuffer(failingWriter{}, 10, 10, render.RGBBlack, terminal.ColorModeTrueColor)
	h.sched = New(h.term, h.engine, h.frames, 5, WithClock(h.clock))
	done := h.run(context.Background())

	h.clock.Fire(h.start.Add(33 * time.Millisecond))

	err := wait(t, done)
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Run returned %v, want write error", err)
	}
	if got := h.term.fini.Load(); got != 1 {
		t.Errorf("Fini called %d times, want 1", got)
	}
}

func TestWithFrameInterval(t *testing.T) {
	h := newHarness(4, 4, 5)
	s := New(h.term, h.engine, h.frames, 5, WithFrameInterval(10*time.Millisecond))
	if s.interval != 10*time.Millisecond {
		t.Errorf("interval = %v", s.interval)
	}
	s = New(h.term, h.engine, h.frames, 5, WithFrameInterval(0))
	if s.interval != FrameInterval {
		t.Errorf("non-positive interval accepted: %v", s.interval)
	}
}
