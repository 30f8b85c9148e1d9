// @lixen: #focus{sys[loop,timing]}
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/matrix-rain/rain"
	"github.com/lixenwraith/matrix-rain/render"
	"github.com/lixenwraith/matrix-rain/terminal"
)

// FrameInterval is the default time between frames, about 30 per second
const FrameInterval = 33 * time.Millisecond

// ErrInput wraps failures reported by the terminal input stream
var ErrInput = errors.New("terminal input failed")

// Terminal is the part of terminal.Terminal the frame loop drives
type Terminal interface {
	Size() (width, height int)
	Events() <-chan terminal.Event
	Fini()
}

// Scheduler runs the frame loop, racing input events against the next frame deadline
// All engine and buffer state is owned by the goroutine calling Run
type Scheduler struct {
	term     Terminal
	engine   *rain.Engine
	frames   *render.DoubleBuffer
	clock    Clock
	speed    float64 // rows per second
	interval time.Duration

	width      int
	height     int
	frameCount atomic.Uint64
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces the system clock
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithFrameInterval overrides FrameInterval
func WithFrameInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// New creates a scheduler for an engine and buffer already sized to the terminal
func New(term Terminal, engine *rain.Engine, frames *render.DoubleBuffer, speed float64, opts ...Option) *Scheduler {
	s := &Scheduler{
		term:     term,
		engine:   engine,
		frames:   frames,
		clock:    NewTimeProvider(),
		speed:    speed,
		interval: FrameInterval,
		width:    frames.Current().Width(),
		height:   frames.Current().Height(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Frames returns the number of frames presented so far, safe to call from any goroutine
func (s *Scheduler) Frames() uint64 {
	return s.frameCount.Load()
}

// Run drives the animation until Ctrl+C, end of input, an input error or ctx cancellation
// The terminal is restored exactly once on every return path
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.term.Fini()

	events := s.term.Events()
	lastFrame := s.clock.Now()

	// Armed once per frame; input arrivals never push the deadline back
	var tick <-chan time.Time

	for {
		s.checkResize()

		if tick == nil {
			tick = s.clock.After(lastFrame.Add(s.interval))
		}

		select {
		case <-ctx.Done():
			log.Printf("Session cancelled: %v", context.Cause(ctx))
			return nil

		case ev, ok := <-events:
			if !ok {
				log.Printf("Input stream closed")
				return nil
			}
			switch ev.Type {
			case terminal.EventKey:
				if ev.IsInterrupt() {
					log.Printf("Interrupt received after %d frames", s.frameCount.Load())
					return nil
				}
			case terminal.EventError:
				log.Printf("Input error: %v", ev.Err)
				return fmt.Errorf("%w: %w", ErrInput, ev.Err)
			case terminal.EventClosed:
				log.Printf("Input reached end of stream")
				return nil
			}
			// Resize and other keys fall through; size is polled at the top of the loop

		case now := <-tick:
			tick = nil
			elapsed := now.Sub(lastFrame)
			lastFrame = now

			if err := s.frame(elapsed); err != nil {
				return fmt.Errorf("presenting frame: %w", err)
			}
		}
	}
}

// frame advances the simulation by elapsed and writes the resulting changes
func (s *Scheduler) frame(elapsed time.Duration) error {
	fall := s.speed * elapsed.Seconds()
	s.engine.Update(s.height, fall)
	s.engine.Render(s.frames.Current())
	if err := s.frames.Present(); err != nil {
		return err
	}
	s.frameCount.Add(1)
	return nil
}

// checkResize reallocates buffers and adjusts the drop count when the terminal size changed
func (s *Scheduler) checkResize() {
	w, h := s.term.Size()
	if w == s.width && h == s.height {
		return
	}
	log.Printf("Resize %dx%d -> %dx%d", s.width, s.height, w, h)
	s.width, s.height = w, h
	s.frames.Resize(h, w)
	s.engine.Resize(w, h)
}
