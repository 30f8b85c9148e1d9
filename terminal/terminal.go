// @lixen: #focus{sys[term,io,output]}
package terminal

import (
	"io"
	"os"
	"sync"
)

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// Events returns the input event stream; resize notifications arrive as EventResize
	Events() <-chan Event

	// Output returns the raw output stream for frame rendering
	Output() io.Writer

	// ColorMode returns the color capability output should target
	ColorMode() ColorMode
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend   Backend
	colorMode ColorMode
	input     *inputReader
	eventCh   chan Event

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a new Terminal on stdin/stdout
func New(colorMode ColorMode) Terminal {
	return newTerminal(newBackend(), colorMode)
}

func newTerminal(b Backend, colorMode ColorMode) *termImpl {
	return &termImpl{
		backend:   b,
		colorMode: colorMode,
		eventCh:   make(chan Event, 256),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.input = newInputReader(t.backend, t.eventCh)

	t.backend.SetResizeHandler(func(w, h int) {
		// Non-blocking, the loop polls size on its next pass anyway
		select {
		case t.eventCh <- Event{Type: EventResize, Width: w, Height: h}:
		default:
		}
	})

	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)

	// Prevents terminal scroll/wrap on bottom-right corner write
	t.writeRaw(csiAutoWrapOff)

	t.writeRaw(csiSGR0)
	t.writeRaw(csiClear)

	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if t.input != nil {
		t.input.stop()
	}

	t.writeRaw(csiCursorShow)
	t.writeRaw(csiClear)
	t.writeRaw(csiSGR0)
	t.writeRaw(csiAltScreenExit)

	// Re-enable Auto-Wrap AFTER exiting alt screen to ensure the main buffer has wrap enabled
	t.writeRaw(csiAutoWrapOn)

	t.backend.Fini()

	t.finalized = true
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// Events returns the input event channel
func (t *termImpl) Events() <-chan Event {
	return t.eventCh
}

// Output returns a writer onto the terminal
func (t *termImpl) Output() io.Writer {
	return backendWriter{t.backend}
}

// ColorMode returns the configured color capability
func (t *termImpl) ColorMode() ColorMode {
	return t.colorMode
}

// writeRaw writes raw bytes to output
func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
