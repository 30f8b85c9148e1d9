package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError
}

// IsInterrupt reports whether the event is the Ctrl+C chord, in legacy or CSI-u encoding
func (ev Event) IsInterrupt() bool {
	if ev.Type != EventKey {
		return false
	}
	if ev.Key == KeyCtrlC {
		return true
	}
	return ev.Key == KeyRune && ev.Modifiers&ModCtrl != 0 && (ev.Rune == 'c' || ev.Rune == 'C')
}

// inputReader handles raw stdin parsing
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Persistent buffer for stream assembly, keeps partial UTF-8 and escape sequences across reads
	buf []byte
}

// escapeTimeout is the duration to wait after ESC to distinguish
// standalone ESC from escape sequence start
const escapeTimeout = 50 * time.Millisecond

// maxCSILen bounds how far a CSI sequence is scanned before it is discarded
const maxCSILen = 32

// newInputReader creates a new input reader
func newInputReader(backend Backend, eventCh chan Event) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: eventCh,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Wait with timeout - don't block forever if read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(2 * escapeTimeout):
	}
}

// readLoop is the main input reading goroutine
func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if p := recover(); p != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", p)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.sendFinal(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			select {
			case <-r.stopCh:
				return
			default:
			}
			if r.backend.Closed() {
				r.sendFinal(Event{Type: EventClosed})
				return
			}
			// Timeout: emit pending standalone ESC if present
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			continue
		}

		r.buf = append(r.buf, data...)
		consumed := r.parseInput(r.buf)

		if consumed > 0 {
			if consumed >= len(r.buf) {
				r.buf = r.buf[:0]
			} else {
				copy(r.buf, r.buf[consumed:])
				r.buf = r.buf[:len(r.buf)-consumed]
			}
		}
	}
}

// parseInput parses raw bytes into events and returns bytes consumed (stop on incomplete sequence)
func (r *inputReader) parseInput(data []byte) int {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		// Fast path: printable ASCII
		if b >= 0x20 && b < 0x7f {
			r.sendEvent(Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++
			continue
		}

		if b == 0x1b {
			// Need at least 2 bytes to determine sequence type
			if i+1 >= n {
				return i
			}

			consumed, ev := parseEscape(data[i:])
			if consumed == 0 {
				return i
			}

			// Swallow unknown sequences
			if ev.Key != KeyNone {
				r.sendEvent(ev)
			}
			i += consumed
			continue
		}

		if b < 0x20 {
			r.sendEvent(parseControl(b))
			i++
			continue
		}

		if b == 0x7f {
			r.sendEvent(Event{Type: EventKey, Key: KeyBackspace})
			i++
			continue
		}

		// UTF-8 multibyte
		if !utf8.FullRune(data[i:]) {
			return i
		}
		rn, size := utf8.DecodeRune(data[i:])
		if rn != utf8.RuneError {
			r.sendEvent(Event{Type: EventKey, Key: KeyRune, Rune: rn})
		}
		i += size
	}
	return i
}

// parseControl maps a C0 control byte to a key event
func parseControl(b byte) Event {
	switch b {
	case 0x00:
		return Event{Type: EventKey, Key: KeyCtrlSpace}
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1c:
		return Event{Type: EventKey, Key: KeyCtrlBackslash}
	case 0x1d:
		return Event{Type: EventKey, Key: KeyCtrlBracketRight}
	case 0x1e:
		return Event{Type: EventKey, Key: KeyCtrlCaret}
	case 0x1f:
		return Event{Type: EventKey, Key: KeyCtrlUnderscore}
	}
	return Event{Type: EventKey, Key: KeyCtrlA + Key(b-0x01)}
}

// parseEscape attempts to parse an escape sequence, returns 0 on incomplete
func parseEscape(data []byte) (int, Event) {
	if len(data) < 2 {
		return 0, Event{}
	}

	switch {
	case data[1] == 0x1b:
		// ESC ESC -> Alt+Escape
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}
	case data[1] == '[':
		return parseCSI(data)
	case data[1] == 'O':
		return parseSS3(data)
	case data[1] < 0x20:
		// Alt+Control character
		ev := parseControl(data[1])
		ev.Modifiers |= ModAlt
		return 2, ev
	case data[1] < 0x7f:
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}
	}

	// ESC followed by a non-ASCII byte: report ESC, let the rest parse normally
	return 1, Event{Type: EventKey, Key: KeyEscape}
}

// parseSS3 parses ESC O X
func parseSS3(data []byte) (int, Event) {
	if len(data) < 3 {
		return 0, Event{}
	}
	if key, ok := ss3Keys[data[2]]; ok {
		return 3, Event{Type: EventKey, Key: key}
	}
	return 3, Event{}
}

// parseCSI parses ESC [ params final
func parseCSI(data []byte) (int, Event) {
	end := 2
	for ; end < len(data); end++ {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f || end >= maxCSILen {
			// Malformed or runaway sequence, drop what was scanned
			return end, Event{}
		}
	}
	if end >= len(data) {
		return 0, Event{}
	}

	final := data[end]
	params := strings.Split(string(data[2:end]), ";")
	consumed := end + 1

	switch final {
	case 'u':
		// CSI-u (fixterms/kitty): code ; modifiers u
		return consumed, keyFromCode(atoi(params, 0), modifierParam(atoi(params, 1)))
	case '~':
		// xterm modifyOtherKeys: 27 ; modifiers ; code ~
		if atoi(params, 0) == 27 && len(params) == 3 {
			return consumed, keyFromCode(atoi(params, 2), modifierParam(atoi(params, 1)))
		}
		if key, ok := csiTildeKeys[atoi(params, 0)]; ok {
			return consumed, Event{Type: EventKey, Key: key, Modifiers: modifierParam(atoi(params, 1))}
		}
		return consumed, Event{}
	}

	if key, ok := csiFinalKeys[final]; ok {
		return consumed, Event{Type: EventKey, Key: key, Modifiers: modifierParam(atoi(params, 1))}
	}
	return consumed, Event{}
}

// keyFromCode builds a key event from a unicode code point and modifiers
func keyFromCode(code int, mods Modifier) Event {
	if code <= 0 || code > utf8.MaxRune {
		return Event{}
	}
	r := rune(code)
	if mods&ModCtrl != 0 {
		if key := ctrlLetter(r); key != KeyNone {
			return Event{Type: EventKey, Key: key, Modifiers: mods &^ ModCtrl}
		}
	}
	if code < 0x20 {
		ev := parseControl(byte(code))
		ev.Modifiers |= mods
		return ev
	}
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Modifiers: mods}
}

// modifierParam decodes the xterm modifier parameter (1 + bitmask)
func modifierParam(p int) Modifier {
	if p <= 1 {
		return ModNone
	}
	return Modifier(p-1) & (ModShift | ModAlt | ModCtrl)
}

// atoi returns the i-th numeric parameter, 0 when absent or malformed
func atoi(params []string, i int) int {
	if i >= len(params) {
		return 0
	}
	// Sub-parameters (kitty "code:shifted") keep only the primary value
	p, _, _ := strings.Cut(params[i], ":")
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0
	}
	return n
}

// sendEvent sends an event to the channel, non-blocking
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
		// Channel full, drop event
	}
}

// sendFinal delivers a stream-ending event, blocking until it is taken or the reader is stopped
func (r *inputReader) sendFinal(ev Event) {
	select {
	case r.eventCh <- ev:
	case <-r.stopCh:
	}
}
