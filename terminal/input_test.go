package terminal

import (
	"testing"
)

func drainEvents(ch chan Event) []Event {
	var evs []Event
	for {
		select {
		case ev := <-ch:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func TestParseInput_Keys(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		consumed int
		want     []Event
	}{
		{"ctrl c byte", []byte{0x03}, 1, []Event{{Type: EventKey, Key: KeyCtrlC}}},
		{"printable", []byte("ab"), 2, []Event{
			{Type: EventKey, Key: KeyRune, Rune: 'a'},
			{Type: EventKey, Key: KeyRune, Rune: 'b'},
		}},
		{"enter", []byte{'\r'}, 1, []Event{{Type: EventKey, Key: KeyEnter}}},
		{"utf8", []byte("λ"), 2, []Event{{Type: EventKey, Key: KeyRune, Rune: 'λ'}}},
		{"incomplete utf8", []byte{0xce}, 0, nil},
		{"arrow up", []byte("\x1b[A"), 3, []Event{{Type: EventKey, Key: KeyUp}}},
		{"ctrl arrow", []byte("\x1b[1;5C"), 6, []Event{{Type: EventKey, Key: KeyRight, Modifiers: ModCtrl}}},
		{"page down", []byte("\x1b[6~"), 4, []Event{{Type: EventKey, Key: KeyPageDown}}},
		{"ss3 f1", []byte("\x1bOP"), 3, []Event{{Type: EventKey, Key: KeyF1}}},
		{"csi-u ctrl c", []byte("\x1b[99;5u"), 7, []Event{{Type: EventKey, Key: KeyCtrlC}}},
		{"modifyOtherKeys ctrl c", []byte("\x1b[27;5;99~"), 10, []Event{{Type: EventKey, Key: KeyCtrlC}}},
		{"alt letter", []byte("\x1bx"), 2, []Event{{Type: EventKey, Key: KeyRune, Rune: 'x', Modifiers: ModAlt}}},
		{"lone escape waits", []byte{0x1b}, 0, nil},
		{"incomplete csi waits", []byte("\x1b[1;5"), 0, nil},
		{"unknown csi swallowed", []byte("\x1b[200~x"), 7, []Event{{Type: EventKey, Key: KeyRune, Rune: 'x'}}},
		{"sgr mouse swallowed", []byte("\x1b[<0;10;5M"), 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := make(chan Event, 16)
			r := newInputReader(nil, ch)

			consumed := r.parseInput(tt.input)
			if consumed != tt.consumed {
				t.Errorf("consumed = %d, want %d", consumed, tt.consumed)
			}

			got := drainEvents(ch)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events %+v, want %d %+v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEventIsInterrupt(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"ctrl c key", Event{Type: EventKey, Key: KeyCtrlC}, true},
		{"ctrl modifier rune", Event{Type: EventKey, Key: KeyRune, Rune: 'c', Modifiers: ModCtrl}, true},
		{"plain c", Event{Type: EventKey, Key: KeyRune, Rune: 'c'}, false},
		{"ctrl d", Event{Type: EventKey, Key: KeyCtrlD}, false},
		{"escape", Event{Type: EventKey, Key: KeyEscape}, false},
		{"resize", Event{Type: EventResize, Width: 80, Height: 24}, false},
		{"closed", Event{Type: EventClosed}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsInterrupt(); got != tt.want {
				t.Errorf("IsInterrupt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModifierParam(t *testing.T) {
	if got := modifierParam(5); got != ModCtrl {
		t.Errorf("modifierParam(5) = %v, want ModCtrl", got)
	}
	if got := modifierParam(4); got != ModShift|ModAlt {
		t.Errorf("modifierParam(4) = %v, want Shift|Alt", got)
	}
	if got := modifierParam(0); got != ModNone {
		t.Errorf("modifierParam(0) = %v, want none", got)
	}
}
