// Package charset holds the named glyph sets streams draw from
package charset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mattn/go-runewidth"
)

// Default is the set used when none is selected
const Default = "matrix"

// ErrUnknown is returned by Lookup for names not in the table
var ErrUnknown = errors.New("unknown character set")

// definitions in listing order
var definitions = []struct {
	name  string
	glyph string
}{
	{"matrix", "λｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜﾝ"},
	{"binary", "01"},
	{"symbols", "!@#$%^&*()_+-=[]{}|;':\",./<>?"},
	{"emojis", "😂😅😊😂🔥💯✨🤷‍♂️🚀🎉🌟🌈🍕🍔🍟🍦📚💡⚽️🏀🎾🏐🏈🏉🏸🏓🏒🏑🏏🏹🎣🥊🥋🎽🏅🎖🏆🎫🎨🎬🎧🎤"},
	{"kanji", "書道日本漢字文化侍"},
	{"greek", "αβγδεζηθικλμνξοπρστυφχψω"},
	{"cyrillic", "абвгдежзийклмнопрстуфхцчшщъыьэюяАБВГДЕЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ"},
	{"math", "∀∁∂∃∄∅∆∇∈∉∊∋∌∍∎∏∐∑−∓∔∕∖∗∘∙√∛∜∝∞∟∠∡∢∣∤∥∦∧∨∩∪"},
	{"braille", "⠁⠂⠃⠄⠅⠆⠇⠈⠉⠊⠋⠌⠍⠎⠏⠐⠑⠒⠓⠔⠕⠖⠗⠘⠙⠚⠛⠜⠝⠞⠟⠠⠡⠢⠣⠤⠥⠦⠧⠨⠩⠪⠫⠬⠭⠮⠯"},
	{"dna", "ATCG"},
	{"persian", "ابتثجحخدذرزسشصضطظعغفقكلمنهويپچڈگھژکںیےآأؤإئءًٌٍَُِّْ"},
}

// Table maps set names to glyphs; read-only after NewTable
type Table struct {
	sets  map[string][]rune
	names []string
}

// NewTable builds every set once
// Zero-width runes (joiners, variation selectors, combining marks) are dropped
// since a lone one occupies no cell
func NewTable() *Table {
	t := &Table{
		sets:  make(map[string][]rune, len(definitions)),
		names: make([]string, 0, len(definitions)),
	}
	for _, d := range definitions {
		t.sets[d.name] = printable(d.glyph)
		t.names = append(t.names, d.name)
	}
	return t
}

func printable(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if runewidth.RuneWidth(r) == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Lookup returns a copy of the named set
func (t *Table) Lookup(name string) ([]rune, error) {
	set, ok := t.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknown, name, t.names)
	}
	return slices.Clone(set), nil
}

// Names returns set names in listing order
func (t *Table) Names() []string {
	return slices.Clone(t.names)
}
