package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/matrix-rain/terminal"
)

// themes in listing order
var themes = []struct {
	name string
	rgb  terminal.RGB
}{
	{"green", terminal.RGB{R: 0, G: 255, B: 0}},
	{"amber", terminal.RGB{R: 255, G: 191, B: 0}},
	{"red", terminal.RGB{R: 255, G: 0, B: 0}},
	{"orange", terminal.RGB{R: 255, G: 165, B: 0}},
	{"blue", terminal.RGB{R: 0, G: 150, B: 255}},
	{"purple", terminal.RGB{R: 128, G: 0, B: 255}},
	{"cyan", terminal.RGB{R: 0, G: 255, B: 255}},
	{"pink", terminal.RGB{R: 255, G: 20, B: 147}},
	{"white", terminal.RGB{R: 255, G: 255, B: 255}},
}

// Themes returns theme names in listing order
func Themes() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.name
	}
	return names
}

// Theme returns the color of a named theme
func Theme(name string) (terminal.RGB, bool) {
	name = strings.ToLower(name)
	for _, t := range themes {
		if t.name == name {
			return t.rgb, true
		}
	}
	return terminal.RGB{}, false
}

// ResolveColor accepts a theme name or anything ParseColor accepts; themes win on name clashes
func ResolveColor(s string) (terminal.RGB, error) {
	if s == "" {
		s = DefaultTheme
	}
	if c, ok := Theme(s); ok {
		return c, nil
	}
	return ParseColor(s)
}

// ParseColor parses "R,G,B", "#rrggbb", "#rgb" or a W3C/X11 color name
func ParseColor(s string) (terminal.RGB, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.Contains(s, ","):
		return parseTriplet(s)

	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return terminal.RGB{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
		}
		r, g, b := c.RGB255()
		return terminal.RGB{R: r, G: g, B: b}, nil
	}

	if tc, ok := tcell.ColorNames[strings.ToLower(s)]; ok {
		r, g, b := tc.RGB()
		if r >= 0 && g >= 0 && b >= 0 {
			return terminal.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
		}
	}
	return terminal.RGB{}, fmt.Errorf("%w: %q: want R,G,B, #hex or a color name", ErrInvalidColor, s)
}

func parseTriplet(s string) (terminal.RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return terminal.RGB{}, fmt.Errorf("%w: %q: RGB color must be in format R,G,B (e.g., 255,255,255)", ErrInvalidColor, s)
	}

	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return terminal.RGB{}, fmt.Errorf("%w: %q: invalid %c component", ErrInvalidColor, s, "RGB"[i])
		}
		ch[i] = uint8(v)
	}
	return terminal.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}
