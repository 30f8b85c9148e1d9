package terminal

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("ALACRITTY_LOG") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ColorModeTrueColor
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}

// ErrNoColorReply is returned when the terminal answers an OSC color query with something unparsable
var ErrNoColorReply = errors.New("no color in terminal reply")

var oscColorPattern = regexp.MustCompile(`\x1b\]1[01];rgba?:([0-9A-Fa-f]{1,4})/([0-9A-Fa-f]{1,4})/([0-9A-Fa-f]{1,4})`)

// ParseOSCColor extracts the color from an OSC 10/11 reply such as ESC]11;rgb:ffff/0000/8080 BEL
// Channels are hex of 1-4 digits; values above 255 are scaled down from the 16-bit range
func ParseOSCColor(reply []byte) (RGB, error) {
	m := oscColorPattern.FindSubmatch(reply)
	if m == nil {
		return RGBBlack, fmt.Errorf("%w: %q", ErrNoColorReply, reply)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(string(m[i+1]), 16, 16)
		if err != nil {
			return RGBBlack, fmt.Errorf("%w: %q", ErrNoColorReply, reply)
		}
		ch[i] = normalizeChannel(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// normalizeChannel keeps 8-bit values as-is and scales 16-bit ones
func normalizeChannel(v uint64) uint8 {
	if v <= 255 {
		return uint8(v)
	}
	return uint8(math.Round(float64(v) / 65535.0 * 255.0))
}
