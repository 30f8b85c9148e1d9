package render

import (
	"math"

	"github.com/lixenwraith/matrix-rain/terminal"
)

// RGB is an alias to terminal.RGB for colors, allowing render package to extend functionality
type RGB = terminal.RGB

// Predefined default color
var (
	RGBBlack = RGB{0, 0, 0}
)

const (
	// FadeSteps is the number of entries in a fade palette
	FadeSteps = 8

	// HeadBrightness lifts the leading glyph of every stream above the base color
	HeadBrightness = 1.4
)

// clamp converts float to uint8, truncating the fraction
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 || math.IsNaN(v) {
		return 0
	}
	return uint8(v)
}

// Blend linearly interpolates from start to target, rounding each channel
// factor is clamped to [0,1]; 0 returns start and 1 returns target exactly
func Blend(start, target RGB, factor float64) RGB {
	if factor >= 1.0 {
		return target
	}
	if !(factor > 0.0) {
		return start
	}

	inv := 1.0 - factor

	return RGB{
		R: uint8(math.Round(float64(start.R)*inv + float64(target.R)*factor)),
		G: uint8(math.Round(float64(start.G)*inv + float64(target.G)*factor)),
		B: uint8(math.Round(float64(start.B)*inv + float64(target.B)*factor)),
	}
}

// Brighten multiplies all channels by factor, truncating and saturating at 255
// Unlike Blend this does not round
func Brighten(c RGB, factor float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
	}
}

// FadePalette builds the trail colors from a stream head to the background
// Entry i blends toward background by (i/7)², so the trail stays close to base
// and accelerates into the background; entry 0 is the brightened head color
func FadePalette(base, background RGB) []RGB {
	palette := make([]RGB, FadeSteps)
	for i := range palette {
		t := float64(i) / float64(FadeSteps-1)
		palette[i] = Blend(base, background, t*t)
	}
	palette[0] = Brighten(base, HeadBrightness)
	return palette
}
