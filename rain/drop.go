package rain

import (
	"math"
	"math/rand/v2"

	"github.com/lixenwraith/matrix-rain/render"
)

const (
	// MinLength and MaxLength bound trail length, [MinLength, MaxLength)
	MinLength = 8
	MaxLength = 20

	// activationRate is the per-tick respawn chance of a paused drop, scaled by density
	activationRate = 0.005

	basePauseChance    = 0.15
	pauseDensityFactor = 0.05
	minPauseChance     = 0.01

	// blankFade is the trail position past which glyphs are drawn blank
	blankFade = 0.95
)

// Drop is one falling character stream
type Drop struct {
	Pos    float64 // head row, negative while above the screen
	Length int
	Char   rune
	Active bool
}

// NewDrop returns an active drop with a random start row, length and glyph
// The start row lies in (-height/2, height) so streams enter staggered
// chars must not be empty
func NewDrop(rng *rand.Rand, screenHeight int, chars []rune) Drop {
	h := float64(screenHeight)
	pos := rng.Float64() * h
	pos -= rng.Float64() * h / 2
	return Drop{
		Pos:    pos,
		Length: MinLength + rng.IntN(MaxLength-MinLength),
		Char:   chars[rng.IntN(len(chars))],
		Active: true,
	}
}

// pauseChance is the probability a finished drop pauses instead of respawning
func pauseChance(density float64) float64 {
	return math.Max(basePauseChance-density*pauseDensityFactor, minPauseChance)
}

// Update advances the drop by fallDistance rows
// A paused drop does not move; it respawns with probability activationRate×density
// An active drop whose trail has passed the bottom either pauses or respawns
func (d *Drop) Update(rng *rand.Rand, screenHeight int, density float64, chars []rune, fallDistance float64) {
	if !d.Active {
		if rng.Float64() < activationRate*density {
			*d = NewDrop(rng, screenHeight, chars)
		}
		return
	}

	d.Pos += fallDistance

	if d.Pos-float64(d.Length) > float64(screenHeight) {
		if rng.Float64() < pauseChance(density) {
			d.Active = false
		} else {
			*d = NewDrop(rng, screenHeight, chars)
		}
	}
}

// Draw paints the trail into column col, head at palette[0] fading toward the last entry
// The tip of the trail is drawn blank but still takes its palette color
func (d *Drop) Draw(s *render.Screen, col int, palette []render.RGB) {
	if !d.Active {
		return
	}

	tail := int(math.Round(d.Pos - float64(d.Length)))
	head := int(math.Round(d.Pos))
	n := len(palette)

	first := max(tail, 0)
	last := min(head, s.Height()-1)

	for row := first; row <= last; row++ {
		dist := head - row
		fade := float64(dist) / float64(d.Length)
		idx := min(int(math.Floor(fade*float64(n))), n-1)

		glyph := d.Char
		if fade > blankFade {
			glyph = ' '
		}
		s.Set(row, col, glyph, palette[idx])
	}
}
