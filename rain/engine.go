package rain

import (
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/lixenwraith/matrix-rain/render"
)

// Config holds the resolved inputs of an Engine
type Config struct {
	Base       render.RGB
	Background render.RGB
	Density    float64
	Chars      []rune // must not be empty
}

// Engine owns every drop and the fade palette they are drawn with
type Engine struct {
	drops   []Drop
	palette []render.RGB
	chars   []rune
	density float64
	rng     *rand.Rand
}

// DropCount returns round(width×density), never fewer than width
func DropCount(width int, density float64) int {
	w := float64(width)
	return int(math.Round(math.Max(w*density, w)))
}

// NewEngine creates DropCount(width, density) random drops
// A nil rng is replaced by a time-seeded PCG source
func NewEngine(cfg Config, width, height int, rng *rand.Rand) *Engine {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	e := &Engine{
		palette: render.FadePalette(cfg.Base, cfg.Background),
		chars:   cfg.Chars,
		density: cfg.Density,
		rng:     rng,
	}

	count := DropCount(width, cfg.Density)
	e.drops = make([]Drop, count)
	for i := range e.drops {
		e.drops[i] = NewDrop(rng, height, e.chars)
	}
	return e
}

// Update advances every drop by the same fall distance
func (e *Engine) Update(screenHeight int, fallDistance float64) {
	for i := range e.drops {
		e.drops[i].Update(e.rng, screenHeight, e.density, e.chars, fallDistance)
	}
}

// Render clears the screen and draws drop i into column i mod width
// Later drops overwrite earlier ones sharing a column
func (e *Engine) Render(s *render.Screen) {
	s.Clear()
	width := s.Width()
	if width == 0 {
		return
	}
	for i := range e.drops {
		e.drops[i].Draw(s, i%width, e.palette)
	}
}

// Resize recomputes the drop count for the new width
// Growing appends new random drops; shrinking drops the highest indices
func (e *Engine) Resize(width, height int) {
	target := DropCount(width, e.density)
	if target <= len(e.drops) {
		e.drops = e.drops[:target]
		return
	}

	e.drops = slices.Grow(e.drops, target-len(e.drops))
	for len(e.drops) < target {
		e.drops = append(e.drops, NewDrop(e.rng, height, e.chars))
	}
}

// Drops returns a copy of the current drop states
func (e *Engine) Drops() []Drop {
	return slices.Clone(e.drops)
}

// Palette returns a copy of the fade palette
func (e *Engine) Palette() []render.RGB {
	return slices.Clone(e.palette)
}

// Density returns the configured density
func (e *Engine) Density() float64 {
	return e.density
}
