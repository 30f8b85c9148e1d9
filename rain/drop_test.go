package rain

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/lixenwraith/matrix-rain/render"
)

var testChars = []rune("ab01")

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// testPalette has distinct entries so tests can read back which index was used
func testPalette() []render.RGB {
	p := make([]render.RGB, render.FadeSteps)
	for i := range p {
		p[i] = render.RGB{R: uint8(i * 10), G: 100, B: 200}
	}
	return p
}

func TestNewDrop_Ranges(t *testing.T) {
	rng := newTestRand()
	const height = 40

	for i := 0; i < 2000; i++ {
		d := NewDrop(rng, height, testChars)
		if !d.Active {
			t.Fatal("new drop must be active")
		}
		if d.Pos < -height/2 || d.Pos >= height {
			t.Fatalf("pos %v outside (-%d, %d)", d.Pos, height/2, height)
		}
		if d.Length < MinLength || d.Length >= MaxLength {
			t.Fatalf("length %d outside [%d,%d)", d.Length, MinLength, MaxLength)
		}
		if !slices.Contains(testChars, d.Char) {
			t.Fatalf("char %q not in set", d.Char)
		}
	}
}

func TestNewDrop_ZeroHeight(t *testing.T) {
	d := NewDrop(newTestRand(), 0, testChars)
	if d.Pos != 0 {
		t.Errorf("pos = %v, want 0 on zero-height screen", d.Pos)
	}
}

func TestDropUpdate_ZeroFallKeepsPosition(t *testing.T) {
	rng := newTestRand()
	d := Drop{Pos: 3.25, Length: 10, Char: 'a', Active: true}
	for i := 0; i < 100; i++ {
		d.Update(rng, 30, 1.0, testChars, 0)
	}
	if d.Pos != 3.25 || !d.Active {
		t.Errorf("drop moved with zero fall distance: %+v", d)
	}
}

func TestDropUpdate_Advances(t *testing.T) {
	d := Drop{Pos: 1, Length: 10, Char: 'a', Active: true}
	d.Update(newTestRand(), 30, 1.0, testChars, 0.75)
	if d.Pos != 1.75 {
		t.Errorf("pos = %v, want 1.75", d.Pos)
	}
}

func TestDropUpdate_EligibilityBoundary(t *testing.T) {
	const height = 30
	rng := newTestRand()

	// pos - length == height exactly: still on the trail's last row, not eligible
	d := Drop{Pos: height + 12, Length: 12, Char: 'a', Active: true}
	for i := 0; i < 100; i++ {
		d.Update(rng, height, 1.0, testChars, 0)
	}
	if !d.Active || d.Pos != height+12 {
		t.Fatalf("drop at boundary changed: %+v", d)
	}

	// Just past the boundary: every update must pause or respawn it
	for i := 0; i < 200; i++ {
		d := Drop{Pos: height + 12.001, Length: 12, Char: 'a', Active: true}
		d.Update(rng, height, 1.0, testChars, 0)
		paused := !d.Active && d.Pos == height+12.001
		respawned := d.Active && d.Pos < height
		if !paused && !respawned {
			t.Fatalf("eligible drop neither paused nor respawned: %+v", d)
		}
	}
}

func TestDropUpdate_InactiveStaysFrozen(t *testing.T) {
	rng := newTestRand()
	d := Drop{Pos: 99, Length: 9, Char: 'b', Active: false}

	// Density zero gives zero activation chance
	for i := 0; i < 1000; i++ {
		d.Update(rng, 30, 0, testChars, 5)
	}
	if d.Active || d.Pos != 99 {
		t.Errorf("inactive drop changed: %+v", d)
	}

	// Activation chance above one always respawns
	d.Update(rng, 30, 1000, testChars, 5)
	if !d.Active || d.Pos >= 30 {
		t.Errorf("drop did not respawn: %+v", d)
	}
}

func TestPauseChance(t *testing.T) {
	tests := []struct {
		density float64
		want    float64
	}{
		{0, 0.15},
		{1, 0.10},
		{2, 0.05},
		{3, 0.01},
		{10, 0.01},
	}
	for _, tt := range tests {
		if got := pauseChance(tt.density); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("pauseChance(%v) = %v, want %v", tt.density, got, tt.want)
		}
	}
}

func TestDropDraw_Trail(t *testing.T) {
	s := render.NewScreen(12, 3, render.RGBBlack)
	p := testPalette()
	d := Drop{Pos: 5, Length: 10, Char: 'x', Active: true}
	d.Draw(s, 1, p)

	// head=5, tail=-5: rows 0..5 drawn; fade = (5-row)/10
	wantIdx := map[int]int{5: 0, 4: 0, 3: 1, 2: 2, 1: 3, 0: 4}
	for row, idx := range wantIdx {
		c := s.At(row, 1)
		if c.Rune != 'x' || !c.HasFg || c.Fg != p[idx] {
			t.Errorf("row %d = %+v, want 'x' with palette[%d]", row, c, idx)
		}
	}
	for row := 6; row < 12; row++ {
		if c := s.At(row, 1); c.HasFg || c.Rune != ' ' {
			t.Errorf("row %d below head painted: %+v", row, c)
		}
	}
	for row := 0; row < 12; row++ {
		if c := s.At(row, 0); c.HasFg {
			t.Errorf("neighbor column painted at row %d", row)
		}
	}
}

func TestDropDraw_BlankTip(t *testing.T) {
	s := render.NewScreen(30, 1, render.RGBBlack)
	p := testPalette()
	d := Drop{Pos: 20, Length: 10, Char: 'x', Active: true}
	d.Draw(s, 0, p)

	// Tail row: fade 1.0 > 0.95 draws blank, colored with the last palette entry
	tip := s.At(10, 0)
	if tip.Rune != ' ' || !tip.HasFg || tip.Fg != p[7] {
		t.Errorf("tip = %+v, want blank with palette[7]", tip)
	}
	// fade 0.9 keeps the glyph at index floor(7.2)=7
	if c := s.At(11, 0); c.Rune != 'x' || c.Fg != p[7] {
		t.Errorf("row 11 = %+v, want 'x' with palette[7]", c)
	}
	if c := s.At(20, 0); c.Rune != 'x' || c.Fg != p[0] {
		t.Errorf("head = %+v, want 'x' with palette[0]", c)
	}
	if c := s.At(9, 0); c.HasFg {
		t.Errorf("row above tail painted: %+v", c)
	}
}

func TestDropDraw_RoundsHalfAwayFromZero(t *testing.T) {
	s := render.NewScreen(10, 1, render.RGBBlack)
	d := Drop{Pos: 4.5, Length: 8, Char: 'x', Active: true}
	d.Draw(s, 0, testPalette())
	if c := s.At(5, 0); c.Rune != 'x' {
		t.Errorf("head should round 4.5 up to row 5, got %+v", c)
	}
	if c := s.At(6, 0); c.HasFg {
		t.Errorf("row 6 painted: %+v", c)
	}
}

func TestDropDraw_InactiveOrOffscreen(t *testing.T) {
	s := render.NewScreen(10, 1, render.RGBBlack)
	p := testPalette()

	inactive := Drop{Pos: 5, Length: 8, Char: 'x', Active: false}
	inactive.Draw(s, 0, p)

	above := Drop{Pos: -3, Length: 8, Char: 'x', Active: true}
	above.Draw(s, 0, p)

	below := Drop{Pos: 40, Length: 8, Char: 'x', Active: true}
	below.Draw(s, 0, p)

	for row := 0; row < 10; row++ {
		if c := s.At(row, 0); c.HasFg {
			t.Fatalf("row %d painted: %+v", row, c)
		}
	}
}
