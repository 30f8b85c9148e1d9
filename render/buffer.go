package render

// Screen is a row-major character grid with per-cell optional color
type Screen struct {
	cells      []Cell
	width      int
	height     int
	background RGB
}

// NewScreen creates a cleared screen with the specified dimensions
func NewScreen(height, width int, background RGB) *Screen {
	s := &Screen{background: background}
	s.Resize(height, width)
	return s
}

// Width returns the column count
func (s *Screen) Width() int { return s.width }

// Height returns the row count
func (s *Screen) Height() int { return s.height }

// Background returns the color uncolored cells resolve to
func (s *Screen) Background() RGB { return s.background }

// Resize adjusts dimensions and clears every cell, reallocates only if capacity insufficient
func (s *Screen) Resize(height, width int) {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	size := width * height
	if cap(s.cells) < size {
		s.cells = make([]Cell, size)
	} else {
		s.cells = s.cells[:size]
	}
	s.width = width
	s.height = height
	s.Clear()
}

// Clear resets all cells to blank with no color using exponential copy
func (s *Screen) Clear() {
	if len(s.cells) == 0 {
		return
	}
	s.cells[0] = blankCell
	for filled := 1; filled < len(s.cells); filled *= 2 {
		copy(s.cells[filled:], s.cells[:filled])
	}
}

// inBounds returns true if in screen bounds
func (s *Screen) inBounds(row, col int) bool {
	return col >= 0 && col < s.width && row >= 0 && row < s.height
}

// Set writes a glyph and color, ignoring out of bounds coordinates
func (s *Screen) Set(row, col int, r rune, fg RGB) {
	if !s.inBounds(row, col) {
		return
	}
	s.cells[row*s.width+col] = Cell{Rune: r, Fg: fg, HasFg: true}
}

// At returns the cell at the coordinates, blank when out of bounds
func (s *Screen) At(row, col int) Cell {
	if !s.inBounds(row, col) {
		return blankCell
	}
	return s.cells[row*s.width+col]
}

// resolve returns the color a cell is painted with
func (s *Screen) resolve(c Cell) RGB {
	if c.HasFg {
		return c.Fg
	}
	return s.background
}
