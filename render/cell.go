package render

// Cell is one grid position: a glyph and an optional foreground color
// HasFg false means the cell paints with the screen background
type Cell struct {
	Rune  rune
	Fg    RGB
	HasFg bool
}

// blankCell is the cleared state of every cell
var blankCell = Cell{Rune: ' '}
