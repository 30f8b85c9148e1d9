// @lixen: #focus{sys[term,io,output]}
package render

import (
	"bufio"

	"github.com/lixenwraith/matrix-rain/terminal"
)

// RenderChanges writes the cells of current that differ from previous and flushes once
// A cell differs when it lies outside previous, or its glyph or resolved color changed
// A nil previous treats every cell as changed
// The foreground sequence is emitted only when the color differs from the last one written in this pass
func RenderChanges(w *bufio.Writer, current, previous *Screen, mode terminal.ColorMode) error {
	var lastFg RGB
	lastValid := false

	for row := 0; row < current.height; row++ {
		rowStart := row * current.width
		for col := 0; col < current.width; col++ {
			cell := current.cells[rowStart+col]
			fg := current.resolve(cell)

			if previous != nil && previous.inBounds(row, col) {
				old := previous.cells[row*previous.width+col]
				if old.Rune == cell.Rune && previous.resolve(old) == fg {
					continue
				}
			}

			terminal.WriteCursorPos(w, col, row)
			if !lastValid || fg != lastFg {
				terminal.WriteFg(w, fg, mode)
				lastFg = fg
				lastValid = true
			}
			terminal.WriteRune(w, cell.Rune)
		}
	}

	return w.Flush()
}
