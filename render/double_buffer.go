package render

import (
	"bufio"
	"io"

	"github.com/lixenwraith/matrix-rain/terminal"
)

// outputBufferSize holds a full truecolor redraw of a large terminal without intermediate flushes
const outputBufferSize = 131072

// DoubleBuffer owns the screen being painted and the screen last written to the terminal
// Presenting exchanges their roles by flipping an index; contents are never copied
type DoubleBuffer struct {
	screens [2]*Screen
	front   int // index of the screen currently on the terminal
	writer  *bufio.Writer
	mode    terminal.ColorMode
	full    bool
}

// NewDoubleBuffer creates both screens; the first Present redraws every cell
func NewDoubleBuffer(out io.Writer, height, width int, background RGB, mode terminal.ColorMode) *DoubleBuffer {
	return &DoubleBuffer{
		screens: [2]*Screen{
			NewScreen(height, width, background),
			NewScreen(height, width, background),
		},
		writer: bufio.NewWriterSize(out, outputBufferSize),
		mode:   mode,
		full:   true,
	}
}

// Current returns the screen to paint this frame
func (d *DoubleBuffer) Current() *Screen {
	return d.screens[1-d.front]
}

// Previous returns the screen last written to the terminal
func (d *DoubleBuffer) Previous() *Screen {
	return d.screens[d.front]
}

// Resize reallocates both screens and forces the next Present to redraw everything
func (d *DoubleBuffer) Resize(height, width int) {
	d.screens[0].Resize(height, width)
	d.screens[1].Resize(height, width)
	d.full = true
}

// Invalidate forces the next Present to redraw every cell
func (d *DoubleBuffer) Invalidate() {
	d.full = true
}

// Swap exchanges the current and previous roles in constant time
func (d *DoubleBuffer) Swap() {
	d.front = 1 - d.front
}

// Present writes the changes of the current screen against the previous one, then swaps
func (d *DoubleBuffer) Present() error {
	previous := d.Previous()
	if d.full {
		previous = nil
	}
	if err := RenderChanges(d.writer, d.Current(), previous, d.mode); err != nil {
		return err
	}
	d.full = false
	d.Swap()
	return nil
}
