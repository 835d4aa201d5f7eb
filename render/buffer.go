package render

import (
	"github.com/lixenwraith/marquee/terminal"
)

// RenderBuffer is the back buffer a frame is composed into before it is presented
// It exposes the clear / move-cursor / print primitives the frame is painted with
// Uses []terminal.Cell directly to allow zero-copy export
type RenderBuffer struct {
	cells  []terminal.Cell
	width  int
	height int

	// Print position, may sit outside the buffer; writes there are clipped
	cursorX int
	cursorY int
}

// NewRenderBuffer creates a buffer with the specified dimensions
func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]terminal.Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Size returns buffer dimensions
func (b *RenderBuffer) Size() (int, int) {
	return b.width, b.height
}

// Clear resets all cells to blank using exponential copy and homes the print position
func (b *RenderBuffer) Clear() {
	b.cursorX, b.cursorY = 0, 0
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = terminal.BlankCell
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// inBounds returns true if in buffer bounds
func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes a single cell, out-of-bounds writes are dropped
func (b *RenderBuffer) Set(x, y int, r rune, fg terminal.Color, attrs terminal.Attr) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = terminal.Cell{Rune: r, Fg: fg, Attrs: attrs}
}

// Get returns the cell at x, y or a blank cell when out of bounds
func (b *RenderBuffer) Get(x, y int) terminal.Cell {
	if !b.inBounds(x, y) {
		return terminal.BlankCell
	}
	return b.cells[y*b.width+x]
}

// MoveCursor sets the print position (0-indexed)
func (b *RenderBuffer) MoveCursor(x, y int) {
	b.cursorX, b.cursorY = x, y
}

// Cursor returns the print position
func (b *RenderBuffer) Cursor() (int, int) {
	return b.cursorX, b.cursorY
}

// Print writes s at the print position and advances it, text past the right edge is clipped
// Control characters are written as '?' so a frame can never move the hardware cursor
func (b *RenderBuffer) Print(s string, fg terminal.Color, attrs terminal.Attr) {
	for _, r := range s {
		b.Set(b.cursorX, b.cursorY, printable(r), fg, attrs)
		b.cursorX++
	}
}

// PrintWrap writes s like a console line: a rune that would fall past the right edge starts the next row
// The print position may rest one past the last column until the next rune or SettleWrap
func (b *RenderBuffer) PrintWrap(s string, fg terminal.Color, attrs terminal.Attr) {
	for _, r := range s {
		if b.cursorX >= b.width {
			b.Newline()
		}
		b.Set(b.cursorX, b.cursorY, printable(r), fg, attrs)
		b.cursorX++
	}
}

// SettleWrap moves a print position resting past the right edge to the start of the next row
func (b *RenderBuffer) SettleWrap() {
	if b.cursorX >= b.width {
		b.Newline()
	}
}

func printable(r rune) rune {
	if r < 0x20 || r == 0x7f {
		return '?'
	}
	return r
}

// Newline moves the print position to the start of the next row
func (b *RenderBuffer) Newline() {
	b.cursorX = 0
	b.cursorY++
}

// Row returns the text of row y with trailing blanks trimmed
func (b *RenderBuffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	row := b.cells[y*b.width : (y+1)*b.width]
	end := len(row)
	for end > 0 && (row[end-1].Rune == ' ' || row[end-1].Rune == 0) {
		end--
	}
	out := make([]rune, end)
	for i := range end {
		out[i] = row[i].Rune
		if out[i] == 0 {
			out[i] = ' '
		}
	}
	return string(out)
}

// FlushWindow presents rows [top, top+rows) of the buffer as the whole terminal screen
func (b *RenderBuffer) FlushWindow(term terminal.Terminal, top, rows int) {
	top = min(max(top, 0), b.height)
	end := min(top+max(rows, 0), b.height)
	term.Flush(b.cells[top*b.width:end*b.width], b.width, end-top)
}
