package terminal

import (
	"bufio"
	"io"
)

// outputBuffer manages double-buffered terminal output with diffing
type outputBuffer struct {
	front  []Cell
	width  int
	height int
	writer *bufio.Writer

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	lastFg    Color
	lastAttr  Attr
	lastValid bool
}

func newOutputBuffer(w io.Writer) *outputBuffer {
	return &outputBuffer{
		writer: bufio.NewWriterSize(w, 32768),
	}
}

// resize updates buffer dimensions and invalidates everything on screen
func (o *outputBuffer) resize(width, height int) {
	size := width * height
	if cap(o.front) < size {
		o.front = make([]Cell, size)
	} else {
		o.front = o.front[:size]
	}
	o.width = width
	o.height = height

	for i := range o.front {
		o.front[i] = Cell{Rune: 0, Fg: ColorDefault}
	}
	o.lastValid = false
	o.cursorValid = false
}

// cellEqual treats a zero rune and a space as the same visible cell
func cellEqual(a, b Cell) bool {
	ar, br := a.Rune, b.Rune
	if ar == 0 {
		ar = ' '
	}
	if br == 0 {
		br = ' '
	}
	if ar != br || a.Attrs != b.Attrs {
		return false
	}
	if ar == ' ' && a.Attrs&AttrReverse == 0 && a.Attrs&AttrUnderline == 0 {
		return true
	}
	return a.Fg == b.Fg
}

// flush writes cells to the terminal, emitting only cells that differ from the front buffer
func (o *outputBuffer) flush(cells []Cell, width, height int) {
	if width != o.width || height != o.height {
		o.resize(width, height)
	}

	if len(cells) < width*height {
		return
	}

	w := o.writer

	for y := 0; y < height; y++ {
		rowStart := y * width
		x := 0

		for x < width {
			idx := rowStart + x
			if cellEqual(cells[idx], o.front[idx]) {
				x++
				continue
			}

			// Position cursor once for this dirty region
			if !o.cursorValid || x != o.cursorX || y != o.cursorY {
				if o.cursorValid && y == o.cursorY && x > o.cursorX {
					writeCursorForward(w, x-o.cursorX)
				} else {
					writeCursorPos(w, x, y)
				}
				o.cursorX = x
				o.cursorY = y
				o.cursorValid = true
			}

			// Write all contiguous dirty cells, emitting style only when changed
			for x < width {
				cidx := rowStart + x
				c := cells[cidx]
				if cellEqual(c, o.front[cidx]) {
					break
				}

				o.writeStyle(w, c.Fg, c.Attrs)

				r := c.Rune
				if r == 0 {
					r = ' '
				}
				if r < 0x80 {
					w.WriteByte(byte(r))
				} else {
					w.WriteRune(r)
				}

				o.front[cidx] = c
				o.cursorX++
				x++
			}
		}
	}

	w.Write(csiSGR0)
	o.lastValid = false

	w.Flush()
}

// writeStyle emits a single combined SGR sequence when style changes
func (o *outputBuffer) writeStyle(w *bufio.Writer, fg Color, attr Attr) {
	if o.lastValid && fg == o.lastFg && attr == o.lastAttr {
		return
	}

	if !o.lastValid || attr != o.lastAttr {
		w.Write(csi)
		w.WriteByte('0')
		if attr&AttrBold != 0 {
			w.Write([]byte(";1"))
		}
		if attr&AttrDim != 0 {
			w.Write([]byte(";2"))
		}
		if attr&AttrUnderline != 0 {
			w.Write([]byte(";4"))
		}
		if attr&AttrReverse != 0 {
			w.Write([]byte(";7"))
		}
		if fg != ColorDefault {
			w.Write([]byte(";38;5;"))
			writeInt(w, int(fg))
		}
		w.WriteByte('m')
	} else if fg == ColorDefault {
		w.Write(csiDefaultFg)
	} else {
		w.Write(csiFg256)
		writeInt(w, int(fg))
		w.WriteByte('m')
	}

	o.lastFg = fg
	o.lastAttr = attr
	o.lastValid = true
}

// clear wipes the physical screen and resets the front buffer to blanks
func (o *outputBuffer) clear() {
	w := o.writer
	w.Write(csiSGR0)
	w.Write(csiClear)

	o.lastValid = false
	o.cursorValid = false
	w.Flush()

	for i := range o.front {
		o.front[i] = Cell{Rune: ' ', Fg: ColorDefault}
	}
}

// invalidateCursor marks cursor position as unknown
func (o *outputBuffer) invalidateCursor() {
	o.cursorValid = false
}
