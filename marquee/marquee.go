// Package marquee holds the banner position and its discrete bounce law.
//
// The horizontal direction is corrected before the step is applied and the
// vertical direction after it, so the banner may sit one column past the right
// edge for a single frame before turning back.
package marquee

import (
	"unicode/utf8"
)

// Bounce reports which direction flipped during a Step
type Bounce struct {
	Horizontal bool
	Vertical   bool
}

// Any reports whether either direction flipped
func (b Bounce) Any() bool {
	return b.Horizontal || b.Vertical
}

// Marquee is the banner state, owned by a single renderer
type Marquee struct {
	text    string
	textLen int

	X, Y   int
	DX, DY int

	Width  int
	Height int
}

// New creates a banner at the origin moving down-right
// Width and Height are fixed for the lifetime of the banner
func New(text string, width, height int) *Marquee {
	return &Marquee{
		text:    text,
		textLen: utf8.RuneCountInString(text),
		DX:      1,
		DY:      1,
		Width:   width,
		Height:  height,
	}
}

// Text returns the banner text
func (m *Marquee) Text() string {
	return m.text
}

// Len returns the banner length in runes
func (m *Marquee) Len() int {
	return m.textLen
}

// Step advances the banner one frame
func (m *Marquee) Step() Bounce {
	var b Bounce
	dx, dy := m.DX, m.DY

	if m.X+m.textLen >= m.Width {
		m.DX = -1
	}
	if m.X <= 0 {
		m.DX = 1
	}

	m.X += m.DX
	m.Y += m.DY

	if m.Y >= m.Height-1 || m.Y <= 0 {
		m.DY = -m.DY
	}

	b.Horizontal = m.DX != dx
	b.Vertical = m.DY != dy
	return b
}
