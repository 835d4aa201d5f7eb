package render

import (
	"strings"
	"unicode/utf8"

	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/marquee"
	"github.com/lixenwraith/marquee/session"
	"github.com/lixenwraith/marquee/terminal"
)

// Frame styles
const (
	headerFg    = terminal.ColorCyan
	bannerFg    = terminal.ColorYellow
	bannerAttrs = terminal.AttrBold
	labelFg     = terminal.ColorGray
	textFg      = terminal.ColorDefault
)

// Layout is the row plan of a frame
type Layout struct {
	// RegionTop is the first row of the bounce region
	RegionTop int
	// Height is the number of rows in the bounce region
	Height int
	// PromptRow holds the input prompt
	PromptRow int
	// HistoryRow is the first history row while the input fits on the prompt row
	HistoryRow int
}

// NewLayout computes the frame rows for a bounce region of the given height
func NewLayout(height int) Layout {
	prompt := constants.PromptRow(height)
	return Layout{
		RegionTop:  len(constants.HeaderLines),
		Height:     height,
		PromptRow:  prompt,
		HistoryRow: prompt + 1,
	}
}

// Rows returns the number of rows a frame needs with a full history of one-row entries
func (l Layout) Rows(historyLimit int) int {
	return l.HistoryRow + historyLimit
}

// paintHeader prints the fixed header lines from the top of the buffer
func paintHeader(buf *RenderBuffer) {
	buf.MoveCursor(0, 0)
	for _, line := range constants.HeaderLines {
		buf.Print(line, headerFg, terminal.AttrNone)
		buf.Newline()
	}
}

// paintMarquee emits one row per region row, only the banner row carries content
func paintMarquee(buf *RenderBuffer, l Layout, m *marquee.Marquee) {
	for i := range l.Height {
		if i == m.Y {
			buf.Print(strings.Repeat(" ", max(m.X, 0)), textFg, terminal.AttrNone)
			buf.Print(m.Text(), bannerFg, bannerAttrs)
		}
		buf.Newline()
	}
}

// paintFooter prints the prompt and input, then history entries on the rows after it
// Long lines wrap onto the next row like console output; returns the print position after the input
// Caller holds the session lock through Session.Read
func paintFooter(buf *RenderBuffer, l Layout, v session.View) (cursorX, cursorY int) {
	buf.MoveCursor(0, l.PromptRow)
	buf.PrintWrap(constants.PromptLabel, labelFg, terminal.AttrNone)
	buf.PrintWrap(v.Input(), textFg, terminal.AttrNone)
	buf.SettleWrap()
	cursorX, cursorY = buf.Cursor()

	v.EachHistory(func(_ int, entry string) {
		buf.Newline()
		buf.PrintWrap(constants.HistoryLabel, labelFg, terminal.AttrNone)
		buf.PrintWrap(entry, textFg, terminal.AttrNone)
	})
	return cursorX, cursorY
}

// wrappedRows is the number of rows n runes take at width, a settled prompt adds the cursor row
func wrappedRows(n, width int, settle bool) int {
	width = max(width, 1)
	if settle {
		return n/width + 1
	}
	return max((n+width-1)/width, 1)
}

// footerEnd returns the row after the last footer row for the given view and width
func footerEnd(l Layout, v session.View, width int) int {
	end := l.PromptRow + wrappedRows(utf8.RuneCountInString(constants.PromptLabel)+v.InputLen(), width, true)
	labelLen := utf8.RuneCountInString(constants.HistoryLabel)
	v.EachHistory(func(_ int, entry string) {
		end += wrappedRows(labelLen+utf8.RuneCountInString(entry), width, false)
	})
	return end
}

// ComposeFrame paints a full frame into buf under the session lock
// buf is resized to width and at least rows, growing when the footer needs more rows
// Returns the print position after the input, where the hardware cursor belongs
func ComposeFrame(buf *RenderBuffer, l Layout, m *marquee.Marquee, sess *session.Session, width, rows int) (cursorX, cursorY int) {
	sess.Read(func(v session.View) {
		buf.Resize(width, max(rows, footerEnd(l, v, width)))
		paintHeader(buf)
		paintMarquee(buf, l, m)
		cursorX, cursorY = paintFooter(buf, l, v)
	})
	return cursorX, cursorY
}

// viewportTop picks the first canvas row shown on a screen of the given rows
// The bottom of the canvas is shown, unless that would hide the cursor row
func viewportTop(canvasRows, screenRows, cursorY int) int {
	return max(min(canvasRows-screenRows, cursorY), 0)
}
