package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrUnderline Attr = 1 << 2
	AttrReverse   Attr = 1 << 3
)

// Color is an xterm-256 palette index, or ColorDefault for the terminal's own foreground
type Color int16

const ColorDefault Color = -1

// Palette entries used by the console
const (
	ColorCyan   Color = 6
	ColorYellow Color = 11
	ColorGray   Color = 245
)

// Cell represents a single terminal cell
type Cell struct {
	Rune  rune
	Fg    Color
	Attrs Attr
}

// BlankCell is an empty cell in the default style
var BlankCell = Cell{Rune: ' ', Fg: ColorDefault}

// Terminal is the hosting terminal abstraction: screen output plus key input
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions, (0, 0) when unknown
	Size() (width, height int)

	// Flush writes a row-major cell buffer to the terminal: cells[y*width + x]
	Flush(cells []Cell, width, height int)

	// Clear blanks the physical screen
	Clear()

	// SetCursorVisible shows/hides cursor
	SetCursorVisible(visible bool)

	// MoveCursor positions the hardware cursor (0-indexed)
	MoveCursor(x, y int)

	// Events delivers key events; a receive that would block means no key is available
	Events() <-chan Event

	// PostEvent injects a synthetic event
	PostEvent(Event)
}

// termImpl implements Terminal on top of a raw Backend
type termImpl struct {
	backend Backend
	output  *outputBuffer
	input   *inputReader

	cursorVisible atomic.Bool

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a raw ANSI terminal on stdin/stdout
func New() Terminal {
	return newWithBackend(newBackend())
}

func newWithBackend(b Backend) *termImpl {
	return &termImpl{
		backend: b,
		output:  newOutputBuffer(b),
		input:   newInputReader(b),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	w, h := t.backend.Size()
	t.output.resize(w, h)

	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)
	t.writeRaw(csiAutoWrapOff)
	t.cursorVisible.Store(false)

	t.output.clear()
	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	// Stop the reader before taking the lock; it never needs t.mu
	t.input.stop()

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.writeRaw(csiCursorShow)
	t.writeRaw(csiAltScreenExit)
	// Re-enable auto-wrap after leaving the alt screen so the main buffer keeps wrapping
	t.writeRaw(csiAutoWrapOn)
	t.writeRaw(csiSGR0)

	t.backend.Fini()
	t.finalized = true
}

func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// Flush holds the lock for the whole write so it cannot interleave with Clear/MoveCursor
func (t *termImpl) Flush(cells []Cell, width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.flush(cells, width, height)
}

func (t *termImpl) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.clear()
}

func (t *termImpl) SetCursorVisible(visible bool) {
	if t.cursorVisible.Swap(visible) == visible {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	w := t.output.writer
	if visible {
		w.Write(csiCursorShow)
	} else {
		w.Write(csiCursorHide)
	}
	w.Flush()
}

func (t *termImpl) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.invalidateCursor()

	if w, h := t.output.width, t.output.height; w > 0 && h > 0 {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
	}

	wBuf := t.output.writer
	writeCursorPos(wBuf, x, y)
	wBuf.Flush()
}

func (t *termImpl) Events() <-chan Event {
	return t.input.events()
}

func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.input.eventCh <- ev:
	default:
		// Channel full, drop
	}
}

func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}

// crash handles a panic inside a terminal goroutine
func crash(r any, label string) {
	EmergencyReset(os.Stdout)
	// \r\n for raw mode compatibility
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s: %v\x1b[0m\r\n", label, r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}
