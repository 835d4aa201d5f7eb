package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// tcellTerm implements Terminal on a tcell.Screen
// tcell owns terminfo lookup, raw mode and its own double buffer; Flush maps cells onto it
type tcellTerm struct {
	screen  tcell.Screen
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu            sync.Mutex
	initialized   bool
	finalized     bool
	cursorVisible bool
	cursorX       int
	cursorY       int
}

// NewTcell wraps a tcell screen; nil selects the default screen for the controlling terminal
func NewTcell(screen tcell.Screen) Terminal {
	return &tcellTerm{
		screen:  screen,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (t *tcellTerm) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if t.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		t.screen = s
	}
	if err := t.screen.Init(); err != nil {
		return err
	}

	t.screen.HideCursor()
	t.screen.Clear()
	t.screen.Show()

	go t.pollLoop()

	t.initialized = true
	return nil
}

func (t *tcellTerm) Fini() {
	t.mu.Lock()
	if !t.initialized || t.finalized {
		t.mu.Unlock()
		return
	}
	t.finalized = true
	t.mu.Unlock()

	close(t.stopCh)
	// Fini makes PollEvent return nil, which ends pollLoop
	t.screen.Fini()
	<-t.doneCh
}

func (t *tcellTerm) Size() (int, int) {
	if t.screen == nil {
		return 0, 0
	}
	return t.screen.Size()
}

func (t *tcellTerm) Flush(cells []Cell, width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized || len(cells) < width*height {
		return
	}

	for y := 0; y < height; y++ {
		row := cells[y*width : (y+1)*width]
		for x, c := range row {
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			t.screen.SetContent(x, y, r, nil, tcellStyle(c))
		}
	}
	t.screen.Show()
}

func (t *tcellTerm) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.screen.Clear()
	t.screen.Show()
}

func (t *tcellTerm) SetCursorVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized || t.cursorVisible == visible {
		return
	}
	t.cursorVisible = visible
	if visible {
		t.screen.ShowCursor(t.cursorX, t.cursorY)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}

func (t *tcellTerm) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.cursorX, t.cursorY = x, y
	if t.cursorVisible {
		t.screen.ShowCursor(x, y)
		t.screen.Show()
	}
}

func (t *tcellTerm) Events() <-chan Event {
	return t.eventCh
}

func (t *tcellTerm) PostEvent(ev Event) {
	select {
	case t.eventCh <- ev:
	default:
	}
}

// pollLoop is the dedicated blocking reader; tcell has no non-blocking key query
func (t *tcellTerm) pollLoop() {
	defer close(t.doneCh)
	defer func() {
		if rec := recover(); rec != nil {
			crash(rec, "TCELL POLL CRASHED")
		}
	}()

	for {
		raw := t.screen.PollEvent()
		if raw == nil {
			t.send(Event{Type: EventClosed})
			return
		}

		switch ev := raw.(type) {
		case *tcell.EventKey:
			if out := convertTcellKey(ev); out.Key != KeyNone {
				t.send(out)
			}
		case *tcell.EventResize:
			// Bounce region is fixed at startup; only repair the physical screen
			t.mu.Lock()
			if !t.finalized {
				t.screen.Sync()
			}
			t.mu.Unlock()
		case *tcell.EventError:
			t.send(Event{Type: EventError, Err: ev})
		}
	}
}

func (t *tcellTerm) send(ev Event) {
	select {
	case t.eventCh <- ev:
	case <-t.stopCh:
		select {
		case t.eventCh <- ev:
		default:
		}
	}
}

var tcellKeyMap = map[tcell.Key]Key{
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyLF:         KeyEnter,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
}

// convertTcellKey maps a tcell key event onto the same events the ANSI parser produces
func convertTcellKey(ev *tcell.EventKey) Event {
	var mod Modifier
	if ev.Modifiers()&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}

	if ev.Key() == tcell.KeyRune {
		return Event{Type: EventKey, Key: KeyRune, Rune: ev.Rune(), Modifiers: mod}
	}
	if k, ok := tcellKeyMap[ev.Key()]; ok {
		return Event{Type: EventKey, Key: k, Modifiers: mod}
	}
	if ev.Key() < 0x20 {
		return Event{Type: EventKey, Key: KeyCtrl, Rune: rune(ev.Key()), Modifiers: mod | ModCtrl}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

func tcellStyle(c Cell) tcell.Style {
	st := tcell.StyleDefault
	if c.Fg != ColorDefault {
		st = st.Foreground(tcell.PaletteColor(int(c.Fg)))
	}
	if c.Attrs&AttrBold != 0 {
		st = st.Bold(true)
	}
	if c.Attrs&AttrDim != 0 {
		st = st.Dim(true)
	}
	if c.Attrs&AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if c.Attrs&AttrReverse != 0 {
		st = st.Reverse(true)
	}
	return st
}
