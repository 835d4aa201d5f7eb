package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newSimTerminal(t *testing.T, w, h int) (Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTcell(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.SetSize(w, h)
	t.Cleanup(term.Fini)
	return term, sim
}

func nextEvent(t *testing.T, term Terminal) Event {
	t.Helper()
	select {
	case ev := <-term.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestTcellFlushWritesCells(t *testing.T) {
	term, sim := newSimTerminal(t, 6, 2)

	cells := make([]Cell, 12)
	for i := range cells {
		cells[i] = BlankCell
	}
	copy(cells[6:], rowCells("hey", ColorYellow, AttrBold))
	term.Flush(cells, 6, 2)

	contents, w, _ := sim.GetContents()
	if w != 6 {
		t.Fatalf("Expected width 6, got %d", w)
	}
	got := ""
	for _, c := range contents[6:9] {
		got += string(c.Runes)
	}
	if got != "hey" {
		t.Errorf("Expected row 1 to start with %q, got %q", "hey", got)
	}
	_, _, attrs := contents[6].Style.Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Error("Expected bold attribute on flushed cell")
	}
}

func TestTcellKeyTranslation(t *testing.T) {
	term, sim := newSimTerminal(t, 10, 3)

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyBackspace2, 0, tcell.ModNone)

	want := []Event{
		{Type: EventKey, Key: KeyRune, Rune: 'x'},
		{Type: EventKey, Key: KeyEnter},
		{Type: EventKey, Key: KeyBackspace},
	}
	for i, w := range want {
		got := nextEvent(t, term)
		if got != w {
			t.Errorf("Event %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestTcellFiniClosesInput(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTcell(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	term.Fini()
	term.Fini()

	if ev := nextEvent(t, term); ev.Type != EventClosed {
		t.Errorf("Expected EventClosed after Fini, got %+v", ev)
	}
}
