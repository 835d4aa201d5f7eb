package input

import (
	"unicode"

	"github.com/lixenwraith/marquee/terminal"
)

// IntentType discriminates what a key does to the session
type IntentType uint8

const (
	IntentNone IntentType = iota
	IntentInsert
	IntentBackspace
	IntentSubmit
	IntentQuit // input source closed or failed
)

// Intent is a classified key event
// Pure data struct with no session dependency
type Intent struct {
	Type IntentType
	Char rune
	Err  error
}

// Classify maps a terminal event to an intent
// Keys other than printable runes, Enter and Backspace yield IntentNone
func Classify(ev terminal.Event) Intent {
	switch ev.Type {
	case terminal.EventClosed:
		return Intent{Type: IntentQuit}
	case terminal.EventError:
		return Intent{Type: IntentQuit, Err: ev.Err}
	case terminal.EventKey:
		return classifyKey(ev)
	}
	return Intent{}
}

func classifyKey(ev terminal.Event) Intent {
	switch ev.Key {
	case terminal.KeyEnter:
		return Intent{Type: IntentSubmit}
	case terminal.KeyBackspace:
		return Intent{Type: IntentBackspace}
	case terminal.KeyRune:
		// Alt-modified runes arrive as ESC-prefixed sequences, not text
		if ev.Modifiers&terminal.ModAlt != 0 || !unicode.IsPrint(ev.Rune) {
			return Intent{}
		}
		return Intent{Type: IntentInsert, Char: ev.Rune}
	}
	return Intent{}
}
