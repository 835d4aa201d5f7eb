package session

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/marquee/constants"
)

// Outcome describes what a submit did to the session
type Outcome uint8

const (
	// OutcomeRecorded appended the input to history and cleared it
	OutcomeRecorded Outcome = iota
	// OutcomeCleared emptied history and cleared the input
	OutcomeCleared
	// OutcomeExit requested stop, input left untouched
	OutcomeExit
	// OutcomeIgnored means the session was already stopped
	OutcomeIgnored
)

var outcomeNames = [...]string{
	OutcomeRecorded: "recorded",
	OutcomeCleared:  "cleared",
	OutcomeExit:     "exit",
	OutcomeIgnored:  "ignored",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Session is the state shared by the renderer and the input collector
// input and history are only touched under mu; the stop flag is also readable lock-free
type Session struct {
	mu      sync.Mutex
	input   []rune
	history *History

	stopped  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a session whose history keeps at most historyLimit entries
func New(historyLimit int) *Session {
	return &Session{
		history: NewHistory(historyLimit),
		done:    make(chan struct{}),
	}
}

// Type appends a rune to the input buffer
func (s *Session) Type(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Load() {
		return
	}
	s.input = append(s.input, r)
}

// Backspace removes the last rune, returns false when the buffer was empty
func (s *Session) Backspace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Load() || len(s.input) == 0 {
		return false
	}
	s.input = s.input[:len(s.input)-1]
	return true
}

// Submit interprets the input buffer as a command
// Returns the outcome and the submitted text
func (s *Session) Submit() (Outcome, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Load() {
		return OutcomeIgnored, ""
	}

	line := string(s.input)
	switch line {
	case constants.CommandExit:
		s.stopLocked()
		return OutcomeExit, line
	case constants.CommandClearHistory:
		s.history.Clear()
		s.input = s.input[:0]
		return OutcomeCleared, line
	default:
		// Empty lines are recorded too
		s.history.Push(line)
		s.input = s.input[:0]
		return OutcomeRecorded, line
	}
}

// Stop requests shutdown; returns true only for the call that made the transition
func (s *Session) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *Session) stopLocked() bool {
	transitioned := false
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.done)
		transitioned = true
	})
	return transitioned
}

// HistoryLimit returns the history capacity, fixed at construction
func (s *Session) HistoryLimit() int {
	return s.history.Limit()
}

// Stopped reports whether stop was requested, without taking the lock
func (s *Session) Stopped() bool {
	return s.stopped.Load()
}

// Done is closed when the session stops
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// View is a read-only window onto the session, valid only inside Read
type View struct {
	s *Session
}

// Input returns the current input buffer
func (v View) Input() string {
	return string(v.s.input)
}

// InputLen returns the input buffer length in runes
func (v View) InputLen() int {
	return len(v.s.input)
}

// HistoryLen returns the number of history entries
func (v View) HistoryLen() int {
	return v.s.history.Len()
}

// EachHistory visits history entries oldest first
func (v View) EachHistory(fn func(i int, entry string)) {
	v.s.history.each(fn)
}

// Read runs fn with the session locked
// fn must not retain the View or call back into the Session
func (s *Session) Read(fn func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(View{s: s})
}

// Snapshot is a detached copy of the session contents
type Snapshot struct {
	Input   string
	History []string
	Stopped bool
}

// Snapshot copies the session contents under the lock
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Input:   string(s.input),
		History: s.history.Entries(),
		Stopped: s.stopped.Load(),
	}
}
