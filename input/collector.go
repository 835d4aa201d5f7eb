package input

import (
	"context"
	"fmt"

	"pkt.systems/pslog"

	"github.com/lixenwraith/marquee/session"
	"github.com/lixenwraith/marquee/terminal"
)

// Collector turns key events into session mutations
type Collector struct {
	events  <-chan terminal.Event
	session *session.Session
}

// NewCollector reads from events, typically terminal.Terminal.Events()
func NewCollector(events <-chan terminal.Event, sess *session.Session) *Collector {
	return &Collector{
		events:  events,
		session: sess,
	}
}

// Apply performs one intent against the session
// Returns the submit outcome for IntentSubmit, OutcomeIgnored otherwise
func (c *Collector) Apply(in Intent) session.Outcome {
	switch in.Type {
	case IntentInsert:
		c.session.Type(in.Char)
	case IntentBackspace:
		c.session.Backspace()
	case IntentSubmit:
		outcome, _ := c.session.Submit()
		return outcome
	case IntentQuit:
		c.session.Stop()
	}
	return session.OutcomeIgnored
}

// Run consumes events until the session stops, the input closes, or ctx is cancelled
// Cancellation is converted into a session stop so the renderer exits too
func (c *Collector) Run(ctx context.Context) error {
	log := pslog.Ctx(ctx).With("worker", "input")
	log.Debug("input collector started")

	for !c.session.Stopped() {
		select {
		case <-ctx.Done():
			if c.session.Stop() {
				log.Info("stop requested by cancellation", "cause", context.Cause(ctx))
			}
			return nil

		case <-c.session.Done():
			return nil

		case ev, ok := <-c.events:
			if !ok {
				ev = terminal.Event{Type: terminal.EventClosed}
			}
			in := Classify(ev)

			switch in.Type {
			case IntentNone:
				continue
			case IntentQuit:
				c.Apply(in)
				if in.Err != nil {
					log.Error("input failed", "err", in.Err)
					return fmt.Errorf("read input: %w", in.Err)
				}
				log.Info("input closed")
				return nil
			case IntentSubmit:
				outcome := c.Apply(in)
				log.Debug("command submitted", "outcome", outcome.String())
				if outcome == session.OutcomeExit {
					log.Info("exit command received")
				}
			default:
				c.Apply(in)
			}
		}
	}

	log.Debug("input collector stopped")
	return nil
}
