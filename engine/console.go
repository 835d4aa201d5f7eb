package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"pkt.systems/pslog"

	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/core"
	"github.com/lixenwraith/marquee/input"
	"github.com/lixenwraith/marquee/marquee"
	"github.com/lixenwraith/marquee/render"
	"github.com/lixenwraith/marquee/session"
	"github.com/lixenwraith/marquee/terminal"
)

// Options configures a Console
type Options struct {
	Text   string
	Height int
	// Width of the bounce region, 0 uses the terminal width
	Width        int
	Delay        time.Duration
	HistoryLimit int
}

// DefaultOptions returns the classic console settings
func DefaultOptions() Options {
	return Options{
		Text:         constants.DefaultText,
		Height:       constants.DefaultHeight,
		Delay:        constants.DefaultFrameDelay,
		HistoryLimit: constants.HistoryLimit,
	}
}

// Console wires the shared session to the renderer and the input collector
type Console struct {
	term      terminal.Terminal
	session   *session.Session
	banner    *marquee.Marquee
	renderer  *render.Renderer
	collector *input.Collector

	widthDetected bool
}

// NewConsole builds a console on an initialized terminal
// The bounce width is fixed here: the override, else the terminal width, else the fallback
func NewConsole(term terminal.Terminal, opts Options) *Console {
	if opts.Text == "" {
		opts.Text = constants.DefaultText
	}
	if opts.Height < constants.MinHeight {
		opts.Height = constants.DefaultHeight
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = constants.HistoryLimit
	}

	width, detected := opts.Width, true
	if width <= 0 {
		width, _ = term.Size()
		if width <= 0 {
			width, detected = constants.FallbackWidth, false
		}
	}

	sess := session.New(opts.HistoryLimit)
	banner := marquee.New(opts.Text, width, opts.Height)

	return &Console{
		term:          term,
		session:       sess,
		banner:        banner,
		renderer:      render.NewRenderer(term, sess, banner, opts.Delay),
		collector:     input.NewCollector(term.Events(), sess),
		widthDetected: detected,
	}
}

// Session returns the shared session state
func (c *Console) Session() *session.Session {
	return c.session
}

// Renderer returns the frame renderer
func (c *Console) Renderer() *render.Renderer {
	return c.renderer
}

// SetSounder attaches an optional bounce listener
func (c *Console) SetSounder(s render.Sounder) {
	c.renderer.SetSounder(s)
}

// Run starts the render and input workers and waits for both to return
// Returns the first worker error; a clean exit command returns nil
func (c *Console) Run(ctx context.Context) error {
	log := pslog.Ctx(ctx)
	if !c.widthDetected {
		log.Debug("terminal width unavailable, using fallback", "width", c.banner.Width)
	}
	log.Info("console started", "width", c.banner.Width, "height", c.banner.Height, "text", c.banner.Text())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(core.Guard(func() error { return c.renderer.Run(gctx) }))
	g.Go(core.Guard(func() error { return c.collector.Run(gctx) }))

	err := g.Wait()
	// A failed worker cancels gctx; make sure the session reflects it
	c.session.Stop()

	snap := c.session.Snapshot()
	log.Info("console stopped", "frames", c.renderer.Frames(), "history", len(snap.History))
	return err
}
