package render

import (
	"context"
	"sync/atomic"
	"time"

	"pkt.systems/pslog"

	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/marquee"
	"github.com/lixenwraith/marquee/session"
	"github.com/lixenwraith/marquee/terminal"
)

// Sounder receives bounce notifications, horizontal is false for a top/bottom bounce
type Sounder interface {
	PlayBounce(horizontal bool)
}

// Renderer paints one frame per tick and owns the banner state
type Renderer struct {
	term    terminal.Terminal
	session *session.Session
	banner  *marquee.Marquee
	layout  Layout
	buffer  *RenderBuffer
	delay   time.Duration
	sounder Sounder

	// Screen size of the last frame and the first canvas row shown on it
	screenW, screenH int
	top              int

	frames atomic.Uint64
}

// NewRenderer creates a renderer for the given banner; the canvas follows the terminal size
func NewRenderer(term terminal.Terminal, sess *session.Session, banner *marquee.Marquee, delay time.Duration) *Renderer {
	if delay <= 0 {
		delay = constants.DefaultFrameDelay
	}
	r := &Renderer{
		term:    term,
		session: sess,
		banner:  banner,
		layout:  NewLayout(banner.Height),
		delay:   delay,
	}
	r.screenW, r.screenH = r.canvasSize()
	r.buffer = NewRenderBuffer(r.screenW, r.screenH)
	return r
}

// SetSounder attaches an optional bounce listener
func (r *Renderer) SetSounder(s Sounder) {
	r.sounder = s
}

// Buffer exposes the back buffer of the last composed frame
func (r *Renderer) Buffer() *RenderBuffer {
	return r.buffer
}

// Layout returns the frame row plan
func (r *Renderer) Layout() Layout {
	return r.layout
}

// Frames returns the number of frames presented so far, safe to call from any goroutine
func (r *Renderer) Frames() uint64 {
	return r.frames.Load()
}

// Top returns the first canvas row shown on screen by the last frame, 0 unless the frame is taller than the terminal
func (r *Renderer) Top() int {
	return r.top
}

// canvasSize is the terminal size, or a size that fits the whole frame when unknown
func (r *Renderer) canvasSize() (int, int) {
	w, h := r.term.Size()
	if w <= 0 {
		w = max(r.banner.Width, constants.FallbackWidth)
	}
	if h <= 0 {
		h = max(r.layout.Rows(r.session.HistoryLimit()), constants.FallbackRows)
	}
	return w, h
}

// Tick composes and presents one frame, then advances the banner
func (r *Renderer) Tick() marquee.Bounce {
	if w, h := r.canvasSize(); w != r.screenW || h != r.screenH {
		r.screenW, r.screenH = w, h
		r.term.Clear()
	}

	cx, cy := ComposeFrame(r.buffer, r.layout, r.banner, r.session, r.screenW, r.screenH)

	// A canvas taller than the screen scrolls like a console so the prompt stays visible
	r.top = viewportTop(r.buffer.height, r.screenH, cy)

	// Presented outside the session lock so input is never blocked on terminal writes
	r.buffer.FlushWindow(r.term, r.top, r.screenH)
	r.term.MoveCursor(cx, cy-r.top)
	r.frames.Add(1)

	b := r.banner.Step()
	if r.sounder != nil {
		if b.Horizontal {
			r.sounder.PlayBounce(true)
		}
		if b.Vertical {
			r.sounder.PlayBounce(false)
		}
	}
	return b
}

// Run paints frames until the session stops or ctx is cancelled
func (r *Renderer) Run(ctx context.Context) error {
	log := pslog.Ctx(ctx).With("worker", "renderer")
	log.Debug("renderer started", "delay", r.delay.String(), "width", r.banner.Width, "height", r.banner.Height)

	r.term.SetCursorVisible(true)

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	top := 0
	for !r.session.Stopped() {
		if ctx.Err() != nil {
			break
		}

		if b := r.Tick(); b.Any() {
			log.Debug("bounce", "x", r.banner.X, "y", r.banner.Y, "horizontal", b.Horizontal, "vertical", b.Vertical)
		}
		if r.top != top {
			top = r.top
			log.Debug("frame scrolled to keep the prompt visible", "top", top, "screen_rows", r.screenH, "canvas_rows", r.buffer.height)
		}

		timer.Reset(r.delay)
		select {
		case <-timer.C:
		case <-r.session.Done():
		case <-ctx.Done():
		}
	}

	log.Debug("renderer stopped", "frames", r.frames.Load())
	return nil
}
