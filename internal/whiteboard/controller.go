package whiteboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/capture"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/channel"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/render"
)

// Controller routes local input to the renderer and the channel, and
// inbound events to the renderer. All methods must be called from a single
// goroutine, normally the one running Run.
type Controller struct {
	session  *Session
	renderer *render.Renderer
	capture  *capture.Capture
	ch       channel.Channel
	log      *slog.Logger

	tool  board.Tool
	color string

	stats statsRecorder
}

// Tool returns the active tool.
func (c *Controller) Tool() board.Tool { return c.tool }

// Color returns the active color.
func (c *Controller) Color() string { return c.color }

// Capture exposes the pointer state machine.
func (c *Controller) Capture() *capture.Capture { return c.capture }

// Stats returns a copy of the session counters. Safe from any goroutine.
func (c *Controller) Stats() Stats { return c.stats.snapshot() }

func (c *Controller) applyPaint(tool board.Tool, color string) {
	c.tool = tool
	c.color = color
	c.renderer.Surface().SetPaint(render.PaintFor(tool, color))
}

func (c *Controller) active() render.PaintState {
	return render.PaintFor(c.tool, c.color)
}

// PointerDown starts a stroke at a pixel position.
func (c *Controller) PointerDown(p board.Point) {
	c.capture.Down(p)
}

// PointerMove extends the current stroke. The new segment is drawn locally
// first and then published, one message per move.
func (c *Controller) PointerMove(p board.Point) {
	seg, ok := c.capture.Move(p, c.tool, c.color)
	if !ok {
		return
	}
	if err := c.renderer.RenderSegmentWith(seg, c.active()); err != nil {
		c.log.Warn("Local render failed", "err", err)
	}
	c.stats.update(func(s *Stats) { s.LocalSegments++ })
	c.publish(board.DrawingEvent(seg))
}

// PointerUp ends the current stroke.
func (c *Controller) PointerUp() {
	c.capture.Up()
}

// PointerLeave ends the current stroke when the pointer exits the surface.
func (c *Controller) PointerLeave() {
	c.capture.Leave()
}

// Clear wipes the local surface and tells the other participants to do
// the same.
func (c *Controller) Clear() {
	c.renderer.Clear()
	c.stats.update(func(s *Stats) { s.LocalClears++ })
	c.publish(board.ClearEvent())
}

// SetTool changes the tool used by the next local segment.
func (c *Controller) SetTool(t board.Tool) error {
	if !t.Valid() {
		return fmt.Errorf("unknown tool %q", t)
	}
	c.applyPaint(t, c.color)
	return nil
}

// SetColor changes the color used by the next local segment.
func (c *Controller) SetColor(color string) error {
	if !board.ValidColor(color) {
		return fmt.Errorf("invalid color %q", color)
	}
	c.applyPaint(c.tool, color)
	return nil
}

// Resize changes the surface size. Existing pixels are discarded and an
// in-progress stroke continues against the new size.
func (c *Controller) Resize(d board.Dimensions) error {
	if err := c.renderer.Surface().Resize(d); err != nil {
		return err
	}
	c.capture.SetDimensions(d)
	c.log.Debug("Surface resized", "size", d.String())
	return nil
}

// HandleInbound renders an event from another participant. Drawing events
// use the segment's own paint, after which the local tool and color are
// restored.
func (c *Controller) HandleInbound(ev board.Event) {
	switch ev.Type {
	case board.EventDrawing:
		if err := ev.Segment.Validate(); err != nil {
			c.reject(ev, err)
			return
		}
		if err := c.renderer.RenderSegmentWith(ev.Segment, c.active()); err != nil {
			c.reject(ev, err)
			return
		}
		c.stats.update(func(s *Stats) { s.RemoteSegments++ })
	case board.EventClear:
		c.renderer.Clear()
		c.stats.update(func(s *Stats) { s.RemoteClears++ })
	default:
		c.log.Debug("Ignoring inbound event", "type", ev.Type)
		return
	}
	c.stats.update(func(s *Stats) {
		s.LastEvent = ev.Type
		s.LastSender = ev.Sender
		s.LastInbound = time.Now()
	})
}

func (c *Controller) reject(ev board.Event, err error) {
	c.log.Warn("Dropping inbound event", "type", ev.Type, "sender", ev.Sender, "err", err)
	c.stats.update(func(s *Stats) { s.Rejected++ })
}

// publish never blocks and never fails the caller; transport problems are
// logged and counted.
func (c *Controller) publish(ev board.Event) {
	if err := c.ch.Publish(ev); err != nil {
		c.log.Warn("Publish failed", "type", ev.Type, "err", err)
		c.stats.update(func(s *Stats) { s.PublishFailures++ })
	}
}

// Apply dispatches one local input. Wait inputs are ignored here; Feed
// handles their timing.
func (c *Controller) Apply(in Input) error {
	switch in.Kind {
	case InputDown:
		c.PointerDown(in.Point)
	case InputMove:
		c.PointerMove(in.Point)
	case InputUp:
		c.PointerUp()
	case InputLeave:
		c.PointerLeave()
	case InputClear:
		c.Clear()
	case InputTool:
		return c.SetTool(in.Tool)
	case InputColor:
		return c.SetColor(in.Color)
	case InputResize:
		return c.Resize(in.Size)
	case InputWait:
	default:
		return fmt.Errorf("unknown input kind %d", in.Kind)
	}
	return nil
}

// Run is the session's event loop. Local inputs and inbound events are
// handled one at a time to completion. Run returns nil when input is closed,
// ctx.Err() on cancellation and ErrChannelClosed if the board channel ends
// first. A nil input channel makes the session a passive watcher.
func (c *Controller) Run(ctx context.Context, input <-chan Input) error {
	if c.session.Closed() {
		return NewBoardError("run", c.session.board, ErrSessionClosed)
	}
	events := c.ch.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case in, ok := <-input:
			if !ok {
				return nil
			}
			if err := c.Apply(in); err != nil {
				c.log.Warn("Rejected local input", "input", in.String(), "err", err)
			}

		case ev, ok := <-events:
			if !ok {
				return NewBoardError("receive", c.session.board, channel.ErrChannelClosed)
			}
			c.HandleInbound(ev)
		}
	}
}

// Drain handles every inbound event already queued without waiting for
// more.
func (c *Controller) Drain() int {
	n := 0
	for {
		select {
		case ev, ok := <-c.ch.Events():
			if !ok {
				return n
			}
			c.HandleInbound(ev)
			n++
		default:
			return n
		}
	}
}

// IsChannelClosed reports whether err came from the board channel ending.
func IsChannelClosed(err error) bool {
	return errors.Is(err, channel.ErrChannelClosed)
}
