package whiteboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/channel"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/render"
)

func openSession(t *testing.T, bus *channel.Bus, name string, w, h int) *Session {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Board:      name,
		Dimensions: board.Dimensions{Width: w, Height: h},
		Channel:    bus.Join(name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenDefaults(t *testing.T) {
	bus := channel.NewBus(8)
	s, err := Open(context.Background(), Options{
		Dimensions: board.Dimensions{Width: 800, Height: 500},
		Channel:    bus.Join(board.DefaultBoard),
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, board.DefaultBoard, s.Board())
	assert.NotEmpty(t, s.Participant())
	assert.Equal(t, board.ToolPen, s.Controller().Tool())
	assert.Equal(t, board.DefaultColor, s.Controller().Color())
	assert.Equal(t, render.PaintFor(board.ToolPen, board.DefaultColor), s.Surface().Paint())
	assert.Equal(t, 1, bus.Members(board.DefaultBoard))
}

func TestOpenRejectsBadOptions(t *testing.T) {
	bus := channel.NewBus(8)
	tests := []struct {
		name string
		opts Options
	}{
		{"no channel", Options{Dimensions: board.Dimensions{Width: 1, Height: 1}}},
		{"bad size", Options{Channel: bus.Join("b")}},
		{"bad tool", Options{Channel: bus.Join("b"), Dimensions: board.Dimensions{Width: 1, Height: 1}, Tool: "brush"}},
		{"bad color", Options{Channel: bus.Join("b"), Dimensions: board.Dimensions{Width: 1, Height: 1}, Color: "white"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.opts)
			var be *BoardError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "open session", be.Op)
		})
	}
	assert.Equal(t, 0, bus.Members("b"))
}

func TestCloseIsSynchronousAndIdempotent(t *testing.T) {
	bus := channel.NewBus(8)
	s := openSession(t, bus, "b", 100, 100)
	require.Equal(t, 1, bus.Members("b"))

	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
	assert.Equal(t, 0, bus.Members("b"), "unsubscribed before Close returns")
	require.NoError(t, s.Close())
}

func TestEndToEndSegmentAcrossSizes(t *testing.T) {
	bus := channel.NewBus(8)
	a := openSession(t, bus, "B1", 800, 500)
	b := openSession(t, bus, "B1", 400, 200)

	observer := bus.Join("B1")
	require.NoError(t, observer.Subscribe(context.Background()))
	defer observer.Unsubscribe()

	ctl := a.Controller()
	ctl.PointerDown(board.Point{X: 80, Y: 50})
	ctl.PointerMove(board.Point{X: 160, Y: 100})
	ctl.PointerUp()

	want := board.Segment{X0: 0.1, Y0: 0.1, X1: 0.2, Y1: 0.2, Color: "#FFFFFF", Tool: board.ToolPen}

	select {
	case ev := <-observer.Events():
		assert.Equal(t, board.EventDrawing, ev.Type)
		assert.InDelta(t, want.X0, ev.Segment.X0, 1e-9)
		assert.InDelta(t, want.Y0, ev.Segment.Y0, 1e-9)
		assert.InDelta(t, want.X1, ev.Segment.X1, 1e-9)
		assert.InDelta(t, want.Y1, ev.Segment.Y1, 1e-9)
		assert.Equal(t, want.Color, ev.Segment.Color)
		assert.Equal(t, want.Tool, ev.Segment.Tool)
	case <-time.After(time.Second):
		t.Fatal("segment not broadcast")
	}

	require.Equal(t, 1, b.Controller().Drain())
	assert.Equal(t, 0, a.Controller().Drain(), "sender never hears itself")

	surface := b.Surface()
	mid := surface.Pixel(60, 30)
	assert.InDelta(t, 1.0, mid.A, 0.02, "line drawn at receiver scale")
	assert.InDelta(t, 1.0, mid.R, 0.02)
	assert.Equal(t, 0.0, surface.Pixel(60, 40).A, "5px line stays thin")
	assert.Equal(t, 0.0, surface.Pixel(120, 60).A, "not drawn at sender scale")

	assert.Equal(t, 1, a.Controller().Stats().LocalSegments)
	assert.Equal(t, 1, b.Controller().Stats().RemoteSegments)
}

func TestInboundRenderRestoresLocalPaint(t *testing.T) {
	bus := channel.NewBus(8)
	s := openSession(t, bus, "b", 100, 100)
	ctl := s.Controller()
	require.NoError(t, ctl.SetColor("#00FF00"))

	ctl.HandleInbound(board.DrawingEvent(board.Segment{X0: 0, Y0: 0, X1: 1, Y1: 1, Color: "#FF0000", Tool: board.ToolEraser}))

	assert.Equal(t, render.PaintFor(board.ToolPen, "#00FF00"), s.Surface().Paint())
	assert.Equal(t, board.ToolPen, ctl.Tool())
	assert.Equal(t, "#00FF00", ctl.Color())
}

func TestSetToolAppliesToNextSegment(t *testing.T) {
	bus := channel.NewBus(8)
	s := openSession(t, bus, "b", 100, 100)
	peer := bus.Join("b")
	require.NoError(t, peer.Subscribe(context.Background()))
	defer peer.Unsubscribe()

	ctl := s.Controller()
	ctl.PointerDown(board.Point{X: 10, Y: 10})
	require.NoError(t, ctl.SetTool(board.ToolEraser))
	require.NoError(t, ctl.SetColor("#123"))
	ctl.PointerMove(board.Point{X: 20, Y: 10})

	ev := <-peer.Events()
	assert.Equal(t, board.ToolEraser, ev.Segment.Tool)
	assert.Equal(t, "#123", ev.Segment.Color)

	assert.Error(t, ctl.SetTool("brush"))
	assert.Error(t, ctl.SetColor("red"))
	assert.Equal(t, board.ToolEraser, ctl.Tool())
}

func TestClearPropagates(t *testing.T) {
	bus := channel.NewBus(8)
	a := openSession(t, bus, "b", 100, 100)
	b := openSession(t, bus, "b", 100, 100)

	b.Controller().HandleInbound(board.DrawingEvent(board.Segment{X0: 0, Y0: 0.5, X1: 1, Y1: 0.5, Color: "#FFFFFF", Tool: board.ToolPen}))
	require.InDelta(t, 1.0, b.Surface().Pixel(50, 49).A, 0.02)

	a.Controller().Clear()
	require.Equal(t, 1, b.Controller().Drain())

	assert.Equal(t, 0.0, b.Surface().Pixel(50, 49).A)
	assert.Equal(t, 1, a.Controller().Stats().LocalClears)
	assert.Equal(t, 1, b.Controller().Stats().RemoteClears)
	assert.Equal(t, board.EventClear, b.Controller().Stats().LastEvent)
}

func TestLeaveMidStrokeEmitsNothingOnReentry(t *testing.T) {
	bus := channel.NewBus(8)
	a := openSession(t, bus, "b", 100, 100)
	peer := bus.Join("b")
	require.NoError(t, peer.Subscribe(context.Background()))
	defer peer.Unsubscribe()

	ctl := a.Controller()
	ctl.PointerDown(board.Point{X: 10, Y: 10})
	ctl.PointerMove(board.Point{X: 20, Y: 20})
	ctl.PointerLeave()
	ctl.PointerMove(board.Point{X: 90, Y: 90})

	assert.Len(t, peer.Events(), 1)
	assert.Equal(t, 1, ctl.Stats().LocalSegments)
}

func TestInvalidInboundSegmentIsRejected(t *testing.T) {
	bus := channel.NewBus(8)
	s := openSession(t, bus, "b", 100, 100)
	ctl := s.Controller()

	ctl.HandleInbound(board.DrawingEvent(board.Segment{X0: 2, Color: "#FFFFFF", Tool: board.ToolPen}))
	ctl.HandleInbound(board.Event{Type: board.EventSubscribed})

	st := ctl.Stats()
	assert.Equal(t, 1, st.Rejected)
	assert.Equal(t, 0, st.RemoteSegments)
}

// failingChannel accepts a subscription and refuses every publish.
type failingChannel struct {
	events chan board.Event
}

func (f *failingChannel) Subscribe(context.Context) error { return nil }
func (f *failingChannel) Publish(board.Event) error       { return errors.New("link down") }
func (f *failingChannel) Events() <-chan board.Event      { return f.events }
func (f *failingChannel) Unsubscribe() error              { return nil }

func TestPublishFailureDoesNotBlockLocalDrawing(t *testing.T) {
	s, err := Open(context.Background(), Options{
		Dimensions: board.Dimensions{Width: 100, Height: 100},
		Channel:    &failingChannel{events: make(chan board.Event)},
	})
	require.NoError(t, err)
	defer s.Close()

	ctl := s.Controller()
	ctl.PointerDown(board.Point{X: 20, Y: 50})
	ctl.PointerMove(board.Point{X: 80, Y: 50})
	ctl.Clear()

	st := ctl.Stats()
	assert.Equal(t, 1, st.LocalSegments)
	assert.Equal(t, 2, st.PublishFailures)
}

func TestResizeKeepsStroke(t *testing.T) {
	bus := channel.NewBus(8)
	s := openSession(t, bus, "b", 100, 100)
	ctl := s.Controller()

	ctl.PointerDown(board.Point{X: 50, Y: 50})
	require.NoError(t, ctl.Resize(board.Dimensions{Width: 200, Height: 200}))
	assert.Equal(t, board.Dimensions{Width: 200, Height: 200}, s.Surface().Dimensions())

	ctl.PointerMove(board.Point{X: 100, Y: 100})
	assert.Equal(t, 1, ctl.Stats().LocalSegments)

	assert.ErrorIs(t, ctl.Resize(board.Dimensions{}), board.ErrInvalidDimensions)
}
