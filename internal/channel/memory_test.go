package channel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

func subscribed(t *testing.T, bus *Bus, name string) *Member {
	t.Helper()
	m := bus.Join(name)
	require.NoError(t, m.Subscribe(context.Background()))
	t.Cleanup(func() { m.Unsubscribe() })
	return m
}

func receive(t *testing.T, ch Channel) board.Event {
	t.Helper()
	select {
	case ev, ok := <-ch.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return board.Event{}
	}
}

func TestBusFanOutExcludesSender(t *testing.T) {
	bus := NewBus(8)
	a := subscribed(t, bus, "whiteboard-channel")
	b := subscribed(t, bus, "whiteboard-channel")
	c := subscribed(t, bus, "whiteboard-channel")

	seg := board.Segment{X0: 0.1, Y0: 0.1, X1: 0.2, Y1: 0.2, Color: "#FFFFFF", Tool: board.ToolPen}
	require.NoError(t, a.Publish(board.DrawingEvent(seg)))

	for _, m := range []*Member{b, c} {
		ev := receive(t, m)
		assert.Equal(t, board.EventDrawing, ev.Type)
		assert.Equal(t, seg, ev.Segment)
		assert.Equal(t, a.ID(), ev.Sender)
	}
	assert.Empty(t, a.Events())
}

func TestBusBoardsAreIsolated(t *testing.T) {
	bus := NewBus(8)
	a := subscribed(t, bus, "one")
	b := subscribed(t, bus, "two")

	require.NoError(t, a.Publish(board.ClearEvent()))
	assert.Empty(t, b.Events())
	assert.Equal(t, 1, bus.Members("one"))
	assert.Equal(t, 1, bus.Members("two"))
}

func TestBusPreservesOrder(t *testing.T) {
	bus := NewBus(64)
	a := subscribed(t, bus, "b")
	b := subscribed(t, bus, "b")

	for i := 0; i < 10; i++ {
		x := float64(i) / 10
		require.NoError(t, a.Publish(board.DrawingEvent(board.Segment{X0: x, Y0: 0, X1: x, Y1: 1, Color: "#000000", Tool: board.ToolPen})))
	}
	for i := 0; i < 10; i++ {
		ev := receive(t, b)
		assert.InDelta(t, float64(i)/10, ev.Segment.X0, 1e-9)
	}
}

func TestMemberLifecycle(t *testing.T) {
	bus := NewBus(1)
	m := bus.Join("b")

	assert.ErrorIs(t, m.Publish(board.ClearEvent()), ErrNotSubscribed)

	require.NoError(t, m.Subscribe(context.Background()))
	require.NoError(t, m.Subscribe(context.Background()))
	assert.Equal(t, 1, bus.Members("b"))

	require.NoError(t, m.Unsubscribe())
	require.NoError(t, m.Unsubscribe())
	assert.Equal(t, 0, bus.Members("b"))

	_, ok := <-m.Events()
	assert.False(t, ok)
	assert.ErrorIs(t, m.Publish(board.ClearEvent()), ErrChannelClosed)
	assert.ErrorIs(t, m.Subscribe(context.Background()), ErrChannelClosed)
}

func TestMemberDropsWhenQueueFull(t *testing.T) {
	bus := NewBus(1)
	a := subscribed(t, bus, "b")
	b := subscribed(t, bus, "b")

	require.NoError(t, a.Publish(board.ClearEvent()))
	require.NoError(t, a.Publish(board.ClearEvent()))

	assert.Equal(t, 1, b.Dropped())
	assert.Len(t, b.Events(), 1)
}

func TestSubscribeHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewBus(1).Join("b")
	assert.ErrorIs(t, m.Subscribe(ctx), context.Canceled)
}
