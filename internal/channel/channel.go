// Package channel implements the per-board broadcast channel: a
// publish/subscribe stream of drawing and clear events shared by every
// participant of one board.
package channel

import (
	"context"
	"errors"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

var (
	ErrNotSubscribed = errors.New("channel not subscribed")
	ErrChannelClosed = errors.New("channel closed")
	ErrQueueFull     = errors.New("outgoing queue full")
)

// DefaultQueueSize bounds the inbound and outbound event queues.
const DefaultQueueSize = 256

// Channel is a session's handle on one board.
//
// Publish is fire-and-forget: it never waits for delivery and a returned
// error only means the event was dropped locally. Events delivers inbound
// events from other participants in transport order and is closed once the
// channel is torn down. A participant never receives its own events.
type Channel interface {
	// Subscribe joins the board and returns once the transport reports
	// the subscription as active.
	Subscribe(ctx context.Context) error
	Publish(ev board.Event) error
	Events() <-chan board.Event
	// Unsubscribe leaves the board and releases the transport. It is
	// idempotent and does not wait for in-flight publishes.
	Unsubscribe() error
}
