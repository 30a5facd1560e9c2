package board

import (
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned for envelopes with an unrecognized event name.
var ErrUnknownEvent = errors.New("unknown event")

// EventType names a broadcast event on a board channel.
type EventType string

// Board events. Drawing and clear travel between participants; subscribed
// and error are sent by the relay to a single connection.
const (
	EventDrawing    EventType = "drawing"
	EventClear      EventType = "clear"
	EventSubscribed EventType = "subscribed"
	EventError      EventType = "error"
)

// Event is a decoded board event.
type Event struct {
	Type    EventType
	Segment Segment
	// Sender is the participant id stamped by the relay. Empty for local events.
	Sender string
	// Message carries the relay's explanation for error events.
	Message string
}

// DrawingEvent wraps a segment.
func DrawingEvent(seg Segment) Event {
	return Event{Type: EventDrawing, Segment: seg}
}

// ClearEvent returns the zero-payload wipe signal.
func ClearEvent() Event {
	return Event{Type: EventClear}
}

// Broadcast reports whether the event travels between participants.
func (e Event) Broadcast() bool {
	return e.Type == EventDrawing || e.Type == EventClear
}

// Envelope is the wire form of an event.
type Envelope struct {
	Event   EventType `json:"event" msgpack:"event"`
	Payload *Segment  `json:"payload,omitempty" msgpack:"payload,omitempty"`
	Sender  string    `json:"sender,omitempty" msgpack:"sender,omitempty"`
	Error   string    `json:"error,omitempty" msgpack:"error,omitempty"`
}

// Envelope converts the event to its wire form.
func (e Event) Envelope() Envelope {
	env := Envelope{Event: e.Type, Sender: e.Sender, Error: e.Message}
	if e.Type == EventDrawing {
		seg := e.Segment
		env.Payload = &seg
	}
	return env
}

// ToEvent converts a wire envelope back into an event, validating the payload.
func (env Envelope) ToEvent() (Event, error) {
	ev := Event{Type: env.Event, Sender: env.Sender, Message: env.Error}
	switch env.Event {
	case EventDrawing:
		if env.Payload == nil {
			return Event{}, fmt.Errorf("%w: drawing event without payload", ErrInvalidSegment)
		}
		if err := env.Payload.Validate(); err != nil {
			return Event{}, err
		}
		ev.Segment = *env.Payload
	case EventClear, EventSubscribed, EventError:
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
	return ev, nil
}
