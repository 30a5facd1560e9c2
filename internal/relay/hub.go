// Package relay fans board events out between the websocket connections
// subscribed to the same board. It keeps no canvas state.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// ErrHubStopped is returned when a client arrives after Run has returned.
var ErrHubStopped = errors.New("relay hub stopped")

// Hub owns every board and client. All of that state is touched only by
// the goroutine running Run.
type Hub struct {
	boards map[string]*Board

	register   chan *Client
	unregister chan *Client
	inbound    chan *frame
	queries    chan chan []BoardInfo

	done chan struct{}
	log  *slog.Logger
}

// NewHub creates a hub. Run must be started before clients register.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		boards:     make(map[string]*Board),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *frame),
		queries:    make(chan chan []BoardInfo),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Register adds c to its board. The client is acknowledged with a
// subscribed event before any traffic from other members.
func (h *Hub) Register(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) submit(f *frame) bool {
	select {
	case h.inbound <- f:
		return true
	case <-h.done:
		return false
	}
}

// Boards lists the active boards sorted by name.
func (h *Hub) Boards(ctx context.Context) ([]BoardInfo, error) {
	reply := make(chan []BoardInfo, 1)
	select {
	case h.queries <- reply:
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case infos := <-reply:
		return infos, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, after
// closing every client's send queue.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, b := range h.boards {
				for c := range b.members {
					close(c.Send)
				}
			}
			h.boards = make(map[string]*Board)
			h.log.Info("Relay hub stopped")
			return

		case c := <-h.register:
			h.join(c)

		case c := <-h.unregister:
			h.leave(c)

		case f := <-h.inbound:
			h.relay(f)

		case reply := <-h.queries:
			infos := make([]BoardInfo, 0, len(h.boards))
			for _, b := range h.boards {
				infos = append(infos, b.info())
			}
			sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
			reply <- infos
		}
	}
}

func (h *Hub) join(c *Client) {
	b, ok := h.boards[c.Board]
	if !ok {
		b = newBoard(c.Board)
		h.boards[c.Board] = b
		h.log.Info("Board created", "board", c.Board)
	}
	b.members[c] = struct{}{}
	c.logger().Info("Client joined", "members", len(b.members), "codec", c.Codec.Name())

	h.deliver(c, board.Event{Type: board.EventSubscribed})
}

func (h *Hub) leave(c *Client) {
	b, ok := h.boards[c.Board]
	if !ok {
		return
	}
	if _, ok := b.members[c]; !ok {
		return
	}
	delete(b.members, c)
	close(c.Send)
	c.logger().Info("Client left", "members", len(b.members), "dropped", c.dropped)

	if len(b.members) == 0 {
		delete(h.boards, b.Name)
		h.log.Info("Board deleted", "board", b.Name, "relayed", b.relayed)
	}
}

func (h *Hub) relay(f *frame) {
	c := f.client
	b, ok := h.boards[c.Board]
	if !ok {
		return
	}
	if _, ok := b.members[c]; !ok {
		return
	}

	if f.err != nil {
		c.logger().Warn("Rejected frame", "err", f.err)
		h.deliver(c, board.Event{Type: board.EventError, Message: f.err.Error()})
		return
	}
	if !f.event.Broadcast() {
		c.logger().Warn("Rejected frame", "type", f.event.Type)
		h.deliver(c, board.Event{Type: board.EventError, Message: "only drawing and clear events can be published"})
		return
	}

	ev := f.event
	ev.Sender = c.Participant
	ev.Message = ""

	// One encoding per codec in use on the board.
	encoded := make(map[string][]byte, 2)
	for m := range b.members {
		if m == c {
			continue
		}
		data, ok := encoded[m.Codec.Name()]
		if !ok {
			var err error
			data, err = m.Codec.Encode(ev)
			if err != nil {
				h.log.Error("Failed to encode event", "codec", m.Codec.Name(), "err", err)
				continue
			}
			encoded[m.Codec.Name()] = data
		}
		h.enqueue(m, data)
	}
	b.relayed++
	c.logger().Debug("Relayed event", "type", ev.Type, "members", len(b.members)-1)
}

// deliver sends an event to a single client in its own codec.
func (h *Hub) deliver(c *Client, ev board.Event) {
	data, err := c.Codec.Encode(ev)
	if err != nil {
		h.log.Error("Failed to encode event", "codec", c.Codec.Name(), "err", err)
		return
	}
	h.enqueue(c, data)
}

// enqueue never blocks the hub: a member whose queue is full misses the
// frame.
func (h *Hub) enqueue(c *Client, data []byte) {
	select {
	case c.Send <- data:
	default:
		c.dropped++
		c.logger().Debug("Send queue full, dropping frame")
	}
}
