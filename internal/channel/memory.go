package channel

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// Bus is an in-process broadcast transport. Every board on the bus fans
// events out to all of its subscribed members except the sender, with
// per-member FIFO order.
type Bus struct {
	mu     sync.Mutex
	boards map[string]map[*Member]struct{}
	queue  int
}

// NewBus returns an empty bus whose members buffer up to queueSize events.
func NewBus(queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Bus{
		boards: make(map[string]map[*Member]struct{}),
		queue:  queueSize,
	}
}

// Join creates an unsubscribed member of the named board.
func (b *Bus) Join(boardName string) *Member {
	return &Member{
		bus:      b,
		board:    boardName,
		id:       uuid.NewString(),
		incoming: make(chan board.Event, b.queue),
	}
}

// Members reports the subscribed member count of a board.
func (b *Bus) Members(boardName string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.boards[boardName])
}

func (b *Bus) add(m *Member) {
	b.mu.Lock()
	defer b.mu.Unlock()
	members, ok := b.boards[m.board]
	if !ok {
		members = make(map[*Member]struct{})
		b.boards[m.board] = members
	}
	members[m] = struct{}{}
}

func (b *Bus) remove(m *Member) {
	b.mu.Lock()
	defer b.mu.Unlock()
	members := b.boards[m.board]
	delete(members, m)
	if len(members) == 0 {
		delete(b.boards, m.board)
	}
}

// deliver holds the bus lock for the whole fan-out so concurrent publishers
// are serialized and every member sees the same order.
func (b *Bus) deliver(from *Member, ev board.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ev.Sender = from.id
	for m := range b.boards[from.board] {
		if m == from {
			continue
		}
		m.push(ev)
	}
}

// Member is one participant's Channel on a Bus.
type Member struct {
	bus      *Bus
	board    string
	id       string
	incoming chan board.Event

	mu         sync.Mutex
	subscribed bool
	closed     bool
	dropped    int
}

var _ Channel = (*Member)(nil)

// ID is the sender id stamped on this member's events.
func (m *Member) ID() string { return m.id }

// Dropped counts inbound events discarded because the queue was full.
func (m *Member) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

func (m *Member) Subscribe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrChannelClosed
	}
	if !m.subscribed {
		m.subscribed = true
		m.bus.add(m)
	}
	return nil
}

func (m *Member) Publish(ev board.Event) error {
	m.mu.Lock()
	subscribed, closed := m.subscribed, m.closed
	m.mu.Unlock()
	if closed {
		return ErrChannelClosed
	}
	if !subscribed {
		return ErrNotSubscribed
	}
	m.bus.deliver(m, ev)
	return nil
}

func (m *Member) Events() <-chan board.Event {
	return m.incoming
}

func (m *Member) Unsubscribe() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	subscribed := m.subscribed
	m.mu.Unlock()

	if subscribed {
		m.bus.remove(m)
	}

	// The bus lock is taken by remove, so no deliver can be mid-push.
	m.mu.Lock()
	close(m.incoming)
	m.mu.Unlock()
	return nil
}

// push is called with the bus lock held.
func (m *Member) push(ev board.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.incoming <- ev:
	default:
		m.dropped++
	}
}
