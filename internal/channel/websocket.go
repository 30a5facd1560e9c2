package channel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/dns"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	subscribeWait  = 10 * time.Second
	maxMessageSize = 8 * 1024
)

// WebsocketOptions configures a relay-backed channel.
type WebsocketOptions struct {
	// URL is the full relay endpoint including the board query.
	URL       string
	Codec     board.Codec
	QueueSize int
	Logger    *slog.Logger
	// Dialer overrides the default dialer, which resolves hosts through
	// the dns package.
	Dialer *websocket.Dialer
}

// WebsocketChannel is a Channel carried over a websocket to the relay.
type WebsocketChannel struct {
	url    string
	codec  board.Codec
	log    *slog.Logger
	dialer *websocket.Dialer

	conn     *websocket.Conn
	incoming chan board.Event
	outgoing chan board.Event
	done     chan struct{}
	// lost is closed by the read pump when the connection ends.
	lost chan struct{}
	wg   sync.WaitGroup

	mu         sync.Mutex
	subscribed bool
	closed     bool
}

var _ Channel = (*WebsocketChannel)(nil)

// NewWebsocket creates an unsubscribed relay channel.
func NewWebsocket(opts WebsocketOptions) *WebsocketChannel {
	codec := opts.Codec
	if codec == nil {
		codec = board.JSONCodec{}
	}
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			NetDialContext:   dns.DialContext,
			HandshakeTimeout: subscribeWait,
		}
	}
	return &WebsocketChannel{
		url:      opts.URL,
		codec:    codec,
		log:      log,
		dialer:   dialer,
		incoming: make(chan board.Event, size),
		outgoing: make(chan board.Event, size),
		done:     make(chan struct{}),
		lost:     make(chan struct{}),
	}
}

// Subscribe dials the relay and waits for its subscribed acknowledgment.
func (c *WebsocketChannel) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}
	if c.subscribed {
		return nil
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return fmt.Errorf("failed to connect: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("failed to connect: %w", err)
	}

	if err := c.awaitSubscribed(ctx, conn); err != nil {
		conn.Close()
		return err
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c.conn = conn
	c.subscribed = true

	c.wg.Add(2)
	go c.readPump()
	go c.writePump()

	c.log.Info("Connected to board channel", "url", c.url, "codec", c.codec.Name())
	return nil
}

// awaitSubscribed reads the relay's first frame.
func (c *WebsocketChannel) awaitSubscribed(ctx context.Context, conn *websocket.Conn) error {
	deadline := time.Now().Add(subscribeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetReadDeadline(deadline)

	stop := context.AfterFunc(ctx, func() { conn.NetConn().Close() })
	defer stop()

	_, data, err := conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("await subscription: %w", ctx.Err())
		}
		return fmt.Errorf("await subscription: %w", err)
	}
	ev, err := c.codec.Decode(data)
	if err != nil {
		return fmt.Errorf("await subscription: %w", err)
	}
	switch ev.Type {
	case board.EventSubscribed:
		return nil
	case board.EventError:
		return fmt.Errorf("relay refused subscription: %s", ev.Message)
	default:
		return fmt.Errorf("await subscription: unexpected %q event", ev.Type)
	}
}

// readPump decodes relay frames onto the incoming queue until the
// connection ends.
func (c *WebsocketChannel) readPump() {
	defer func() {
		c.conn.Close()
		close(c.lost)
		close(c.incoming)
		c.wg.Done()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !c.isClosed() {
				c.log.Warn("Board channel read failed", "err", err)
			}
			return
		}

		ev, err := c.codec.Decode(data)
		if err != nil {
			c.log.Warn("Dropping undecodable event", "err", err)
			continue
		}
		if ev.Type == board.EventError {
			c.log.Warn("Relay rejected an event", "reason", ev.Message)
			continue
		}
		if !ev.Broadcast() {
			continue
		}

		select {
		case c.incoming <- ev:
		case <-c.done:
			return
		}
	}
}

// writePump encodes queued events and keeps the connection alive.
func (c *WebsocketChannel) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.wg.Done()
	}()

	for {
		select {
		case ev := <-c.outgoing:
			data, err := c.codec.Encode(ev)
			if err != nil {
				c.log.Error("Failed to encode event", "type", ev.Type, "err", err)
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(c.codec.MessageType(), data); err != nil {
				c.log.Warn("Board channel write failed", "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.lost:
			return

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// Publish queues ev for the relay without waiting.
func (c *WebsocketChannel) Publish(ev board.Event) error {
	c.mu.Lock()
	subscribed, closed := c.subscribed, c.closed
	c.mu.Unlock()

	if closed {
		return ErrChannelClosed
	}
	if !subscribed {
		return ErrNotSubscribed
	}

	select {
	case c.outgoing <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Events returns the inbound event queue.
func (c *WebsocketChannel) Events() <-chan board.Event {
	return c.incoming
}

// Unsubscribe closes the connection and waits for both pumps to exit.
func (c *WebsocketChannel) Unsubscribe() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.subscribed
	c.mu.Unlock()

	close(c.done)
	if !started {
		close(c.incoming)
		return nil
	}
	c.wg.Wait()
	return nil
}

func (c *WebsocketChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
