package relay

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. A drawing envelope is well
	// under 256 bytes.
	maxMessageSize = 8 * 1024

	sendQueueSize = 256
)

// Client is one participant's websocket connection to a board.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn

	// Board is the board name the client joined.
	Board string
	// Participant is the id stamped as sender on everything the client
	// publishes.
	Participant string
	// Name is a human-readable label for logs and listings.
	Name string
	// Codec is the wire format negotiated at upgrade time.
	Codec board.Codec

	// Send is drained by WritePump. Only the hub sends on or closes it.
	Send chan []byte

	// dropped counts frames the hub discarded because Send was full.
	dropped int
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, boardName, participant string, codec board.Codec) *Client {
	return &Client{
		Hub:         hub,
		Conn:        conn,
		Board:       boardName,
		Participant: participant,
		Name:        displayName(),
		Codec:       codec,
		Send:        make(chan []byte, sendQueueSize),
	}
}

func (c *Client) logger() *slog.Logger {
	return c.Hub.log.With("board", c.Board, "participant", c.Participant, "name", c.Name)
}

// ReadPump decodes frames from the connection and hands them to the hub.
//
// The application runs ReadPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregisterClient(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger().Warn("Connection lost", "err", err)
			}
			return
		}

		ev, err := c.Codec.Decode(data)
		if !c.Hub.submit(&frame{client: c, event: ev, err: err}) {
			return
		}
	}
}

// WritePump writes queued frames to the connection and keeps it alive with
// pings.
//
// A goroutine running WritePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteMessage(c.Codec.MessageType(), data); err != nil {
				c.logger().Warn("Write failed", "err", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
