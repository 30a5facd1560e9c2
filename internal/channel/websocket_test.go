package channel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
)

// echoRelay acknowledges the subscription and reflects every frame back
// stamped with a fixed sender.
func echoRelay(t *testing.T, first board.Event) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	codec := board.JSONCodec{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		data, _ := codec.Encode(first)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			ev, err := codec.Decode(msg)
			if err != nil {
				continue
			}
			ev.Sender = "peer"
			out, _ := codec.Encode(ev)
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?board=test"
}

func TestWebsocketSubscribePublishReceive(t *testing.T) {
	srv := echoRelay(t, board.Event{Type: board.EventSubscribed})
	ch := NewWebsocket(WebsocketOptions{URL: wsURL(srv), Dialer: websocket.DefaultDialer})

	assert.ErrorIs(t, ch.Publish(board.ClearEvent()), ErrNotSubscribed)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ch.Subscribe(ctx))

	seg := board.Segment{X0: 0.25, Y0: 0.5, X1: 0.75, Y1: 0.5, Color: "#FF0000", Tool: board.ToolEraser}
	require.NoError(t, ch.Publish(board.DrawingEvent(seg)))

	ev := receive(t, ch)
	assert.Equal(t, board.EventDrawing, ev.Type)
	assert.Equal(t, seg, ev.Segment)
	assert.Equal(t, "peer", ev.Sender)

	require.NoError(t, ch.Unsubscribe())
	require.NoError(t, ch.Unsubscribe())
	assert.ErrorIs(t, ch.Publish(board.ClearEvent()), ErrChannelClosed)

	for range ch.Events() {
	}
}

func TestWebsocketSubscribeRefused(t *testing.T) {
	srv := echoRelay(t, board.Event{Type: board.EventError, Message: "board full"})
	ch := NewWebsocket(WebsocketOptions{URL: wsURL(srv), Dialer: websocket.DefaultDialer})

	err := ch.Subscribe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "board full")
	require.NoError(t, ch.Unsubscribe())
}

func TestWebsocketSubscribeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	ch := NewWebsocket(WebsocketOptions{URL: url, Dialer: websocket.DefaultDialer})
	require.Error(t, ch.Subscribe(context.Background()))
	require.NoError(t, ch.Unsubscribe())

	_, ok := <-ch.Events()
	assert.False(t, ok)
}

func TestWebsocketUnsubscribeBeforeSubscribe(t *testing.T) {
	ch := NewWebsocket(WebsocketOptions{URL: "ws://127.0.0.1:1/ws"})
	require.NoError(t, ch.Unsubscribe())
	assert.ErrorIs(t, ch.Subscribe(context.Background()), ErrChannelClosed)
}

func TestWebsocketSubscribeHonorsCancelWhileAwaiting(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// never acknowledge
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	ch := NewWebsocket(WebsocketOptions{URL: wsURL(srv), Dialer: websocket.DefaultDialer})
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	err := ch.Subscribe(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
	require.NoError(t, ch.Unsubscribe())
}
