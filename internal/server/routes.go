package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,

	// Boards are joined from browsers served by other origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewRouter mounts the relay endpoints.
func NewRouter(hub *relay.Hub, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", ServeWs(hub, log))
	mux.HandleFunc("GET /health", healthCheckHandler)
	mux.HandleFunc("GET /boards", boardsHandler(hub))
	return mux
}

// ServeWs upgrades a board subscription request:
//
//	GET /ws?board=<name>&codec=<json|msgpack>&participant=<id>
func ServeWs(hub *relay.Hub, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		codec, err := board.CodecByName(q.Get("codec"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		boardName := q.Get("board")
		if boardName == "" {
			boardName = board.DefaultBoard
		}
		participant := q.Get("participant")
		if participant == "" {
			participant = uuid.NewString()
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("Failed to upgrade connection", "remote", r.RemoteAddr, "err", err)
			return
		}

		client := relay.NewClient(hub, conn, boardName, participant, codec)
		if err := hub.Register(client); err != nil {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Board relay is healthy."))
}

func boardsHandler(hub *relay.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := hub.Boards(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(infos)
	}
}
