// Package server exposes the relay hub over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/relay"
)

const shutdownTimeout = 5 * time.Second

// Server runs a relay hub behind an HTTP listener.
type Server struct {
	Hub  *relay.Hub
	http *http.Server
	log  *slog.Logger
}

// New creates a relay server. Nothing listens until Serve.
func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	hub := relay.NewHub(log)
	return &Server{
		Hub: hub,
		http: &http.Server{
			Handler:           NewRouter(hub, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve runs the hub and accepts connections on ln until ctx is cancelled,
// then shuts both down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		s.Hub.Run(hubCtx)
		close(hubDone)
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Relay listening", "addr", ln.Addr().String())
		errCh <- s.http.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("HTTP shutdown incomplete", "err", err)
	}
	stopHub()
	<-hubDone

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	return nil
}
