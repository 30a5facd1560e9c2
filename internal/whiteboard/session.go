// Package whiteboard ties capture, rendering and the broadcast channel into
// one participant's board session.
package whiteboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/capture"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/channel"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/render"
)

// Options configures a new session.
type Options struct {
	Board       string
	Participant string
	Dimensions  board.Dimensions
	Tool        board.Tool
	Color       string
	// Channel is owned by the session from Open until Close.
	Channel channel.Channel
	Logger  *slog.Logger
}

// NewParticipantID returns a random participant identifier.
func NewParticipantID() string {
	return uuid.NewString()
}

func (o *Options) setDefaults() error {
	if o.Channel == nil {
		return fmt.Errorf("no channel")
	}
	if o.Board == "" {
		o.Board = board.DefaultBoard
	}
	if o.Participant == "" {
		o.Participant = NewParticipantID()
	}
	if o.Tool == "" {
		o.Tool = board.ToolPen
	}
	if !o.Tool.Valid() {
		return fmt.Errorf("unknown tool %q", o.Tool)
	}
	if o.Color == "" {
		o.Color = board.DefaultColor
	}
	if !board.ValidColor(o.Color) {
		return fmt.Errorf("invalid color %q", o.Color)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

// Session is one participant's connection to a board. It exclusively owns
// its channel and pixel surface.
type Session struct {
	board       string
	participant string
	ch          channel.Channel
	surface     *render.Surface
	controller  *Controller
	log         *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Open allocates the surface and subscribes to the board channel. It
// returns once the channel reports the subscription active.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, NewBoardError("open session", opts.Board, err)
	}

	surface, err := render.NewSurface(opts.Dimensions)
	if err != nil {
		return nil, NewBoardError("open session", opts.Board, err)
	}

	log := opts.Logger.With("board", opts.Board, "participant", opts.Participant)

	if err := opts.Channel.Subscribe(ctx); err != nil {
		surface.Close()
		opts.Channel.Unsubscribe()
		return nil, NewBoardError("subscribe", opts.Board, err)
	}

	s := &Session{
		board:       opts.Board,
		participant: opts.Participant,
		ch:          opts.Channel,
		surface:     surface,
		log:         log,
	}
	s.controller = &Controller{
		session:  s,
		renderer: render.NewRenderer(surface),
		capture:  capture.New(opts.Dimensions),
		ch:       opts.Channel,
		log:      log,
	}
	s.controller.applyPaint(opts.Tool, opts.Color)

	log.Info("Joined board", "size", opts.Dimensions.String())
	return s, nil
}

func (s *Session) Board() string       { return s.board }
func (s *Session) Participant() string { return s.participant }

// Controller returns the session's synchronization controller.
func (s *Session) Controller() *Controller { return s.controller }

// Surface returns the session's pixel surface. Only the controller's loop
// may touch it while the session is open.
func (s *Session) Surface() *render.Surface { return s.surface }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close unsubscribes from the board and releases the surface. In-flight
// publishes are abandoned. Call it after the controller loop has returned;
// further calls are no-ops.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.ch.Unsubscribe()
	if cerr := s.surface.Close(); err == nil {
		err = cerr
	}
	s.log.Info("Left board")
	if err != nil {
		return NewBoardError("close session", s.board, err)
	}
	return nil
}
