package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/board"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/channel"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/config"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/ui"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/whiteboard"
)

func LoadConfig(opts config.Options) (*config.Config, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, whiteboard.NewError("load config", err)
	}
	return cfg, nil
}

// BoardConnection is an open session plus what the commands print about it.
type BoardConnection struct {
	Session *whiteboard.Session
	Config  *config.Config
	Relay   string
}

// Connect joins the configured board. With local set the session runs on a
// private in-memory bus instead of the relay.
func Connect(ctx context.Context, cfg *config.Config, local bool) (*BoardConnection, error) {
	participant := whiteboard.NewParticipantID()

	var ch channel.Channel
	relay := "in-memory"
	if local {
		ch = channel.NewBus(0).Join(cfg.Board)
	} else {
		codec, err := board.CodecByName(cfg.Codec)
		if err != nil {
			return nil, err
		}
		relay = cfg.WebSocketURL(participant)
		ch = channel.NewWebsocket(channel.WebsocketOptions{
			URL:    relay,
			Codec:  codec,
			Logger: slog.Default(),
		})
	}

	sp := ui.NewConnectionSpinner(fmt.Sprintf("Joining board %s...", cfg.Board))
	sp.Start()
	session, err := whiteboard.Open(ctx, whiteboard.Options{
		Board:       cfg.Board,
		Participant: participant,
		Dimensions:  cfg.Dimensions(),
		Tool:        cfg.Tool,
		Color:       cfg.Color,
		Channel:     ch,
	})
	if err != nil {
		sp.Error("Could not join the board")
		return nil, err
	}
	sp.Stop()

	conn := &BoardConnection{Session: session, Config: cfg, Relay: relay}
	fmt.Println(conn.info().View())
	return conn, nil
}

func (c *BoardConnection) info() ui.BoardInfo {
	return ui.BoardInfo{
		Board:       c.Session.Board(),
		Participant: c.Session.Participant(),
		Relay:       c.Relay,
		Size:        c.Config.Dimensions().String(),
		Tool:        string(c.Config.Tool),
		Color:       c.Config.Color,
	}
}

func (c *BoardConnection) Close() {
	if err := c.Session.Close(); err != nil {
		ui.PrintWarning(err.Error())
	}
}
