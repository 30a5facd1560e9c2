package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Join a board as a passive participant",
	Long: `Join a board without drawing. Inbound strokes and clears are rendered onto a
headless surface and summarized live. Press q to leave.

Examples:
  scs watch
  scs watch --board physics-101 --server relay.example.com --secure`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchBoard(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().IntVar(&flags.Width, "width", 0, "surface width in pixels (env: SCS_WIDTH)")
	watchCmd.Flags().IntVar(&flags.Height, "height", 0, "surface height in pixels (env: SCS_HEIGHT)")
	rootCmd.AddCommand(watchCmd)
}

func watchBoard(ctx context.Context) error {
	cfg, err := LoadConfig(flags)
	if err != nil {
		return err
	}

	conn, err := Connect(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctl := conn.Session.Controller()
	monitor := ui.NewBoardMonitor(conn.Session.Board(), ctl.Stats)
	program := tea.NewProgram(monitor, tea.WithContext(ctx))

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	started := time.Now()
	go func() {
		err := ctl.Run(runCtx, nil)
		if !errors.Is(err, context.Canceled) {
			program.Send(ui.ClosedMsg{Err: err})
		}
		done <- err
	}()

	_, uiErr := program.Run()

	// The loop must be gone before the session is closed.
	stop()
	runErr := <-done

	ui.RenderSessionSummary(os.Stdout, ui.SessionSummary{
		Board:    conn.Session.Board(),
		Duration: time.Since(started),
		Stats:    ctl.Stats(),
	})

	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return uiErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
