package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/ui"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/whiteboard"
)

var (
	flagScript string
	flagLocal  bool
	flagLinger time.Duration
)

var drawCmd = &cobra.Command{
	Use:     "draw",
	Aliases: []string{"d"},
	Short:   "Join a board and replay a pointer script",
	Long: `Join a board as a participant and feed a pointer script through the same
capture, render and broadcast path a user's pointer takes. Strokes from other
participants are rendered while the script plays.

Script commands, one per line:
  size W H          resize the surface
  tool pen|eraser   switch tool
  color #RRGGBB     switch color
  down X Y          press at pixel (X, Y)
  move X Y          drag to pixel (X, Y)
  up | leave        end the stroke
  clear             wipe every participant's surface
  wait 100ms        pause

Examples:
  scs draw --script stroke.txt
  cat stroke.txt | scs draw --board physics-101 --script -
  scs draw --local --script stroke.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return drawScript(cmd.Context())
	},
}

func init() {
	drawCmd.Flags().StringVarP(&flagScript, "script", "s", "-", "pointer script file, - for stdin")
	drawCmd.Flags().BoolVar(&flagLocal, "local", false, "dry run on an in-memory board instead of the relay")
	drawCmd.Flags().DurationVar(&flagLinger, "linger", 0, "keep rendering inbound strokes this long after the script ends")
	drawCmd.Flags().IntVar(&flags.Width, "width", 0, "surface width in pixels (env: SCS_WIDTH)")
	drawCmd.Flags().IntVar(&flags.Height, "height", 0, "surface height in pixels (env: SCS_HEIGHT)")
	drawCmd.Flags().StringVar(&flags.Tool, "tool", "", "initial tool: pen or eraser (env: SCS_TOOL)")
	drawCmd.Flags().StringVar(&flags.Color, "color", "", "initial color (env: SCS_COLOR)")
	rootCmd.AddCommand(drawCmd)
}

func readScript(path string) ([]whiteboard.Input, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, whiteboard.NewError("open script", err)
		}
		defer f.Close()
		r = f
	}
	return whiteboard.ParseScript(r)
}

func drawScript(ctx context.Context) error {
	inputs, err := readScript(flagScript)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(flags)
	if err != nil {
		return err
	}

	conn, err := Connect(ctx, cfg, flagLocal)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctl := conn.Session.Controller()
	started := time.Now()

	err = ctl.Run(ctx, whiteboard.Feed(ctx, inputs))
	if err == nil && flagLinger > 0 {
		lingerCtx, cancel := context.WithTimeout(ctx, flagLinger)
		err = ctl.Run(lingerCtx, nil)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
	}

	fmt.Println()
	ui.RenderSessionSummary(os.Stdout, ui.SessionSummary{
		Board:    conn.Session.Board(),
		Duration: time.Since(started),
		Stats:    ctl.Stats(),
	})

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
