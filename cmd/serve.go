package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/server"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board relay",
	Long: `Run the websocket relay that fans board events out between participants.

Endpoints:
  GET /ws?board=<name>&codec=<json|msgpack>&participant=<id>
  GET /boards
  GET /health

Examples:
  scs serve
  scs serve --listen :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(flags)
		if err != nil {
			return err
		}

		srv := server.New(slog.Default())
		ui.PrintInfo(fmt.Sprintf("Relay listening on %s", ui.BoldStyle.Render(cfg.Listen)))
		if err := srv.ListenAndServe(cmd.Context(), cfg.Listen); err != nil {
			return fmt.Errorf("relay: %w", err)
		}
		ui.PrintSuccess("Relay stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&flags.Listen, "listen", "l", "", "listen address (env: SCS_LISTEN)")
	rootCmd.AddCommand(serveCmd)
}
