package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/config"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/ui"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/version"
)

var (
	flags  config.Options
	secure bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "scs",
	Short:   "Shared physics whiteboard: relay server and board participants",
	Long:    `scs runs the real-time relay behind the shared physics whiteboard and joins boards as headless participants. Every participant renders the strokes it receives onto its own surface; the relay only forwards events between the members of a board and never stores a canvas.`,
	Version: version.Version,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "TOML config file (env: SCS_CONFIG)")
	pf.StringVar(&flags.Server, "server", "", "relay host[:port] (env: SCS_SERVER)")
	pf.BoolVar(&secure, "secure", false, "use wss/https to reach the relay (env: SCS_SECURE)")
	pf.StringVarP(&flags.Board, "board", "b", "", "board to join (env: SCS_BOARD)")
	pf.StringVar(&flags.Codec, "codec", "", "wire codec: json or msgpack (env: SCS_CODEC)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("secure") {
			flags.Secure = &secure
		}
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(err.Error())
		stop()
		os.Exit(1)
	}
}
