package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/explain"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/ui"
)

var (
	flagTopic string
	flagLevel string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Ask the explanation service about a physics topic",
	Long: `Request a structured explanation (conceptual, visual, mathematical, problem
solving, experiment) tailored to a student level.

Examples:
  scs explain --topic "Newton's second law" --level Beginner
  scs explain --topic "Ohm's law" --level advanced --explain-url https://example.supabase.co/functions/v1/ai-request-handler`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := explain.ParseLevel(flagLevel)
		if err != nil {
			return err
		}
		cfg, err := LoadConfig(flags)
		if err != nil {
			return err
		}

		sp := ui.NewWaitingSpinner("Preparing explanation...")
		sp.Start()
		client := explain.NewClient(cfg.ExplainURL, cfg.ExplainToken)
		e, err := client.Explain(cmd.Context(), explain.Request{Topic: flagTopic, Level: level})
		if err != nil {
			sp.Error("Explanation failed")
			return err
		}
		sp.Stop()

		fmt.Println(ui.TitleStyle.Render(fmt.Sprintf("%s %s (%s)", ui.IconBook, flagTopic, level)))
		for _, s := range e.Sections() {
			fmt.Println(ui.InfoBoxStyle.Render(ui.BoldStyle.Render(s.Title) + "\n\n" + s.Body))
		}
		return nil
	},
}

func init() {
	explainCmd.Flags().StringVarP(&flagTopic, "topic", "t", "", "topic to explain")
	explainCmd.Flags().StringVarP(&flagLevel, "level", "L", "Beginner", "student level: Beginner, Intermediate or Advanced")
	explainCmd.Flags().StringVar(&flags.ExplainURL, "explain-url", "", "explanation service endpoint (env: SCS_EXPLAIN_URL)")
	explainCmd.Flags().StringVar(&flags.ExplainToken, "explain-token", "", "bearer token for the service (env: SCS_EXPLAIN_TOKEN)")
	explainCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(explainCmd)
}
