package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/relay"
	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/ui"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the relay's active boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(flags)
		if err != nil {
			return err
		}

		infos, err := fetchBoards(cmd.Context(), cfg.BoardsURL())
		if err != nil {
			return err
		}

		rows := make([]ui.BoardRow, len(infos))
		for i, b := range infos {
			rows[i] = ui.BoardRow{
				Name:         b.Name,
				Members:      b.Members,
				Participants: b.Participants,
				Relayed:      b.Relayed,
				Created:      b.Created,
			}
		}
		fmt.Println(ui.BoardTableView(rows, time.Now()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

func fetchBoards(ctx context.Context, url string) ([]relay.BoardInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	var infos []relay.BoardInfo
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		return nil, fmt.Errorf("decode board list: %w", err)
	}
	return infos, nil
}
