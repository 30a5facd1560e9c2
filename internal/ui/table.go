package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// BoardRow is one line of the board listing.
type BoardRow struct {
	Name         string
	Members      int
	Participants []string
	Relayed      int
	Created      time.Time
}

// BoardTableView renders the relay's active boards.
func BoardTableView(rows []BoardRow, now time.Time) string {
	if len(rows) == 0 {
		return MutedStyle.Render("No active boards")
	}

	var cells [][]string
	for _, r := range rows {
		cells = append(cells, []string{
			r.Name,
			strconv.Itoa(r.Members),
			truncate(strings.Join(r.Participants, ", "), 40),
			strconv.Itoa(r.Relayed),
			now.Sub(r.Created).Truncate(time.Second).String(),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Primary)).
		Headers("Board", "Members", "Participants", "Relayed", "Age").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case row%2 == 0:
				return TableRowStyle
			default:
				return TableRowAltStyle
			}
		})

	return tbl.Render()
}

// BoardInfo is the banner shown after joining a board.
type BoardInfo struct {
	Board       string
	Participant string
	Relay       string
	Size        string
	Tool        string
	Color       string
}

func (b BoardInfo) View() string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render("■")

	content := fmt.Sprintf("%s Joined board %s\n\n%s Participant: %s\n%s Relay:       %s\n%s Surface:     %s\n%s Tool:        %s %s %s",
		IconBoard, BoldStyle.Foreground(Primary).Render(b.Board),
		IconPeer, MutedStyle.Render(b.Participant),
		IconWeb, MutedStyle.Render(b.Relay),
		IconSize, b.Size,
		ToolIcon(b.Tool), b.Tool, swatch, b.Color,
	)

	return SuccessBoxStyle.Render(content)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
