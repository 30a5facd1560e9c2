package ui

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/whiteboard"
)

// SessionSummary is printed when a session ends.
type SessionSummary struct {
	Board    string
	Duration time.Duration
	Stats    whiteboard.Stats
}

// RenderSessionSummary writes the end-of-session table to w.
func RenderSessionSummary(w io.Writer, s SessionSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle("%s Session on %s", IconBoard, s.Board)
	t.AppendHeader(table.Row{"Metric", "Local", "Remote"})
	t.AppendRows([]table.Row{
		{"Segments", s.Stats.LocalSegments, s.Stats.RemoteSegments},
		{"Clears", s.Stats.LocalClears, s.Stats.RemoteClears},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Publish failures", s.Stats.PublishFailures, ""})
	t.AppendRow(table.Row{"Rejected inbound", "", s.Stats.Rejected})
	t.AppendFooter(table.Row{"Duration", s.Duration.Truncate(time.Millisecond).String(), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}
