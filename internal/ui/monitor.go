package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ghazallsyria-cpu/ghazallsyria-cpu-scs/internal/whiteboard"
)

const monitorRefresh = 200 * time.Millisecond

// TickMsg triggers a stats refresh.
type TickMsg time.Time

// ClosedMsg tells the monitor the session ended on its own.
type ClosedMsg struct{ Err error }

// BoardMonitor is a live view of a watched board. It polls the session
// counters; the session itself runs elsewhere.
type BoardMonitor struct {
	board   string
	stats   func() whiteboard.Stats
	spinner spinner.Model
	started time.Time

	current  whiteboard.Stats
	closed   error
	quitting bool
}

// NewBoardMonitor creates a monitor that reads counters from stats.
func NewBoardMonitor(board string, stats func() whiteboard.Stats) *BoardMonitor {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &BoardMonitor{
		board:   board,
		stats:   stats,
		spinner: s,
		started: time.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(monitorRefresh, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *BoardMonitor) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func (m *BoardMonitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		m.current = m.stats()
		return m, tick()

	case ClosedMsg:
		m.current = m.stats()
		m.closed = msg.Err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *BoardMonitor) View() string {
	if m.quitting {
		return ""
	}

	st := m.current
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n%s Watching %s\n\n", IconBoard, BoldStyle.Foreground(Primary).Render(m.board)))
	b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), m.status()))

	b.WriteString(fmt.Sprintf("  %s Segments received  %s\n", IconPen, BoldStyle.Render(fmt.Sprint(st.RemoteSegments))))
	b.WriteString(fmt.Sprintf("  %s Clears received    %s\n", IconClear, BoldStyle.Render(fmt.Sprint(st.RemoteClears))))
	if st.Rejected > 0 {
		b.WriteString(fmt.Sprintf("  %s Rejected           %s\n", IconWarning, WarningStyle.Render(fmt.Sprint(st.Rejected))))
	}

	b.WriteString("\n" + FooterStyle.Render(fmt.Sprintf("Connected for %s · press q to leave", time.Since(m.started).Truncate(time.Second))))
	return b.String()
}

func (m *BoardMonitor) status() string {
	st := m.current
	if st.LastInbound.IsZero() {
		return "Waiting for other participants..."
	}
	sender := st.LastSender
	if len(sender) > 8 {
		sender = sender[:8]
	}
	return fmt.Sprintf("Last %s from %s %s ago", st.LastEvent, sender, time.Since(st.LastInbound).Truncate(time.Second))
}

// Closed returns the error the session ended with, if it ended on its own.
func (m *BoardMonitor) Closed() error {
	return m.closed
}
