// ABOUTME: Server TUI for displaying request stats
// ABOUTME: Real-time bridge status display using bubbletea
package server

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ServerTUI manages the server TUI
type ServerTUI struct {
	program  *tea.Program
	updates  chan ServerStatus
	quitChan chan struct{} // Signal to stop the server
	done     chan struct{}
}

// ServerStatus holds server state for TUI
type ServerStatus struct {
	Name      string
	Addr      string
	Model     string
	WebSocket bool
	Sessions  int
	Stats     StatsSnapshot
}

// tuiModel is the bubbletea model for server TUI
type tuiModel struct {
	status    ServerStatus
	startTime time.Time
	quitting  bool
	quitChan  chan struct{}
}

type tickMsg time.Time
type statusMsg ServerStatus

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func (m tuiModel) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			select {
			case m.quitChan <- struct{}{}:
			default:
			}
			return m, tea.Quit
		}

	case tickMsg:
		return m, tickEvery()

	case statusMsg:
		m.status = ServerStatus(msg)
		return m, nil
	}

	return m, nil
}

func field(b *strings.Builder, label, value string) {
	b.WriteString(headerStyle.Render(label + ": "))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func (m tuiModel) View() string {
	if m.quitting {
		return "Shutting down server...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("STS Bridge"))
	b.WriteString("\n\n")

	field(&b, "Server", m.status.Name)
	field(&b, "Address", m.status.Addr)
	field(&b, "Model", m.status.Model)
	field(&b, "Uptime", time.Since(m.startTime).Round(time.Second).String())
	if m.status.WebSocket {
		field(&b, "WebSocket sessions", fmt.Sprintf("%d", m.status.Sessions))
	}
	b.WriteString("\n")

	stats := m.status.Stats
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Requests (%d)", stats.Requests)))
	b.WriteString("\n\n")

	if stats.Requests == 0 {
		b.WriteString(valueStyle.Render("  No uploads yet"))
		b.WriteString("\n")
	} else {
		b.WriteString(valueStyle.Render(fmt.Sprintf("  ok %d, failed %d, %s received",
			stats.Succeeded, stats.Failed, formatBytes(stats.BytesIn))))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(fmt.Sprintf("  last latency %v", stats.LastLatency.Round(time.Millisecond))))
		b.WriteString("\n")
		if stats.LastError != "" {
			b.WriteString(errorStyle.Render("  last error: " + stats.LastError))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press 'q' or Ctrl+C to quit"))

	return b.String()
}

// formatBytes renders a byte count with a binary unit
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// NewServerTUI creates a new server TUI showing initial until the first update
func NewServerTUI(initial ServerStatus) *ServerTUI {
	t := &ServerTUI{
		updates:  make(chan ServerStatus, 10),
		quitChan: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	t.program = tea.NewProgram(tuiModel{
		status:    initial,
		startTime: time.Now(),
		quitChan:  t.quitChan,
	}, tea.WithAltScreen())

	return t
}

// Start runs the TUI until it quits
func (t *ServerTUI) Start() error {
	go func() {
		for {
			select {
			case status := <-t.updates:
				t.program.Send(statusMsg(status))
			case <-t.done:
				return
			}
		}
	}()

	_, err := t.program.Run()
	return err
}

// Update sends a status update to the TUI
func (t *ServerTUI) Update(status ServerStatus) {
	select {
	case t.updates <- status:
	default:
		// Don't block if channel is full
	}
}

// Stop stops the TUI
func (t *ServerTUI) Stop() {
	select {
	case <-t.done:
		return
	default:
		close(t.done)
	}
	t.program.Quit()
}

// QuitChan returns the channel that signals when user wants to quit
func (t *ServerTUI) QuitChan() <-chan struct{} {
	return t.quitChan
}
