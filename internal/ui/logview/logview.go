// Package logview provides an in-app log viewer overlay that shows recent
// log entries without leaving the TUI. Entries arrive through the log
// broker, so the overlay sees exactly what the log file sees.
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/plotline-dev/plotline/internal/log"
	"github.com/plotline-dev/plotline/internal/ui/styles"
)

const (
	maxEntries        = 500
	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			PaddingLeft(1)
)

// Model is the log overlay component state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	entries  []string
	viewport viewport.Model
}

// New creates a new log overlay model.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool { return m.visible }

// Toggle flips overlay visibility.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refreshViewport()
	}
	return m
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = m.boxWidth() - 2
	m.viewport.Height = m.boxHeight()
	return m
}

// Append adds a log entry to the ring buffer, trimming the oldest entries
// past capacity.
func (m Model) Append(entry string) Model {
	entry = strings.TrimRight(entry, "\n")
	if entry == "" {
		return m
	}
	m.entries = append(m.entries, entry)
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
	if m.visible {
		m.refreshViewport()
	}
	return m
}

// Update handles messages for the log overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			m.entries = nil
			m.refreshViewport()
			return m, nil
		case "d":
			m.minLevel = log.LevelDebug
			m.refreshViewport()
			return m, nil
		case "i":
			m.minLevel = log.LevelInfo
			m.refreshViewport()
			return m, nil
		case "w":
			m.minLevel = log.LevelWarn
			m.refreshViewport()
			return m, nil
		case "e":
			m.minLevel = log.LevelError
			m.refreshViewport()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the overlay box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	title := titleStyle.Render("Logs (" + m.minLevel.String() + "+)")
	footer := footerStyle.Render("d/i/w/e filter · c clear · ctrl+l close")

	content := title + "\n" + m.viewport.View() + "\n" + footer
	return boxStyle.Width(m.boxWidth()).Render(content)
}

func (m *Model) refreshViewport() {
	m.viewport.Width = m.boxWidth() - 2
	m.viewport.Height = m.boxHeight()

	filtered := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if entryLevel(e) >= m.minLevel {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 0 {
		m.viewport.SetContent("(no log entries)")
		return
	}
	m.viewport.SetContent(strings.Join(filtered, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) boxWidth() int {
	w := m.width - 8
	if w > boxMaxWidth {
		w = boxMaxWidth
	}
	if w < boxMinWidth {
		w = boxMinWidth
	}
	return w
}

func (m Model) boxHeight() int {
	h := m.height - 8
	if h > viewportMaxHeight {
		h = viewportMaxHeight
	}
	if h < viewportMinHeight {
		h = viewportMinHeight
	}
	return h
}

// entryLevel recovers the level from a formatted log line. Unrecognized
// lines rank as debug so they only show at the loosest filter.
func entryLevel(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return log.LevelError
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	default:
		return log.LevelDebug
	}
}
