// Package help contains the help overlay component.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/plotline-dev/plotline/internal/keys"
	"github.com/plotline-dev/plotline/internal/ui/markdown"
	"github.com/plotline-dev/plotline/internal/ui/overlay"
	"github.com/plotline-dev/plotline/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextDescriptionColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// gestureGuide documents how pointer gestures reach tools. Rendered through
// glamour so emphasis survives in the terminal.
const gestureGuide = `Click a toolbar button or press its key to activate a tool for its
gesture. **Drag** pans or box-zooms, **scroll** wheel-zooms, **click**
selects the nearest point, **double-click** clears the selection.
Inspectors (hover, crosshair) are always on while enabled and follow the
pointer without activation.`

// Model holds the help view state.
type Model struct {
	keys    keys.KeyMap
	width   int
	height  int
	mdStyle string
}

// New creates a new help view.
func New() Model {
	return Model{keys: keys.DefaultKeyMap()}
}

// WithMarkdownStyle pins the gesture guide's glamour style ("dark" or
// "light") instead of auto-detecting from the terminal background.
func (m Model) WithMarkdownStyle(style string) Model {
	m.mdStyle = style
	return m
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help overlay (standalone, no background).
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	helpBox := m.renderContent()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, helpBox, background)
}

// renderContent builds the help box content.
func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	var toolsCol strings.Builder
	toolsCol.WriteString(sectionStyle.Render("Tools"))
	toolsCol.WriteString("\n")
	toolsCol.WriteString(m.renderBinding(m.keys.Pan))
	toolsCol.WriteString(m.renderBinding(m.keys.BoxZoom))
	toolsCol.WriteString(m.renderBinding(m.keys.WheelZoom))
	toolsCol.WriteString(m.renderBinding(m.keys.TapSelect))
	toolsCol.WriteString(m.renderBinding(m.keys.Hover))
	toolsCol.WriteString(m.renderBinding(m.keys.Crosshair))

	var viewCol strings.Builder
	viewCol.WriteString(sectionStyle.Render("View"))
	viewCol.WriteString("\n")
	viewCol.WriteString(m.renderBinding(m.keys.ResetView))
	viewCol.WriteString(m.renderBinding(m.keys.ToggleStatus))
	viewCol.WriteString(m.renderBinding(m.keys.ToggleLegend))
	viewCol.WriteString(renderKeyDesc("←→↑↓", "pan (keynav)"))
	viewCol.WriteString(renderKeyDesc("home", "reset view"))
	viewCol.WriteString(renderKeyDesc("esc", "clear selection"))

	var generalCol strings.Builder
	generalCol.WriteString(sectionStyle.Render("General"))
	generalCol.WriteString("\n")
	generalCol.WriteString(m.renderBinding(m.keys.Help))
	generalCol.WriteString(m.renderBinding(m.keys.Logs))
	generalCol.WriteString(m.renderBinding(m.keys.Quit))

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(toolsCol.String()),
		columnStyle.Render(viewCol.String()),
		generalCol.String(),
	)

	columnsWidth := lipgloss.Width(columns)
	boxWidth := columnsWidth + 4

	guide := m.renderGuide(boxWidth - 4)

	body := contentStyle.Render(columns + "\n\n" + guide + footerStyle.Render("Press ? or Esc to close"))

	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

// renderGuide renders the gesture guide markdown, falling back to plain
// word-wrapped text when glamour is unavailable.
func (m Model) renderGuide(width int) string {
	r, err := m.newRenderer(width)
	if err != nil {
		return wordwrap.String(gestureGuide, width)
	}
	out, err := r.Render(gestureGuide)
	if err != nil {
		return wordwrap.String(gestureGuide, width)
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) newRenderer(width int) (*markdown.Renderer, error) {
	if m.mdStyle != "" {
		return markdown.NewWithStyle(width, m.mdStyle)
	}
	return markdown.New(width)
}

func (m Model) renderBinding(b key.Binding) string {
	help := b.Help()
	return renderKeyDesc(help.Key, help.Desc)
}

func renderKeyDesc(k, desc string) string {
	return keyStyle.Render(k) + descStyle.Render(desc) + "\n"
}
