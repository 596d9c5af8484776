// Package surface renders the interactive plot: toolbar, bordered canvas,
// legend, and status bar. All clickable regions are marked as bubblezone
// zones so the hit tester can resolve pointer events against the latest
// rendered frame.
package surface

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/plotline-dev/plotline/internal/hittest"
	"github.com/plotline-dev/plotline/internal/input"
	"github.com/plotline-dev/plotline/internal/log"
	"github.com/plotline-dev/plotline/internal/plot"
	"github.com/plotline-dev/plotline/internal/tools"
	"github.com/plotline-dev/plotline/internal/ui/styles"
)

// FrameZone is the zone ID marking the plot interior.
const FrameZone = "plot:frame"

// ResetZone is the zone ID of the reset-view button.
const ResetZone = "button:reset"

func toolZone(id tools.ID) string { return "tool:" + string(id) }

func legendZone(name string) string { return "legend:" + name }

// toolButton is one toolbar entry.
type toolButton struct {
	id    tools.ID
	label string
	// kinds the tool declares; exclusive tools toggle activation,
	// move/key listeners toggle enablement
	kinds []input.Kind
}

// Model is the surface view state.
type Model struct {
	mgr      *zone.Manager
	plot     *plot.Plot
	renderer *plot.Renderer
	registry *tools.Registry
	cursor   func() string

	width, height int
	showStatus    bool
	showToolbar   bool
	showLegend    bool

	buttons []toolButton
}

// New creates the surface view. cursor is polled each render for the status
// bar; pass the dispatcher's Cursor method.
func New(mgr *zone.Manager, p *plot.Plot, r *plot.Renderer, reg *tools.Registry, cursor func() string) Model {
	m := Model{
		mgr:         mgr,
		plot:        p,
		renderer:    r,
		registry:    reg,
		cursor:      cursor,
		showStatus:  true,
		showToolbar: true,
		showLegend:  true,
	}
	maxLabel := 0
	for _, id := range reg.IDs() {
		t, ok := reg.Tool(id)
		if !ok {
			continue
		}
		label := strings.ReplaceAll(string(id), "_", " ")
		if w := runewidth.StringWidth(label); w > maxLabel {
			maxLabel = w
		}
		m.buttons = append(m.buttons, toolButton{
			id:    id,
			label: label,
			kinds: t.Kinds(),
		})
	}
	// Uniform button widths keep the toolbar stable across activation
	// style changes.
	for i := range m.buttons {
		m.buttons[i].label = runewidth.FillRight(m.buttons[i].label, maxLabel)
	}
	return m
}

// SetChrome applies the configured chrome visibility.
func (m Model) SetChrome(status, toolbar, legend bool) Model {
	m.showStatus = status
	m.showToolbar = toolbar
	m.showLegend = legend
	return m
}

// ToggleStatus flips the status bar.
func (m Model) ToggleStatus() Model {
	m.showStatus = !m.showStatus
	return m
}

// ToggleLegend flips the legend overlay.
func (m Model) ToggleLegend() Model {
	m.showLegend = !m.showLegend
	return m
}

// SetSize lays the surface out for a new terminal size and tells the plot
// where its interior sits in screen cells.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	fx, fy, fw, fh := m.frameGeometry()
	m.plot.SetFrame(fx, fy, fw, fh)
	return m
}

// frameGeometry computes the canvas interior position and size: one border
// cell on each side, toolbar above, status bar below.
func (m Model) frameGeometry() (x, y, w, h int) {
	x = 1
	y = 1
	if m.showToolbar {
		y++
	}
	w = m.width - 2
	h = m.height - 2 - (y - 1)
	if m.showStatus {
		h--
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return x, y, w, h
}

// Overlays returns the interactive regions for the hit tester, front-most
// first. Legend entries sit on top of the canvas so they win over the frame.
func (m Model) Overlays() []hittest.Overlay {
	var out []hittest.Overlay

	if m.showLegend {
		for _, s := range m.plot.Series() {
			name := s.Name
			out = append(out, hittest.Overlay{
				ZoneID: legendZone(name),
				Cursor: "pointer",
				OnHit: func(x, y int) {
					log.Debug(log.CatUI, "Legend toggle", "series", name)
					m.plot.ToggleSeries(name)
				},
			})
		}
		out = append(out, hittest.Overlay{
			ZoneID: ResetZone,
			Cursor: "pointer",
			OnHit: func(x, y int) {
				m.plot.ResetView()
			},
		})
	}

	if m.showToolbar {
		for _, b := range m.buttons {
			b := b
			out = append(out, hittest.Overlay{
				ZoneID: toolZone(b.id),
				Cursor: "pointer",
				OnHit: func(x, y int) {
					m.toggleTool(b)
				},
			})
		}
	}

	return out
}

// toggleTool activates (or deactivates) an exclusive tool for all its
// declared kinds, and flips enablement for move/key listeners.
func (m Model) toggleTool(b toolButton) {
	for _, kind := range b.kinds {
		if !kind.Exclusive() {
			on := !m.registry.Enabled(b.id)
			if err := m.registry.SetEnabled(b.id, on); err != nil {
				log.ErrorErr(log.CatTool, "Failed to toggle tool", err, "tool", b.id)
			}
			return
		}
	}
	active := false
	for _, kind := range b.kinds {
		if id, ok := m.registry.ActiveID(kind); ok && id == b.id {
			active = true
			break
		}
	}
	for _, kind := range b.kinds {
		if active {
			m.registry.Deactivate(kind)
			continue
		}
		if err := m.registry.Activate(kind, b.id); err != nil {
			log.ErrorErr(log.CatTool, "Failed to activate tool", err, "tool", b.id, "kind", kind)
		}
	}
}

// ActivateExclusive activates the tool for every exclusive kind it declares.
// Used by the keyboard shortcuts.
func (m Model) ActivateExclusive(id tools.ID) {
	for _, b := range m.buttons {
		if b.id == id {
			m.toggleTool(b)
			return
		}
	}
}

// View renders the full surface.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var sections []string

	if m.showToolbar {
		sections = append(sections, m.renderToolbar())
	}

	sections = append(sections, m.renderCanvas())

	if m.showStatus {
		sections = append(sections, m.renderStatusBar())
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderToolbar() string {
	var parts []string
	for _, b := range m.buttons {
		style := styles.ToolButtonStyle
		switch {
		case m.buttonActive(b):
			style = styles.ToolButtonActiveStyle
		case m.buttonDisabled(b):
			style = styles.ToolButtonDisabledStyle
		}
		parts = append(parts, m.mgr.Mark(toolZone(b.id), style.Render(b.label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// buttonActive reports whether the button's tool is currently routed to:
// active for an exclusive kind, or enabled for a pure listener.
func (m Model) buttonActive(b toolButton) bool {
	exclusive := false
	for _, kind := range b.kinds {
		if kind.Exclusive() {
			exclusive = true
			if id, ok := m.registry.ActiveID(kind); ok && id == b.id {
				return true
			}
		}
	}
	if !exclusive {
		return m.registry.Enabled(b.id)
	}
	return false
}

// buttonDisabled reports whether a listener-only button is toggled off.
// Exclusive tools are never disabled, only inactive; enablement tracks
// move/key listeners alone.
func (m Model) buttonDisabled(b toolButton) bool {
	for _, kind := range b.kinds {
		if kind.Exclusive() {
			return false
		}
	}
	return !m.registry.Enabled(b.id)
}

func (m Model) renderCanvas() string {
	_, _, fw, fh := m.frameGeometry()

	canvas := m.mgr.Mark(FrameZone, m.renderer.Canvas(fw, fh))
	boxed := styles.FrameBorderStyle.Render(canvas)

	if m.showLegend {
		legend := m.renderLegend()
		boxed = placeTopRight(boxed, legend)
	}
	return boxed
}

// renderLegend draws the series legend plus the reset button.
func (m Model) renderLegend() string {
	var b strings.Builder
	for _, s := range m.plot.Series() {
		entry := "■ " + s.Name
		if s.Hidden {
			entry = styles.LegendHiddenStyle.Render(entry)
		} else {
			entry = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(entry)
		}
		b.WriteString(m.mgr.Mark(legendZone(s.Name), entry))
		b.WriteString("\n")
	}
	b.WriteString(m.mgr.Mark(ResetZone, styles.StatusHintStyle.Render("⟲ reset")))
	return styles.LegendStyle.Render(b.String())
}

// placeTopRight overlays fg into the top-right corner of bg, inside the
// border.
func placeTopRight(bg, fg string) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	bgWidth := lipgloss.Width(bg)

	for i, fgLine := range fgLines {
		row := i + 1
		if row >= len(bgLines)-1 {
			break
		}
		fgWidth := lipgloss.Width(fgLine)
		startX := bgWidth - fgWidth - 2
		if startX < 1 {
			startX = 1
		}
		bgLines[row] = overlayLine(bgLines[row], fgLine, startX)
	}
	return strings.Join(bgLines, "\n")
}

// overlayLine splices fg into bg at column x, ANSI-aware on both sides.
func overlayLine(bg, fg string, x int) string {
	fgWidth := ansi.StringWidth(fg)

	left := ansi.Truncate(bg, x, "")
	leftWidth := ansi.StringWidth(left)
	if leftWidth < x {
		left += strings.Repeat(" ", x-leftWidth)
	}

	endX := x + fgWidth
	var right string
	if endX < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, endX, "")
	}
	return left + fg + right
}

func (m Model) renderStatusBar() string {
	parts := []string{
		styles.StatusCursorStyle.Render("cursor: " + m.cursor()),
		styles.StatusBarStyle.Render(m.plot.DescribeView()),
	}
	parts = append(parts, m.plot.Readouts()...)
	parts = append(parts, styles.StatusHintStyle.Render("? help"))
	return styles.StatusBarStyle.Render(strings.Join(parts, "  │  "))
}
