package surface

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/plotline-dev/plotline/internal/input"
	"github.com/plotline-dev/plotline/internal/plot"
	"github.com/plotline-dev/plotline/internal/tools"
)

func newTestSurface(t *testing.T) (Model, *plot.Plot, *tools.Registry) {
	t.Helper()

	mgr := zone.New()
	t.Cleanup(mgr.Close)

	p := plot.New("plot-1", nil)
	p.AddSeries(plot.Series{
		Name:   "alpha",
		Color:  "#10B981",
		Points: []plot.Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
	})

	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(plot.NewPanTool(p)))
	require.NoError(t, reg.Register(plot.NewBoxZoomTool(p)))
	require.NoError(t, reg.Register(plot.NewTapSelectTool(p)))
	require.NoError(t, reg.Register(plot.NewHoverInspector(p)))
	// Listeners start disabled on registration; the app enables them.
	require.NoError(t, reg.SetEnabled(plot.ToolHover, true))

	m := New(mgr, p, plot.NewRenderer(p, nil), reg, func() string { return "crosshair" })
	m = m.SetSize(80, 24)
	return m, p, reg
}

func TestView_RendersChrome(t *testing.T) {
	m, _, _ := newTestSurface(t)

	out := ansi.Strip(m.View())
	require.Contains(t, out, "pan")
	require.Contains(t, out, "box zoom")
	require.Contains(t, out, "tap select")
	require.Contains(t, out, "alpha")
	require.Contains(t, out, "reset")
	require.Contains(t, out, "cursor: crosshair")
}

func TestView_ChromeTogglesOff(t *testing.T) {
	m, _, _ := newTestSurface(t)
	m = m.SetChrome(false, false, false).SetSize(80, 24)

	out := ansi.Strip(m.View())
	require.NotContains(t, out, "cursor:")
	require.NotContains(t, out, "reset")
}

func TestSetSize_PositionsPlotFrame(t *testing.T) {
	m, p, _ := newTestSurface(t)
	_ = m

	x, y, w, h := p.Frame()
	require.Equal(t, 1, x)
	require.Equal(t, 2, y, "interior starts below toolbar and border")
	require.Equal(t, 78, w)
	require.Equal(t, 20, h, "toolbar, two border rows, and status bar subtracted")
}

func TestOverlays_FrontMostOrderAndCursors(t *testing.T) {
	m, _, _ := newTestSurface(t)

	overlays := m.Overlays()
	require.NotEmpty(t, overlays)

	// Legend entries come before toolbar buttons and all declare the
	// pointer cursor.
	require.Equal(t, "legend:alpha", overlays[0].ZoneID)
	require.Equal(t, ResetZone, overlays[1].ZoneID)
	for _, ov := range overlays {
		require.Equal(t, "pointer", ov.Cursor)
		require.NotNil(t, ov.OnHit)
	}
}

func TestToolButton_TogglesExclusiveActivation(t *testing.T) {
	m, _, reg := newTestSurface(t)

	m.ActivateExclusive(plot.ToolPan)
	id, ok := reg.ActiveID(input.KindPan)
	require.True(t, ok)
	require.Equal(t, plot.ToolPan, id)

	// Same button again deactivates.
	m.ActivateExclusive(plot.ToolPan)
	_, ok = reg.ActiveID(input.KindPan)
	require.False(t, ok)
}

func TestToolButton_MultiKindToolActivatesAllKinds(t *testing.T) {
	m, _, reg := newTestSurface(t)

	m.ActivateExclusive(plot.ToolTapSelect)

	id, ok := reg.ActiveID(input.KindTap)
	require.True(t, ok)
	require.Equal(t, plot.ToolTapSelect, id)

	id, ok = reg.ActiveID(input.KindDoubleTap)
	require.True(t, ok)
	require.Equal(t, plot.ToolTapSelect, id)
}

func TestToolButton_ReplacingActivation(t *testing.T) {
	m, _, reg := newTestSurface(t)

	m.ActivateExclusive(plot.ToolPan)
	m.ActivateExclusive(plot.ToolBoxZoom)

	id, ok := reg.ActiveID(input.KindPan)
	require.True(t, ok)
	require.Equal(t, plot.ToolBoxZoom, id)
}

func TestToolButton_ListenerTogglesEnabled(t *testing.T) {
	m, _, reg := newTestSurface(t)
	require.True(t, reg.Enabled(plot.ToolHover))

	m.ActivateExclusive(plot.ToolHover)
	require.False(t, reg.Enabled(plot.ToolHover))

	m.ActivateExclusive(plot.ToolHover)
	require.True(t, reg.Enabled(plot.ToolHover))
}

func TestToolbar_ExclusiveButtonNeverRendersDisabled(t *testing.T) {
	m, _, _ := newTestSurface(t)

	var pan toolButton
	for _, b := range m.buttons {
		if b.id == plot.ToolPan {
			pan = b
		}
	}
	require.Equal(t, plot.ToolPan, pan.id)

	// Inactive exclusive tools render idle, not struck through.
	require.False(t, m.buttonActive(pan))
	require.False(t, m.buttonDisabled(pan))

	m.ActivateExclusive(plot.ToolPan)
	require.True(t, m.buttonActive(pan))
	require.False(t, m.buttonDisabled(pan))
}

func TestToolbar_ListenerButtonDisabledWhenToggledOff(t *testing.T) {
	m, _, reg := newTestSurface(t)

	var hover toolButton
	for _, b := range m.buttons {
		if b.id == plot.ToolHover {
			hover = b
		}
	}
	require.Equal(t, plot.ToolHover, hover.id)

	require.True(t, m.buttonActive(hover))
	require.False(t, m.buttonDisabled(hover))

	require.NoError(t, reg.SetEnabled(plot.ToolHover, false))
	require.False(t, m.buttonActive(hover))
	require.True(t, m.buttonDisabled(hover))
}

func TestLegendClick_TogglesSeries(t *testing.T) {
	m, p, _ := newTestSurface(t)

	var legend *func(int, int)
	for _, ov := range m.Overlays() {
		if ov.ZoneID == "legend:alpha" {
			f := ov.OnHit
			legend = &f
		}
	}
	require.NotNil(t, legend)

	(*legend)(0, 0)
	require.True(t, p.Series()[0].Hidden)
}

func TestResetClick_RestoresView(t *testing.T) {
	m, p, _ := newTestSurface(t)
	home := p.View()
	p.PanByCells(3, 0)

	for _, ov := range m.Overlays() {
		if ov.ZoneID == ResetZone {
			ov.OnHit(0, 0)
		}
	}
	require.Equal(t, home, p.View())
}
