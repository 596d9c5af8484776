package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/plotline-dev/plotline/internal/config"
	"github.com/plotline-dev/plotline/internal/hittest"
	"github.com/plotline-dev/plotline/internal/input"
	"github.com/plotline-dev/plotline/internal/plot"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) Model {
	t.Helper()
	cfg := config.Defaults()
	cfg.AutoReload = false
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := New(Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestNew_Defaults(t *testing.T) {
	m := newTestApp(t, nil)

	// Demo dataset loads when no data file is configured.
	require.Len(t, m.Plot().Series(), 2)

	id, ok := m.Registry().ActiveID(input.KindPan)
	require.True(t, ok)
	require.Equal(t, plot.ToolPan, id)

	id, ok = m.Registry().ActiveID(input.KindTap)
	require.True(t, ok)
	require.Equal(t, plot.ToolTapSelect, id)

	id, ok = m.Registry().ActiveID(input.KindScroll)
	require.True(t, ok)
	require.Equal(t, plot.ToolWheelZoom, id)

	require.True(t, m.Registry().Enabled(plot.ToolHover))
	require.True(t, m.Registry().Enabled(plot.ToolKeyNav))
	require.False(t, m.Registry().Enabled(plot.ToolCrosshair))
}

func TestNew_LoadsConfiguredDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`series:
  - name: readings
    points:
      - [1, 2]
`), 0600))

	m := newTestApp(t, func(cfg *config.Config) { cfg.DataFile = path })

	series := m.Plot().Series()
	require.Len(t, series, 1)
	require.Equal(t, "readings", series[0].Name)
}

func TestNew_RejectsUnknownToolBinding(t *testing.T) {
	cfg := config.Defaults()
	cfg.AutoReload = false
	cfg.Tools.Active = map[string]string{"pan": "does_not_exist"}

	_, err := New(Options{Config: cfg})
	require.Error(t, err)
}

func TestNew_AppliesDisabledList(t *testing.T) {
	m := newTestApp(t, func(cfg *config.Config) {
		cfg.Tools.Disabled = []string{"hover"}
	})
	require.False(t, m.Registry().Enabled(plot.ToolHover))
	require.True(t, m.Registry().Enabled(plot.ToolKeyNav))
}

func TestNew_CrosshairDefaultFlag(t *testing.T) {
	m := newTestApp(t, func(cfg *config.Config) {
		cfg.Flags = map[string]bool{"crosshair-default": true}
	})
	require.True(t, m.Registry().Enabled(plot.ToolCrosshair))
}

func TestUpdate_KeySwitchesExclusiveTool(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = update(t, m, keyMsg("b"))

	id, ok := m.Registry().ActiveID(input.KindPan)
	require.True(t, ok)
	require.Equal(t, plot.ToolBoxZoom, id)
}

func TestUpdate_KeyTogglesInspector(t *testing.T) {
	m := newTestApp(t, nil)

	m = update(t, m, keyMsg("c"))
	require.True(t, m.Registry().Enabled(plot.ToolCrosshair))

	m = update(t, m, keyMsg("c"))
	require.False(t, m.Registry().Enabled(plot.ToolCrosshair))
}

func TestUpdate_WheelInsideFrameZoomsViewport(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	before := m.Plot().View()
	m = update(t, m, tea.MouseMsg{
		X: 40, Y: 10,
		Button: tea.MouseButtonWheelUp,
		Action: tea.MouseActionPress,
	})
	after := m.Plot().View()

	require.Less(t, after.XMax-after.XMin, before.XMax-before.XMin)
}

func TestUpdate_DragPansViewport(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	before := m.Plot().View()
	m = update(t, m, tea.MouseMsg{X: 40, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 45, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: 45, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	after := m.Plot().View()

	// Content follows the pointer: dragging right shifts the view left.
	require.Less(t, after.XMin, before.XMin)
}

func TestUpdate_ArrowKeyReachesKeyNav(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	before := m.Plot().View()
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	after := m.Plot().View()

	require.Greater(t, after.XMin, before.XMin)
}

func TestUpdate_HelpOverlayToggles(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = update(t, m, keyMsg("?"))
	require.True(t, m.showHelp)

	// Keys other than the closers are swallowed while help is up.
	m = update(t, m, keyMsg("b"))
	require.True(t, m.showHelp)
	id, _ := m.Registry().ActiveID(input.KindPan)
	require.Equal(t, plot.ToolPan, id)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.showHelp)
}

func TestUpdate_QuitKey(t *testing.T) {
	m := newTestApp(t, nil)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_ChromeToggles(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	withStatus := m.View()
	m = update(t, m, keyMsg("t"))
	withoutStatus := m.View()
	require.NotEqual(t, withStatus, withoutStatus)
}

func TestUpdate_ChromeToggleRecomputesFrame(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	_, _, _, before := m.Plot().Frame()
	require.Equal(t, 20, before)

	// Hiding the status bar gives the canvas its row back, and the plot
	// frame must follow or hover and selection map to the wrong data row.
	m = update(t, m, keyMsg("t"))
	_, _, _, after := m.Plot().Frame()
	require.Equal(t, 21, after)

	m = update(t, m, keyMsg("t"))
	_, _, _, restored := m.Plot().Frame()
	require.Equal(t, 20, restored)
}

func TestUpdate_LegendToggleRefreshesOverlays(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	hasLegend := func(ovs []hittest.Overlay) bool {
		for _, ov := range ovs {
			if strings.HasPrefix(ov.ZoneID, "legend:") {
				return true
			}
		}
		return false
	}
	require.True(t, hasLegend(m.surface.Overlays()))

	m = update(t, m, keyMsg("e"))
	require.False(t, hasLegend(m.surface.Overlays()))

	m = update(t, m, keyMsg("e"))
	require.True(t, hasLegend(m.surface.Overlays()))
}

func TestUpdate_ToolActivationPersistsToConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.Defaults()
	cfg.AutoReload = false
	m, err := New(Options{Config: cfg, ConfigPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, keyMsg("b"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved struct {
		Tools struct {
			Active map[string]string `yaml:"active"`
		} `yaml:"tools"`
	}
	require.NoError(t, yaml.Unmarshal(data, &saved))
	require.Equal(t, "box_zoom", saved.Tools.Active["pan"])
	require.Equal(t, "tap_select", saved.Tools.Active["tap"])
}

func TestUpdate_NoConfigPathSkipsPersistence(t *testing.T) {
	m := newTestApp(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	// Without a config path the toggle still applies, it just is not
	// written anywhere.
	m = update(t, m, keyMsg("b"))

	id, ok := m.Registry().ActiveID(input.KindPan)
	require.True(t, ok)
	require.Equal(t, plot.ToolBoxZoom, id)
}

func TestReloadConfig_AppliesNewActivation(t *testing.T) {
	reloaded := config.Defaults()
	reloaded.AutoReload = false
	reloaded.Tools.Active = map[string]string{"pan": "box_zoom"}

	cfg := config.Defaults()
	cfg.AutoReload = false
	m, err := New(Options{
		Config:       cfg,
		ReloadConfig: func() (config.Config, error) { return reloaded, nil },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	m = m.reloadConfig()

	id, ok := m.Registry().ActiveID(input.KindPan)
	require.True(t, ok)
	require.Equal(t, plot.ToolBoxZoom, id)

	// Gestures the reloaded map no longer binds are deactivated.
	_, ok = m.Registry().ActiveID(input.KindScroll)
	require.False(t, ok)
}

func TestReloadConfig_KeepsPreviousOnInvalid(t *testing.T) {
	bad := config.Defaults()
	bad.Cursor.Baseline = "sparkle"

	cfg := config.Defaults()
	cfg.AutoReload = false
	m, err := New(Options{
		Config:       cfg,
		ReloadConfig: func() (config.Config, error) { return bad, nil },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	m = m.reloadConfig()

	id, ok := m.Registry().ActiveID(input.KindPan)
	require.True(t, ok)
	require.Equal(t, plot.ToolPan, id)
}

func TestApp_RunsAndQuits(t *testing.T) {
	m := newTestApp(t, nil)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Send(keyMsg("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
