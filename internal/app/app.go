// Package app contains the root application model: it owns the plot, the
// tool registry, and the dispatcher, and adapts Bubble Tea messages into
// the occurrence stream the dispatcher consumes.
package app

import (
	"context"
	"maps"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/plotline-dev/plotline/internal/cachemanager"
	"github.com/plotline-dev/plotline/internal/config"
	"github.com/plotline-dev/plotline/internal/dispatch"
	"github.com/plotline-dev/plotline/internal/events"
	"github.com/plotline-dev/plotline/internal/flags"
	"github.com/plotline-dev/plotline/internal/gesture"
	"github.com/plotline-dev/plotline/internal/hittest"
	"github.com/plotline-dev/plotline/internal/input"
	"github.com/plotline-dev/plotline/internal/keys"
	"github.com/plotline-dev/plotline/internal/log"
	"github.com/plotline-dev/plotline/internal/plot"
	"github.com/plotline-dev/plotline/internal/pubsub"
	"github.com/plotline-dev/plotline/internal/tools"
	"github.com/plotline-dev/plotline/internal/ui/logview"
	"github.com/plotline-dev/plotline/internal/ui/overlay"
	"github.com/plotline-dev/plotline/internal/ui/surface"
	"github.com/plotline-dev/plotline/internal/watcher"

	helpview "github.com/plotline-dev/plotline/internal/ui/help"
)

// surfaceID identifies the single plot surface this app hosts on the
// notification channel.
const surfaceID = "plot-1"

// Options carries everything the command layer resolves before the UI
// starts.
type Options struct {
	Config     config.Config
	ConfigPath string

	// Broker is the document notification channel. The command layer owns
	// it so it can attach listeners (history recorder) before the UI runs.
	Broker *pubsub.Broker[events.Notification]

	// Tracer records dispatch spans. Nil disables tracing.
	Tracer trace.Tracer

	// Debug enables the log overlay and its broker listener.
	Debug bool

	// ReloadConfig re-reads the config file on watcher signals. Nil
	// disables hot reload even when the config asks for it.
	ReloadConfig func() (config.Config, error)
}

// cursorSource is a stable indirection to the current dispatcher, so the
// surface's cursor closure survives dispatcher replacement on config
// reload.
type cursorSource struct {
	d *dispatch.Dispatcher
}

func (c *cursorSource) cursor() string { return c.d.Cursor() }

// configReloadedMsg signals that the watched config file changed on disk.
type configReloadedMsg struct{}

// watcherClosedMsg signals that the config watcher shut down.
type watcherClosedMsg struct{}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string
	reloadFn   func() (config.Config, error)

	mgr        *zone.Manager
	plot       *plot.Plot
	registry   *tools.Registry
	recognizer *gesture.Recognizer
	hits       *hittest.Zones
	cursors    *cursorSource
	dispatcher *dispatch.Dispatcher
	broker     *pubsub.Broker[events.Notification]
	tracer     trace.Tracer

	surface surface.Model
	help    helpview.Model
	logs    logview.Model
	keys    keys.KeyMap

	width    int
	height   int
	showHelp bool

	debug       bool
	logCtx      context.Context
	logCancel   context.CancelFunc
	logListener *log.LogListener

	watcherHandle *watcher.Watcher
	reloadCh      <-chan struct{}
}

// New builds the fully wired application model. The returned model owns the
// watcher and log subscription; call Close when the program exits.
func New(opts Options) (Model, error) {
	cfg := opts.Config

	broker := opts.Broker
	if broker == nil {
		broker = pubsub.NewBroker[events.Notification]()
	}

	p := plot.New(surfaceID, broker)
	series, err := loadSeries(cfg.DataFile)
	if err != nil {
		return Model{}, err
	}
	for _, s := range series {
		p.AddSeries(s)
	}

	cache := cachemanager.NewInMemoryCacheManager[string, string](
		"canvas", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	renderer := plot.NewRenderer(p, cache)

	flagReg := flags.New(cfg.Flags)

	wheel := plot.NewWheelZoomTool(p)
	wheel.SetInvert(flagReg.Enabled(flags.FlagWheelInvert))

	registry := tools.NewRegistry()
	for _, t := range []tools.Tool{
		plot.NewPanTool(p),
		plot.NewBoxZoomTool(p),
		wheel,
		plot.NewTapSelectTool(p),
		plot.NewHoverInspector(p),
		plot.NewCrosshairInspector(p),
		plot.NewKeyNavTool(p),
	} {
		if err := registry.Register(t); err != nil {
			return Model{}, err
		}
	}
	// Hover readout and keyboard navigation are on unless the config
	// disables them; the crosshair starts off and is toggled at runtime.
	enabled := []tools.ID{plot.ToolHover, plot.ToolKeyNav}
	if flagReg.Enabled(flags.FlagCrosshairDefault) {
		enabled = append(enabled, plot.ToolCrosshair)
	}
	for _, id := range enabled {
		if err := registry.SetEnabled(id, true); err != nil {
			return Model{}, err
		}
	}
	if err := applyToolConfig(registry, cfg.Tools); err != nil {
		return Model{}, err
	}

	mgr := zone.New()
	hits := hittest.NewZones(mgr, surface.FrameZone)
	cursors := &cursorSource{}
	cursors.d = dispatch.New(surfaceID, registry, hits, registry, broker, dispatch.Options{
		BaselineCursor: cfg.Cursor.Baseline,
		Tracer:         opts.Tracer,
	})

	surf := surface.New(mgr, p, renderer, registry, cursors.cursor)
	surf = surf.SetChrome(cfg.UI.ShowStatusBar, cfg.UI.ShowToolbar, cfg.UI.ShowLegend)
	hits.SetOverlays(surf.Overlays()...)

	m := Model{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		reloadFn:   opts.ReloadConfig,
		mgr:        mgr,
		plot:       p,
		registry:   registry,
		recognizer: gesture.New(),
		hits:       hits,
		cursors:    cursors,
		dispatcher: cursors.d,
		broker:     broker,
		tracer:     opts.Tracer,
		surface:    surf,
		help:       helpview.New().WithMarkdownStyle(cfg.UI.MarkdownStyle),
		logs:       logview.New(),
		keys:       keys.DefaultKeyMap(),
		debug:      opts.Debug,
	}

	if opts.Debug {
		m.logCtx, m.logCancel = context.WithCancel(context.Background())
		m.logListener = log.NewListener(m.logCtx)
	}

	if cfg.AutoReload && opts.ConfigPath != "" && opts.ReloadConfig != nil {
		w, err := watcher.New(watcher.DefaultConfig(opts.ConfigPath))
		if err != nil {
			log.Warn(log.CatWatch, "Config watcher unavailable", "error", err)
		} else if ch, err := w.Start(); err != nil {
			log.Warn(log.CatWatch, "Config watcher failed to start", "error", err)
			_ = w.Stop()
		} else {
			m.watcherHandle = w
			m.reloadCh = ch
		}
	}

	return m, nil
}

// loadSeries resolves the plotted dataset: the configured data file when
// set, the built-in demo otherwise.
func loadSeries(path string) ([]plot.Series, error) {
	if path == "" {
		return plot.DemoSeries(), nil
	}
	return plot.LoadSeries(path)
}

// applyToolConfig applies the activation map and disabled list from config
// onto a registry populated with the standard tools.
func applyToolConfig(r *tools.Registry, cfg config.ToolsConfig) error {
	for gestureName, toolID := range cfg.Active {
		if err := r.Activate(input.Kind(gestureName), tools.ID(toolID)); err != nil {
			return err
		}
	}
	for _, id := range cfg.Disabled {
		if err := r.SetEnabled(tools.ID(id), false); err != nil {
			return err
		}
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.reloadCh != nil {
		cmds = append(cmds, waitReload(m.reloadCh))
	}
	return tea.Batch(cmds...)
}

// waitReload bridges the watcher's signal channel into the update loop.
func waitReload(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watcherClosedMsg{}
		}
		return configReloadedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.surface = m.surface.SetSize(msg.Width, msg.Height)
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.logs = m.logs.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case log.LogEvent:
		m.logs = m.logs.Append(msg.Payload)
		if m.logListener != nil {
			return m, m.logListener.Listen()
		}
		return m, nil

	case configReloadedMsg:
		m = m.reloadConfig()
		return m, waitReload(m.reloadCh)

	case watcherClosedMsg:
		return m, nil
	}

	return m, nil
}

// handleMouse runs every mouse message through the gesture recognizer and
// dispatches the resulting occurrences.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}
	if m.showHelp {
		return m, nil
	}

	// Toolbar clicks flip activation through overlay hit callbacks, so
	// compare activation around the dispatch to know when to persist.
	before := m.activeToolSnapshot()
	for _, occ := range m.recognizer.Mouse(msg) {
		if err := m.dispatcher.Dispatch(occ); err != nil {
			log.ErrorErr(log.CatDispatch, "Dispatch failed", err, "occurrence", occ.Type)
		}
	}
	if !maps.Equal(before, m.activeToolSnapshot()) {
		m.persistActiveTools()
	}
	return m, nil
}

// handleKey resolves chrome keybindings first; anything unclaimed flows
// through the gesture recognizer to the dispatcher's key listeners.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The log overlay claims keys while visible, except its own toggle.
	if key.Matches(msg, m.keys.Logs) {
		if m.debug {
			m.logs = m.logs.Toggle()
		}
		return m, nil
	}
	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Pan):
		m.surface.ActivateExclusive(plot.ToolPan)
		m.persistActiveTools()

	case key.Matches(msg, m.keys.BoxZoom):
		m.surface.ActivateExclusive(plot.ToolBoxZoom)
		m.persistActiveTools()

	case key.Matches(msg, m.keys.WheelZoom):
		m.surface.ActivateExclusive(plot.ToolWheelZoom)
		m.persistActiveTools()

	case key.Matches(msg, m.keys.TapSelect):
		m.surface.ActivateExclusive(plot.ToolTapSelect)
		m.persistActiveTools()

	case key.Matches(msg, m.keys.Hover):
		m.toggleInspector(plot.ToolHover)

	case key.Matches(msg, m.keys.Crosshair):
		m.toggleInspector(plot.ToolCrosshair)

	case key.Matches(msg, m.keys.ResetView):
		m.plot.ResetView()

	case key.Matches(msg, m.keys.ToggleStatus):
		m.surface = m.surface.ToggleStatus()
		m = m.syncChrome()

	case key.Matches(msg, m.keys.ToggleLegend):
		m.surface = m.surface.ToggleLegend()
		m = m.syncChrome()

	default:
		for _, occ := range m.recognizer.Key(msg) {
			if err := m.dispatcher.Dispatch(occ); err != nil {
				log.ErrorErr(log.CatDispatch, "Dispatch failed", err, "key", occ.Key)
			}
		}
	}
	return m, nil
}

// syncChrome recomputes the plot frame and the hit tester's overlay set.
// Both depend on which chrome is visible, so every visibility change must
// run through here or hit-testing and data mapping drift from the render.
func (m Model) syncChrome() Model {
	m.surface = m.surface.SetSize(m.width, m.height)
	m.hits.SetOverlays(m.surface.Overlays()...)
	return m
}

// activeToolSnapshot maps gesture names to the active tool ID for every
// exclusive kind, in the shape the config file's tools.active section uses.
func (m Model) activeToolSnapshot() map[string]string {
	active := make(map[string]string)
	for _, kind := range input.Kinds() {
		if !kind.Exclusive() {
			continue
		}
		if id, ok := m.registry.ActiveID(kind); ok {
			active[string(kind)] = string(id)
		}
	}
	return active
}

// persistActiveTools writes the current activation back to the config file
// so tool choices survive restarts. No-op without a config path.
func (m Model) persistActiveTools() {
	if m.configPath == "" {
		return
	}
	if err := config.SaveActiveTools(m.configPath, m.activeToolSnapshot()); err != nil {
		log.Warn(log.CatConfig, "Persisting tool activation failed", "error", err)
	}
}

func (m Model) toggleInspector(id tools.ID) {
	if err := m.registry.SetEnabled(id, !m.registry.Enabled(id)); err != nil {
		log.Warn(log.CatTool, "Inspector toggle failed", "tool", id, "error", err)
	}
}

// reloadConfig re-reads the config file and applies what can change at
// runtime: chrome visibility, tool activation, and the baseline cursor.
// The dispatcher is rebuilt since it treats its baseline as immutable; the
// cursorSource indirection keeps the surface pointed at the replacement.
func (m Model) reloadConfig() Model {
	cfg, err := m.reloadFn()
	if err != nil {
		log.Warn(log.CatConfig, "Config reload failed, keeping previous", "error", err)
		return m
	}
	if err := cfg.Validate(); err != nil {
		log.Warn(log.CatConfig, "Reloaded config invalid, keeping previous", "error", err)
		return m
	}

	log.Info(log.CatConfig, "Config reloaded", "path", m.configPath)
	m.cfg = cfg
	m.surface = m.surface.SetChrome(cfg.UI.ShowStatusBar, cfg.UI.ShowToolbar, cfg.UI.ShowLegend)
	m = m.syncChrome()

	for _, kind := range input.Kinds() {
		if kind.Exclusive() {
			m.registry.Deactivate(kind)
		}
	}
	for _, id := range []tools.ID{plot.ToolHover, plot.ToolKeyNav} {
		if err := m.registry.SetEnabled(id, true); err != nil {
			log.Warn(log.CatConfig, "Tool re-enable failed", "tool", id, "error", err)
		}
	}
	if err := applyToolConfig(m.registry, cfg.Tools); err != nil {
		log.Warn(log.CatConfig, "Reloaded tool config rejected", "error", err)
	}

	m.cursors.d = dispatch.New(surfaceID, m.registry, m.hits, m.registry, m.broker, dispatch.Options{
		BaselineCursor: cfg.Cursor.Baseline,
		Tracer:         m.tracer,
	})
	m.dispatcher = m.cursors.d
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.surface.View()
	if m.showHelp {
		view = m.help.Overlay(view)
	}
	if m.logs.Visible() {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Center,
		}, m.logs.View(), view)
	}
	return m.mgr.Scan(view)
}

// Plot exposes the document model, for tests.
func (m Model) Plot() *plot.Plot { return m.plot }

// Registry exposes tool activation state, for tests.
func (m Model) Registry() *tools.Registry { return m.registry }

// Dispatcher exposes the current dispatcher, for tests.
func (m Model) Dispatcher() *dispatch.Dispatcher { return m.dispatcher }

// Close releases the watcher, the zone manager, and the log subscription.
func (m *Model) Close() error {
	if m.logCancel != nil {
		m.logCancel()
	}
	m.mgr.Close()
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
