// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application chrome keybindings. Arrow keys, home, and
// esc are deliberately absent: those flow through the event dispatcher to
// key-listening tools instead.
type KeyMap struct {
	// Tool activation
	Pan       key.Binding
	BoxZoom   key.Binding
	WheelZoom key.Binding
	TapSelect key.Binding
	Hover     key.Binding
	Crosshair key.Binding

	// View
	ResetView    key.Binding
	ToggleStatus key.Binding
	ToggleLegend key.Binding

	// General
	Help key.Binding
	Logs key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Tool activation
		Pan: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pan tool"),
		),
		BoxZoom: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "box zoom tool"),
		),
		WheelZoom: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wheel zoom tool"),
		),
		TapSelect: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "select tool"),
		),
		Hover: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle hover inspector"),
		),
		Crosshair: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle crosshair"),
		),

		// View
		ResetView: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset view"),
		),
		ToggleStatus: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle status bar"),
		),
		ToggleLegend: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "toggle legend"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle logs"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pan, k.BoxZoom, k.WheelZoom, k.TapSelect, k.Hover, k.Crosshair}, // Tools
		{k.ResetView, k.ToggleStatus, k.ToggleLegend},                      // View
		{k.Help, k.Logs, k.Quit},                                           // General
	}
}
