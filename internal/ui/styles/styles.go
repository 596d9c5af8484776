// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"} // Readouts, secondary info
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Hints, help text, footers

	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"} // Description/body text

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	// Overlay chrome
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#54A0FF"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Toolbar colors
	ToolActiveColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"}
	ToolDisabledColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}

	// Frame border around the plot canvas
	FrameBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BorderDefaultColor)

	// Toolbar buttons
	ToolButtonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(TextSecondaryColor)

	ToolButtonActiveStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(ToolActiveColor).
				Underline(true)

	ToolButtonDisabledStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(ToolDisabledColor).
				Strikethrough(true)

	// Legend
	LegendStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)

	LegendHiddenStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor).
				Strikethrough(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	StatusCursorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextPrimaryColor)

	StatusHintStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)
)
