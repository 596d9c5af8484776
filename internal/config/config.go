// Package config provides configuration types and defaults for plotline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plotline-dev/plotline/internal/log"
)

// Config holds all configuration options for plotline.
type Config struct {
	DataFile   string          `mapstructure:"data_file"`
	AutoReload bool            `mapstructure:"auto_reload"`
	UI         UIConfig        `mapstructure:"ui"`
	Cursor     CursorConfig    `mapstructure:"cursor"`
	Tools      ToolsConfig     `mapstructure:"tools"`
	History    HistoryConfig   `mapstructure:"history"`
	Tracing    TracingConfig   `mapstructure:"tracing"`
	Flags      map[string]bool `mapstructure:"flags"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	ShowToolbar   bool   `mapstructure:"show_toolbar"`
	ShowLegend    bool   `mapstructure:"show_legend"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// CursorConfig holds pointer cursor configuration.
type CursorConfig struct {
	// Baseline is the cursor shown when the pointer is outside the plot
	// frame and nothing overrides it. Default: "default".
	Baseline string `mapstructure:"baseline"`
}

// ToolsConfig configures which tools start enabled and which tool owns each
// exclusive gesture at startup.
type ToolsConfig struct {
	// Active maps a gesture name to the tool that starts active for it,
	// e.g. pan: box_zoom. Gestures without an entry start with no active
	// tool.
	Active map[string]string `mapstructure:"active"`

	// Disabled lists tools that start disabled.
	Disabled []string `mapstructure:"disabled"`
}

// HistoryConfig configures the interaction history recorder.
type HistoryConfig struct {
	// Enabled controls whether events are recorded. Default: false.
	Enabled bool `mapstructure:"enabled"`

	// Path is the sqlite database file.
	// Default: ~/.config/plotline/history.db
	Path string `mapstructure:"path"`
}

// TracingConfig holds distributed tracing configuration for event dispatch.
type TracingConfig struct {
	// Enabled controls whether tracing is active. Default: false.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/plotline/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// exclusiveGestures are the gesture names tools.active may key on.
var exclusiveGestures = map[string]bool{
	"tap":       true,
	"doubletap": true,
	"press":     true,
	"pan":       true,
	"pinch":     true,
	"rotate":    true,
	"scroll":    true,
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/plotline/traces/traces.jsonl or empty string if the home
// dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "plotline", "traces", "traces.jsonl")
}

// DefaultHistoryPath returns the default path for the interaction history
// database, or empty string if the home dir is unavailable.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "plotline", "history.db")
}

// ValidateCursor checks cursor configuration for errors.
func ValidateCursor(c CursorConfig) error {
	switch c.Baseline {
	case "", "default", "crosshair", "pointer", "move", "grab", "text":
		return nil
	default:
		return fmt.Errorf("cursor.baseline: unknown cursor %q", c.Baseline)
	}
}

// ValidateTools checks tool configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTools(t ToolsConfig) error {
	for gesture, tool := range t.Active {
		if !exclusiveGestures[gesture] {
			return fmt.Errorf("tools.active: %q is not an exclusive gesture", gesture)
		}
		if tool == "" {
			return fmt.Errorf("tools.active.%s: tool name is required", gesture)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the full configuration for errors.
func (c Config) Validate() error {
	if err := ValidateCursor(c.Cursor); err != nil {
		return err
	}
	if err := ValidateTools(c.Tools); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		UI: UIConfig{
			ShowStatusBar: true,
			ShowToolbar:   true,
			ShowLegend:    true,
			MarkdownStyle: "dark",
		},
		Cursor: CursorConfig{
			Baseline: "default",
		},
		Tools: ToolsConfig{
			Active: map[string]string{
				"pan":       "pan",
				"tap":       "tap_select",
				"doubletap": "tap_select",
				"scroll":    "wheel_zoom",
			},
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "", // Derived from config dir at runtime
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Plotline Configuration

# Path to a data file to plot on startup (optional)
# data_file: /path/to/data.yaml

# Reload this config file automatically when it changes on disk
auto_reload: true

# UI settings
ui:
  show_status_bar: true   # Status bar with cursor, readouts, and view range
  show_toolbar: true      # Tool activation toolbar above the plot
  show_legend: true       # Series legend overlay
  # markdown_style: dark  # Help overlay rendering: "dark" (default) or "light"

# Pointer cursor settings
cursor:
  baseline: default       # Cursor outside the plot frame: default, crosshair,
                          # pointer, move, grab, text

# Tool settings
# Each exclusive gesture (tap, doubletap, press, pan, pinch, rotate, scroll)
# can have at most one active tool. Inspectors (hover, crosshair, keynav)
# participate whenever enabled and need no activation.
tools:
  active:
    pan: pan              # pan or box_zoom
    tap: tap_select
    doubletap: tap_select
    scroll: wheel_zoom
  # disabled:
  #   - hover

# Interaction history
# Records dispatched notifications to a sqlite database for later inspection.
# history:
#   enabled: true
#   path: ~/.config/plotline/history.db

# Distributed tracing configuration
# Gives per-event visibility into dispatch: normalization, routing, cursor.
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/plotline/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Feature flags for experimental behavior
# flags:
#   wheel-invert: false       # Reverse wheel zoom direction
#   crosshair-default: false  # Start with the crosshair inspector enabled
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
