package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plotline-dev/plotline/internal/app"
	"github.com/plotline-dev/plotline/internal/config"
	"github.com/plotline-dev/plotline/internal/events"
	"github.com/plotline-dev/plotline/internal/history"
	"github.com/plotline-dev/plotline/internal/log"
	"github.com/plotline-dev/plotline/internal/pubsub"
	"github.com/plotline-dev/plotline/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "plotline",
	Short:   "An interactive terminal plotting surface",
	Long:    `An interactive terminal plot viewer with pan, zoom, selection and inspection tools, driven by mouse gestures and keybindings.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/plotline/config.yaml)")
	rootCmd.Flags().StringP("data", "d", "",
		"data file with series to plot (YAML)")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging and the in-app log overlay")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable config hot reload on file changes")
	rootCmd.Flags().Bool("record-history", false,
		"record interaction events to the history database")

	_ = viper.BindPFlag("data_file", rootCmd.Flags().Lookup("data"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.show_toolbar", defaults.UI.ShowToolbar)
	viper.SetDefault("ui.show_legend", defaults.UI.ShowLegend)
	viper.SetDefault("ui.markdown_style", defaultMarkdownStyle())
	viper.SetDefault("cursor.baseline", defaults.Cursor.Baseline)
	viper.SetDefault("tools.active", defaults.Tools.Active)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .plotline/config.yaml (current directory)
		// 2. ~/.config/plotline/config.yaml (user config)
		if _, err := os.Stat(".plotline/config.yaml"); err == nil {
			viper.SetConfigFile(".plotline/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "plotline"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .plotline/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".plotline/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// defaultMarkdownStyle picks the glamour style matching the terminal
// background.
func defaultMarkdownStyle() string {
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// reloadConfig re-reads the active config file, for hot reload.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("re-reading config: %w", err)
	}
	var c config.Config
	if err := viper.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return c, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	// Flag overrides (negated logic for auto reload)
	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}
	if record, _ := cmd.Flags().GetBool("record-history"); record {
		cfg.History.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	debug := os.Getenv("PLOTLINE_DEBUG") != "" || debugFlag
	if debug {
		logPath := os.Getenv("PLOTLINE_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.InitWithTeaLog(logPath, "plotline")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "Plotline starting", "debug", true, "logPath", logPath)
	}

	provider, err := tracing.NewProvider(tracerConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	broker := pubsub.NewBroker[events.Notification]()
	defer broker.Close()

	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	defer stopRecorder()
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			path = config.DefaultHistoryPath()
		}
		db, err := history.NewDB(path)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer func() { _ = db.Close() }()
		history.NewRecorder(db).Start(recorderCtx, broker)
	}

	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		configFilePath = ".plotline/config.yaml"
	}

	model, err := app.New(app.Options{
		Config:       cfg,
		ConfigPath:   configFilePath,
		Broker:       broker,
		Tracer:       provider.Tracer(),
		Debug:        debug,
		ReloadConfig: reloadConfig,
	})
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		// All-motion reporting: hover inspectors need moves with no
		// button held.
		tea.WithMouseAllMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// tracerConfig maps the file config onto the tracing provider's config,
// filling derived defaults.
func tracerConfig(tc config.TracingConfig) tracing.Config {
	out := tracing.DefaultConfig()
	out.Enabled = tc.Enabled
	if tc.Exporter != "" {
		out.Exporter = tc.Exporter
	}
	out.FilePath = tc.FilePath
	if out.FilePath == "" {
		out.FilePath = config.DefaultTracesFilePath()
	}
	if tc.OTLPEndpoint != "" {
		out.OTLPEndpoint = tc.OTLPEndpoint
	}
	out.SampleRate = tc.SampleRate
	return out
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
