package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/penwyp/go-project-timer/internal/config"
	"github.com/penwyp/go-project-timer/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Configuration file, defaults to ~/.go-project-timer/config.yaml
	cfgFile string

	// Loaded by the persistent pre-run of every subcommand
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "go-project-timer",
		Short: "Track active time spent on project files",
		Long: `go-project-timer measures how long you actively work on (or render) a project file.

Saving the file or pressing a key in the tracker counts as activity. After the
inactivity timeout the open sprint is closed at the last activity, so idle time
is never credited. Sprints are merged into project_timer_log.json next to the
project file.

Examples:
  go-project-timer track scene.blend                       # Track a project file
  go-project-timer track scene.blend --inactivity-timeout 5m
  go-project-timer report                                  # Report the current directory
  go-project-timer report ~/shots ~/props --output json    # Report several projects`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default ~/.go-project-timer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().String("timezone", "Local",
		"Timezone for log timestamps (e.g., Asia/Shanghai, UTC)")
}

// setup loads configuration with the running command's flags and initializes logging
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	logLevel := cfg.Log.Level
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(cfg.Log.File)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug, util.LogFormat(cfg.Log.Format)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}
	return nil
}

func Execute() error {
	defer util.CloseLogger()
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	path = config.ExpandPath(path)
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// useColor reports whether colored output suits w
func useColor(w io.Writer) bool {
	if cfg != nil && !cfg.Display.Color {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
