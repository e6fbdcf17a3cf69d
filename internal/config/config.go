package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-project-timer/internal/core/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the top-level go-project-timer configuration.
type Config struct {
	InactivityTimeout  time.Duration `mapstructure:"inactivity_timeout"`
	TickInterval       time.Duration `mapstructure:"tick_interval"`
	SaveInterval       time.Duration `mapstructure:"save_interval"`
	LogFileName        string        `mapstructure:"log_file_name"`
	RenderMarkerSuffix string        `mapstructure:"render_marker_suffix"`
	Timezone           string        `mapstructure:"timezone"`
	Lock               Lock          `mapstructure:"lock"`
	Display            Display       `mapstructure:"display"`
	Log                Log           `mapstructure:"log"`
}

// Lock configures the time log file lock.
type Lock struct {
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Display defines output preferences.
type Display struct {
	Color bool `mapstructure:"color"`
}

// Log configures the application log.
type Log struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"inactivity-timeout": "inactivity_timeout",
	"tick-interval":      "tick_interval",
	"save-interval":      "save_interval",
	"log-file-name":      "log_file_name",
	"render-marker":      "render_marker_suffix",
	"timezone":           "timezone",
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// Load reads configuration from the given path (or the default location),
// applies PROJECT_TIMER_* environment overrides and then any flags in
// flags that were set explicitly.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("inactivity_timeout", constants.DefaultInactivityTimeout)
	v.SetDefault("tick_interval", constants.DefaultTickInterval)
	v.SetDefault("save_interval", constants.DefaultSaveInterval)
	v.SetDefault("log_file_name", constants.DefaultLogFileName)
	v.SetDefault("render_marker_suffix", constants.DefaultRenderMarkerSuffix)
	v.SetDefault("timezone", "Local")
	v.SetDefault("lock.retries", DefaultLock.Retries)
	v.SetDefault("lock.retry_delay", DefaultLock.RetryDelay)
	v.SetDefault("display.color", DefaultDisplay.Color)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.file", DefaultLog.File)
	v.SetDefault("log.format", DefaultLog.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		v.AddConfigPath(ExpandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Missing config file is not an error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil && flag.Changed {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Log.File = ExpandPath(cfg.Log.File)
	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return ExpandPath(DefaultConfigDir)
}
