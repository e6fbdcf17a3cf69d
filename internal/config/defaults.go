// Package config provides configuration loading and defaults for go-project-timer.
package config

import (
	"github.com/penwyp/go-project-timer/internal/core/constants"
)

// DefaultConfigDir is the default location for configuration and logs.
const DefaultConfigDir = "~/.go-project-timer"

// DefaultLogFile is the application log written while tracking.
const DefaultLogFile = DefaultConfigDir + "/logs/app.log"

// EnvPrefix prefixes environment overrides, e.g. PROJECT_TIMER_SAVE_INTERVAL.
const EnvPrefix = "PROJECT_TIMER"

// DefaultLock holds the default time log lock settings.
var DefaultLock = Lock{
	Retries:    constants.DefaultLockRetries,
	RetryDelay: constants.DefaultLockRetryGap,
}

// DefaultDisplay holds the default output preferences.
var DefaultDisplay = Display{
	Color: true,
}

// DefaultLog holds the default application log settings.
var DefaultLog = Log{
	Level:  "info",
	File:   DefaultLogFile,
	Format: "text",
}
