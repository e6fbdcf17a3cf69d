package track

import (
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-project-timer/internal/core/constants"
	"github.com/penwyp/go-project-timer/internal/data/logstore"
)

// TrackConfig contains configuration for the track command
type TrackConfig struct {
	// Project file being tracked
	ProjectPath string

	// Activity detection
	InactivityTimeout time.Duration
	TickInterval      time.Duration
	SaveInterval      time.Duration

	// Render marker file is ProjectPath + RenderMarkerSuffix; empty disables it
	RenderMarkerSuffix string
	NoKeyboard         bool

	// Persistence
	LogFileName    string
	LockRetries    int
	LockRetryDelay time.Duration

	// Display settings
	Timezone string
	Color    bool
}

// Validate fills defaults and rejects unusable values
func (c *TrackConfig) Validate() error {
	if c.ProjectPath == "" {
		return errors.New("project file is required")
	}
	if c.InactivityTimeout == 0 {
		c.InactivityTimeout = constants.DefaultInactivityTimeout
	}
	if c.TickInterval == 0 {
		c.TickInterval = constants.DefaultTickInterval
	}
	if c.SaveInterval == 0 {
		c.SaveInterval = constants.DefaultSaveInterval
	}
	if c.LogFileName == "" {
		c.LogFileName = constants.DefaultLogFileName
	}
	if c.LockRetryDelay == 0 {
		c.LockRetryDelay = constants.DefaultLockRetryGap
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}

	if c.InactivityTimeout < time.Second {
		return fmt.Errorf("inactivity timeout must be at least 1s, got %s", c.InactivityTimeout)
	}
	if c.TickInterval < time.Second {
		return fmt.Errorf("tick interval must be at least 1s, got %s", c.TickInterval)
	}
	if c.SaveInterval < 0 {
		return fmt.Errorf("save interval must not be negative, got %s", c.SaveInterval)
	}
	if c.LockRetries < 0 {
		return fmt.Errorf("lock retries must not be negative, got %d", c.LockRetries)
	}
	return nil
}

// StoreOptions returns the log store settings of the config
func (c *TrackConfig) StoreOptions() logstore.Options {
	return logstore.Options{
		FileName:       c.LogFileName,
		LockRetries:    c.LockRetries,
		LockRetryDelay: c.LockRetryDelay,
	}
}
