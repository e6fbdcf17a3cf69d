package constants

import "time"

const (
	// Activity detection
	DefaultInactivityTimeout = 180 * time.Second
	DefaultTickInterval      = 1 * time.Second
	DefaultSaveInterval      = 10 * time.Second

	// TimestampLayout is the persisted sprint timestamp format, local time, second precision
	TimestampLayout = "2006-01-02T15:04:05"

	// MinutesPrecision is the number of decimals kept for every minutes value in the log
	MinutesPrecision = 2
)

const (
	// Log storage
	DefaultLogFileName  = "project_timer_log.json"
	LockFileSuffix      = ".lock"
	DefaultLockRetries  = 5
	DefaultLockRetryGap = 100 * time.Millisecond

	// DefaultRenderMarkerSuffix names the file hosts create next to the project while rendering
	DefaultRenderMarkerSuffix = ".rendering"
)
