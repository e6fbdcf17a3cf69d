// Package session provides the cosmetic elapsed-time counter shown to the user.
// It is never persisted.
package session

import (
	"fmt"
	"time"
)

// DisplaySession counts the seconds of the currently open sprint for UI feedback
type DisplaySession struct {
	seconds int64
}

func NewDisplaySession() *DisplaySession {
	return &DisplaySession{}
}

// Reset zeroes the counter; called when a new sprint starts
func (d *DisplaySession) Reset() {
	d.seconds = 0
}

// Advance adds one tick worth of seconds while active
func (d *DisplaySession) Advance(tick time.Duration) {
	if tick <= 0 {
		return
	}
	d.seconds += int64(tick / time.Second)
}

func (d *DisplaySession) Seconds() int64 {
	return d.seconds
}

func (d *DisplaySession) String() string {
	return FormatElapsed(d.seconds)
}

// FormatElapsed renders MM:SS below one hour and H:MM from one hour on
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 3600 {
		return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/3600, (seconds%3600)/60)
}
