package util

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// TimeProvider is a global time utility that handles timezone-aware time operations
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// InitializeTimeProvider initializes the global time provider with the specified timezone
func InitializeTimeProvider(timezone string) error {
	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	mu.Lock()
	globalTimeProvider = provider
	mu.Unlock()
	return nil
}

// GetTimeProvider returns the global time provider instance.
// If not initialized, it defaults to the Local timezone.
func GetTimeProvider() *TimeProvider {
	mu.Lock()
	defer mu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local}
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Europe/Berlin, Asia/Tokyo", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// Location returns the configured timezone
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	return time.Now().In(tp.Location())
}

// NowUnix returns the current time in whole Unix seconds
func (tp *TimeProvider) NowUnix() int64 {
	return time.Now().Unix()
}

// FormatUnix formats Unix seconds according to the layout in the configured timezone
func (tp *TimeProvider) FormatUnix(sec int64, layout string) string {
	return time.Unix(sec, 0).In(tp.Location()).Format(layout)
}

// ParseUnix parses a wall-clock string in the configured timezone into Unix seconds
func (tp *TimeProvider) ParseUnix(layout, value string) (int64, error) {
	t, err := time.ParseInLocation(layout, value, tp.Location())
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// ParseUnixReadings parses a wall-clock string and returns every instant it
// can name, ascending. Texts in the hour repeated by a backward offset change
// (DST fall-back) have two readings; all others have one.
func (tp *TimeProvider) ParseUnixReadings(layout, value string) ([]int64, error) {
	loc := tp.Location()
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return nil, err
	}

	readings := []int64{t.Unix()}
	_, offset := t.Zone()
	for _, shift := range []time.Duration{-6 * time.Hour, 6 * time.Hour} {
		_, other := t.Add(shift).Zone()
		if other == offset {
			continue
		}
		alt := t.Add(time.Duration(offset-other) * time.Second)
		if alt.Unix() != t.Unix() && alt.In(loc).Format(layout) == value {
			readings = append(readings, alt.Unix())
		}
	}
	sort.Slice(readings, func(i, j int) bool { return readings[i] < readings[j] })
	return readings, nil
}
