package model

import (
	"fmt"
	"strconv"

	"github.com/penwyp/go-project-timer/internal/core/constants"
	"github.com/penwyp/go-project-timer/internal/util"
)

// Timestamp is a wall-clock instant in whole Unix seconds.
// In JSON it is the local time text YYYY-MM-DDTHH:MM:SS of the configured timezone.
type Timestamp int64

// Sub returns t - other in seconds
func (t Timestamp) Sub(other Timestamp) int64 {
	return int64(t) - int64(other)
}

// Add returns t shifted by sec seconds
func (t Timestamp) Add(sec int64) Timestamp {
	return t + Timestamp(sec)
}

func (t Timestamp) String() string {
	return util.GetTimeProvider().FormatUnix(int64(t), constants.TimestampLayout)
}

// ParseTimestamp parses the persisted local time text
func ParseTimestamp(s string) (Timestamp, error) {
	sec, err := util.GetTimeProvider().ParseUnix(constants.TimestampLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return Timestamp(sec), nil
}

// Readings returns every instant the text of t names, ascending. Only texts
// inside a repeated DST hour have more than one.
func (t Timestamp) Readings() []Timestamp {
	secs, err := util.GetTimeProvider().ParseUnixReadings(constants.TimestampLayout, t.String())
	if err != nil || len(secs) == 0 {
		return []Timestamp{t}
	}
	out := make([]Timestamp, len(secs))
	for i, sec := range secs {
		out[i] = Timestamp(sec)
	}
	return out
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp must be a string, got %s", data)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
