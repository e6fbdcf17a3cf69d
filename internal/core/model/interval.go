package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/penwyp/go-project-timer/internal/core/constants"
)

// Kind distinguishes user work from render execution
type Kind string

const (
	KindWorking   Kind = "working"
	KindRendering Kind = "rendering"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k == KindWorking || k == KindRendering
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("sprint type must be a string, got %s", data)
	}
	if !Kind(s).Valid() {
		return fmt.Errorf("unknown sprint type %q", s)
	}
	*k = Kind(s)
	return nil
}

var minutesScale = math.Pow10(constants.MinutesPrecision)

// RoundMinutes rounds to the fixed precision used everywhere in the log
func RoundMinutes(v float64) float64 {
	return math.Round(v*minutesScale) / minutesScale
}

// MinutesBetween is the credited duration of [start, end] in rounded minutes
func MinutesBetween(start, end Timestamp) float64 {
	if end <= start {
		return 0
	}
	return RoundMinutes(float64(end.Sub(start)) / 60)
}

// IntervalKey is the merge identity of an interval. Start is the persisted
// start text, so a start read back from disk matches the in-memory sprint
// even when the text names two instants.
type IntervalKey struct {
	File  string
	Kind  Kind
	Start string
}

// Interval is one contiguous span of credited time (a sprint)
type Interval struct {
	File           string    `json:"file"`
	Kind           Kind      `json:"type"`
	StartTime      Timestamp `json:"starttime"`
	EndTime        Timestamp `json:"endtime"`
	MinutesElapsed float64   `json:"minutes_elapsed"`
}

// NewInterval builds an interval with its minutes derived from the bounds
func NewInterval(file string, kind Kind, start, end Timestamp) Interval {
	return Interval{
		File:           file,
		Kind:           kind,
		StartTime:      start,
		EndTime:        end,
		MinutesElapsed: MinutesBetween(start, end),
	}
}

func (iv Interval) Key() IntervalKey {
	return IntervalKey{File: iv.File, Kind: iv.Kind, Start: iv.StartTime.String()}
}

// Seconds is the raw length of the interval
func (iv Interval) Seconds() int64 {
	return iv.EndTime.Sub(iv.StartTime)
}

// IsEmpty reports whether the interval has accumulated no time and must not be persisted
func (iv Interval) IsEmpty() bool {
	return iv.EndTime <= iv.StartTime
}

// WithFile returns a copy attributed to file
func (iv Interval) WithFile(file string) Interval {
	iv.File = file
	return iv
}

// Validate checks the invariants of an interval built in memory
func (iv Interval) Validate() error {
	if err := iv.validateShape(); err != nil {
		return err
	}
	if iv.EndTime < iv.StartTime {
		return fmt.Errorf("interval ends before it starts (%s < %s)", iv.EndTime, iv.StartTime)
	}
	return nil
}

// ResolveStored checks an interval decoded from a log. Bounds whose text
// falls in a repeated wall-clock hour are re-read as the earliest start and
// latest end, so a sprint written across a fall-back decodes in order.
// The stored minutes are kept as written.
func (iv Interval) ResolveStored() (Interval, error) {
	if err := iv.validateShape(); err != nil {
		return iv, err
	}
	if math.IsNaN(iv.MinutesElapsed) || iv.MinutesElapsed < 0 {
		return iv, fmt.Errorf("interval has invalid minutes_elapsed %v", iv.MinutesElapsed)
	}
	if iv.EndTime >= iv.StartTime {
		return iv, nil
	}

	starts := iv.StartTime.Readings()
	ends := iv.EndTime.Readings()
	start, end := starts[0], ends[len(ends)-1]
	if end < start {
		return iv, fmt.Errorf("interval ends before it starts (%s < %s)", iv.EndTime, iv.StartTime)
	}
	iv.StartTime, iv.EndTime = start, end
	return iv, nil
}

func (iv Interval) validateShape() error {
	if iv.File == "" {
		return fmt.Errorf("interval has no file")
	}
	if !iv.Kind.Valid() {
		return fmt.Errorf("interval has unknown type %q", iv.Kind)
	}
	return nil
}
