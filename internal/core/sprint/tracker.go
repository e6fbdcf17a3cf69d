// Package sprint holds the activity state machine and the render overlay.
// Neither type performs I/O: they hand closed or checkpointed intervals back
// to the caller, which decides when to persist them.
package sprint

import (
	"time"

	"github.com/penwyp/go-project-timer/internal/core/model"
)

// State is the activity state of a tracker
type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Tracker decides when the user is active and owns the single open working sprint
type Tracker struct {
	timeout      int64
	state        State
	sessionStart model.Timestamp
	sprintStart  *model.Timestamp
	lastActivity *model.Timestamp
}

// NewTracker creates an inactive tracker. sessionStart is the attach time.
func NewTracker(inactivityTimeout time.Duration, sessionStart model.Timestamp) *Tracker {
	return &Tracker{
		timeout:      int64(inactivityTimeout / time.Second),
		state:        Inactive,
		sessionStart: sessionStart,
	}
}

// OnActivity records user (or render) activity at now.
// It reports true when the activity opened a new sprint.
func (t *Tracker) OnActivity(now model.Timestamp) bool {
	if t.lastActivity != nil && now < *t.lastActivity {
		// Clock stepped backwards; keep the later instant so the sprint never shrinks.
		now = *t.lastActivity
	}
	t.lastActivity = &now

	if t.state == Active {
		return false
	}
	t.state = Active
	start := now
	t.sprintStart = &start
	return true
}

// OnTick runs the inactivity check. While rendering the check is suppressed.
// When the idle gap exceeds the timeout the tracker turns inactive and returns
// the closed sprint, which ends at the last activity rather than at now.
func (t *Tracker) OnTick(now model.Timestamp, rendering bool) (model.Interval, bool) {
	if t.state != Active || rendering {
		return model.Interval{}, false
	}
	if now.Sub(*t.lastActivity) <= t.timeout {
		return model.Interval{}, false
	}
	return t.close(), true
}

// Checkpoint returns the open sprint measured up to the last activity
func (t *Tracker) Checkpoint() (model.Interval, bool) {
	if t.state != Active {
		return model.Interval{}, false
	}
	return model.NewInterval("", model.KindWorking, *t.sprintStart, *t.lastActivity), true
}

// Close ends the open sprint at the last activity, as on detach
func (t *Tracker) Close() (model.Interval, bool) {
	if t.state != Active {
		return model.Interval{}, false
	}
	return t.close(), true
}

func (t *Tracker) close() model.Interval {
	iv := model.NewInterval("", model.KindWorking, *t.sprintStart, *t.lastActivity)
	t.state = Inactive
	t.sprintStart = nil
	t.lastActivity = nil
	return iv
}

func (t *Tracker) State() State {
	return t.state
}

func (t *Tracker) SessionStart() model.Timestamp {
	return t.sessionStart
}

// SprintStart returns the start of the open sprint, if any
func (t *Tracker) SprintStart() (model.Timestamp, bool) {
	if t.sprintStart == nil {
		return 0, false
	}
	return *t.sprintStart, true
}

// LastActivity returns the time of the last activity of the open sprint, if any
func (t *Tracker) LastActivity() (model.Timestamp, bool) {
	if t.lastActivity == nil {
		return 0, false
	}
	return *t.lastActivity, true
}
