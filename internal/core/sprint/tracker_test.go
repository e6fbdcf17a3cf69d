package sprint

import (
	"testing"
	"time"

	"github.com/penwyp/go-project-timer/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timeout = 180 * time.Second

func TestTracker_StartsInactive(t *testing.T) {
	tr := NewTracker(timeout, 5)

	assert.Equal(t, Inactive, tr.State())
	assert.Equal(t, model.Timestamp(5), tr.SessionStart())
	_, open := tr.SprintStart()
	assert.False(t, open)
	_, ok := tr.Checkpoint()
	assert.False(t, ok)
	_, closed := tr.OnTick(1000, false)
	assert.False(t, closed)
}

func TestTracker_ActivityOpensOneSprint(t *testing.T) {
	tr := NewTracker(timeout, 0)

	assert.True(t, tr.OnActivity(10))
	assert.False(t, tr.OnActivity(20))
	assert.False(t, tr.OnActivity(30))

	assert.Equal(t, Active, tr.State())
	start, _ := tr.SprintStart()
	last, _ := tr.LastActivity()
	assert.Equal(t, model.Timestamp(10), start)
	assert.Equal(t, model.Timestamp(30), last)

	iv, ok := tr.Checkpoint()
	require.True(t, ok)
	assert.Equal(t, model.KindWorking, iv.Kind)
	assert.Equal(t, model.Timestamp(10), iv.StartTime)
	assert.Equal(t, model.Timestamp(30), iv.EndTime)
	assert.Equal(t, 0.33, iv.MinutesElapsed)
}

func TestTracker_IdleGapExcludedFromSprint(t *testing.T) {
	tr := NewTracker(timeout, 0)
	tr.OnActivity(0)

	_, closed := tr.OnTick(180, false)
	assert.False(t, closed, "gap equal to the timeout keeps the sprint open")

	iv, closed := tr.OnTick(181, false)
	require.True(t, closed)
	assert.Equal(t, model.Timestamp(0), iv.StartTime)
	assert.Equal(t, model.Timestamp(0), iv.EndTime, "sprint ends at the last activity, not at detection")
	assert.Equal(t, 0.0, iv.MinutesElapsed)
	assert.True(t, iv.IsEmpty())

	assert.Equal(t, Inactive, tr.State())
	_, open := tr.SprintStart()
	assert.False(t, open)
	_, seen := tr.LastActivity()
	assert.False(t, seen)
}

func TestTracker_IdleCloseCreditsOnlyActiveSpan(t *testing.T) {
	tr := NewTracker(timeout, 0)
	tr.OnActivity(100)
	tr.OnActivity(160)
	tr.OnActivity(400)

	for now := model.Timestamp(401); now <= 580; now++ {
		_, closed := tr.OnTick(now, false)
		require.False(t, closed, "closed too early at %d", now)
	}

	iv, closed := tr.OnTick(581, false)
	require.True(t, closed)
	assert.Equal(t, model.Timestamp(100), iv.StartTime)
	assert.Equal(t, model.Timestamp(400), iv.EndTime)
	assert.Equal(t, 5.0, iv.MinutesElapsed)
}

func TestTracker_RenderingSuppressesInactivity(t *testing.T) {
	tr := NewTracker(timeout, 0)
	tr.OnActivity(0)

	for now := model.Timestamp(1); now <= 500; now++ {
		_, closed := tr.OnTick(now, true)
		require.False(t, closed)
		require.Equal(t, Active, tr.State())
	}

	// Once rendering stops the idle check applies again
	_, closed := tr.OnTick(501, false)
	assert.True(t, closed)
}

func TestTracker_NewSprintAfterInactivity(t *testing.T) {
	tr := NewTracker(timeout, 0)
	tr.OnActivity(0)
	tr.OnActivity(50)
	_, closed := tr.OnTick(300, false)
	require.True(t, closed)

	assert.True(t, tr.OnActivity(1000))
	start, _ := tr.SprintStart()
	assert.Equal(t, model.Timestamp(1000), start)
}

func TestTracker_Close(t *testing.T) {
	tr := NewTracker(timeout, 0)
	_, ok := tr.Close()
	assert.False(t, ok)

	tr.OnActivity(10)
	tr.OnActivity(70)
	iv, ok := tr.Close()
	require.True(t, ok)
	assert.Equal(t, model.NewInterval("", model.KindWorking, 10, 70), iv)
	assert.Equal(t, Inactive, tr.State())
}

func TestTracker_ClockGoingBackwardsNeverShrinksSprint(t *testing.T) {
	tr := NewTracker(timeout, 0)
	tr.OnActivity(100)
	tr.OnActivity(90)

	last, _ := tr.LastActivity()
	assert.Equal(t, model.Timestamp(100), last)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "inactive", Inactive.String())
}
