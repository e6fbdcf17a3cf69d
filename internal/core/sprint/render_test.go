package sprint

import (
	"testing"

	"github.com/penwyp/go-project-timer/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOverlay_StartComplete(t *testing.T) {
	o := NewRenderOverlay()
	assert.False(t, o.Rendering())

	o.OnRenderStart(100)
	assert.True(t, o.Rendering())
	start, ok := o.RenderStart()
	require.True(t, ok)
	assert.Equal(t, model.Timestamp(100), start)

	iv, ok := o.OnRenderComplete(400)
	require.True(t, ok)
	assert.False(t, o.Rendering())
	_, ok = o.RenderStart()
	assert.False(t, ok)

	assert.Equal(t, model.KindRendering, iv.Kind)
	assert.Equal(t, model.Timestamp(100), iv.StartTime)
	assert.Equal(t, model.Timestamp(400), iv.EndTime)
	assert.Equal(t, 5.0, iv.MinutesElapsed)
	assert.Equal(t, []model.Interval{iv}, o.Pending())
}

func TestRenderOverlay_ZeroLengthRenderIsDropped(t *testing.T) {
	o := NewRenderOverlay()
	o.OnRenderStart(50)

	_, ok := o.OnRenderComplete(50)
	assert.False(t, ok)
	assert.False(t, o.Rendering())
	assert.Empty(t, o.Pending())
}

func TestRenderOverlay_CompleteWithoutStart(t *testing.T) {
	o := NewRenderOverlay()
	_, ok := o.OnRenderComplete(10)
	assert.False(t, ok)
	assert.Empty(t, o.Pending())
}

func TestRenderOverlay_RepeatedStartRestartsAtNow(t *testing.T) {
	o := NewRenderOverlay()
	o.OnRenderStart(10)
	o.OnRenderStart(20)

	start, ok := o.RenderStart()
	require.True(t, ok)
	assert.Equal(t, model.Timestamp(20), start)
	assert.True(t, o.Rendering())

	iv, ok := o.OnRenderComplete(70)
	require.True(t, ok)
	assert.Equal(t, model.Timestamp(20), iv.StartTime)

	pending := o.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, model.Timestamp(10), pending[0].StartTime)
	assert.Equal(t, model.Timestamp(20), pending[0].EndTime)
	assert.Equal(t, model.Timestamp(70), pending[1].EndTime)
	assert.Equal(t, 1.0, pending[0].MinutesElapsed+pending[1].MinutesElapsed, "render time is split, not duplicated")
}

func TestRenderOverlay_RepeatedStartAtSameInstant(t *testing.T) {
	o := NewRenderOverlay()
	o.OnRenderStart(10)
	o.OnRenderStart(10)

	_, ok := o.OnRenderComplete(40)
	require.True(t, ok)
	assert.Len(t, o.Pending(), 1, "zero-length first part is dropped")
}

func TestRenderOverlay_Ack(t *testing.T) {
	o := NewRenderOverlay()
	for _, span := range [][2]model.Timestamp{{0, 60}, {100, 160}, {200, 260}} {
		o.OnRenderStart(span[0])
		o.OnRenderComplete(span[1])
	}
	require.Len(t, o.Pending(), 3)

	// Pending returns a copy
	snapshot := o.Pending()
	snapshot[0].File = "mutated"
	assert.Equal(t, "", o.Pending()[0].File)

	o.Ack(0)
	assert.Len(t, o.Pending(), 3)

	o.Ack(2)
	pending := o.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, model.Timestamp(200), pending[0].StartTime)

	o.Ack(5)
	assert.Empty(t, o.Pending())
}
