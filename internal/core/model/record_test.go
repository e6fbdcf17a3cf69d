package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertConsistent(t *testing.T, r *LogRecord) {
	t.Helper()

	var total float64
	for file, totals := range r.Files {
		var work, render float64
		for _, iv := range r.SprintsFor(file) {
			if iv.Kind == KindWorking {
				work += iv.MinutesElapsed
			} else {
				render += iv.MinutesElapsed
			}
		}
		assert.InDelta(t, work, totals.WorkMinutes, 1e-9, "work minutes of %s", file)
		assert.InDelta(t, render, totals.RenderMinutes, 1e-9, "render minutes of %s", file)
		total += totals.WorkMinutes + totals.RenderMinutes
	}
	assert.InDelta(t, total, r.TotalMinutes, 1e-9)
}

func TestLogRecord_UpsertReplacesInPlace(t *testing.T) {
	r := NewLogRecord()

	assert.False(t, r.Upsert(NewInterval("a.blend", KindWorking, base, base.Add(10))))
	assert.True(t, r.Upsert(NewInterval("a.blend", KindWorking, base, base.Add(20))))
	r.Recompute()

	require.Len(t, r.Sprints, 1)
	assert.Equal(t, base.Add(20), r.Sprints[0].EndTime)
	assert.Equal(t, 0.33, r.Sprints[0].MinutesElapsed)
	assert.Equal(t, 0.33, r.TotalMinutes)
}

func TestLogRecord_IdentityIncludesKind(t *testing.T) {
	r := NewLogRecord()

	r.Upsert(NewInterval("a.blend", KindWorking, base, base.Add(60)))
	r.Upsert(NewInterval("a.blend", KindRendering, base, base.Add(120)))
	r.Upsert(NewInterval("b.blend", KindWorking, base, base.Add(180)))
	r.Recompute()

	require.Len(t, r.Sprints, 3)
	assert.Equal(t, FileTotals{WorkMinutes: 1, RenderMinutes: 2}, r.Files["a.blend"])
	assert.Equal(t, FileTotals{WorkMinutes: 3}, r.Files["b.blend"])
	assert.Equal(t, 6.0, r.TotalMinutes)
	assert.Equal(t, []string{"a.blend", "b.blend"}, r.FileNames())
	assert.Equal(t, 3.0, r.Files["a.blend"].Total())
}

func TestLogRecord_RecomputeDropsStaleAggregates(t *testing.T) {
	r := &LogRecord{
		TotalMinutes: 999,
		Files:        map[string]FileTotals{"ghost.blend": {WorkMinutes: 999}},
		Sprints:      []Interval{NewInterval("a.blend", KindWorking, base, base.Add(30))},
	}
	r.Recompute()

	assert.NotContains(t, r.Files, "ghost.blend")
	assert.Equal(t, 0.5, r.TotalMinutes)
}

func TestLogRecord_Normalize(t *testing.T) {
	r := &LogRecord{}
	r.Normalize()
	assert.NotNil(t, r.Files)
	assert.NotNil(t, r.Sprints)
}

func TestLogRecord_AggregatesStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	files := []string{"a.blend", "b.blend", "c.blend"}
	kinds := []Kind{KindWorking, KindRendering}
	r := NewLogRecord()

	for i := 0; i < 500; i++ {
		start := base.Add(int64(rng.Intn(50)) * 60)
		iv := NewInterval(files[rng.Intn(len(files))], kinds[rng.Intn(2)], start, start.Add(int64(rng.Intn(4000))))
		if rng.Intn(3) == 0 {
			r.Append(iv)
		} else {
			r.Upsert(iv)
		}
		r.Recompute()
		assertConsistent(t, r)
	}
}
