package model

import "sort"

// FileTotals is the derived per-file aggregate
type FileTotals struct {
	WorkMinutes   float64 `json:"worktime"`
	RenderMinutes float64 `json:"rendertime"`
}

// Total is work plus render minutes
func (f FileTotals) Total() float64 {
	return RoundMinutes(f.WorkMinutes + f.RenderMinutes)
}

// LogRecord is the persisted time log of one project directory.
// Sprints is authoritative; TotalMinutes and Files are always recomputed from it.
type LogRecord struct {
	TotalMinutes float64               `json:"total_minutes"`
	Files        map[string]FileTotals `json:"individual_files"`
	Sprints      []Interval            `json:"all_sprints"`
}

// NewLogRecord returns an empty record
func NewLogRecord() *LogRecord {
	return &LogRecord{
		Files:   make(map[string]FileTotals),
		Sprints: make([]Interval, 0),
	}
}

// Normalize replaces nil collections left by decoding sparse documents
func (r *LogRecord) Normalize() {
	if r.Files == nil {
		r.Files = make(map[string]FileTotals)
	}
	if r.Sprints == nil {
		r.Sprints = make([]Interval, 0)
	}
}

// Find returns the index of the sprint with the given identity
func (r *LogRecord) Find(key IntervalKey) (int, bool) {
	for i := range r.Sprints {
		if r.Sprints[i].Key() == key {
			return i, true
		}
	}
	return -1, false
}

// Upsert replaces the end and minutes of the sprint sharing iv's identity,
// or appends iv. It reports whether an existing sprint was replaced.
func (r *LogRecord) Upsert(iv Interval) bool {
	if i, ok := r.Find(iv.Key()); ok {
		r.Sprints[i].EndTime = iv.EndTime
		r.Sprints[i].MinutesElapsed = iv.MinutesElapsed
		return true
	}
	r.Sprints = append(r.Sprints, iv)
	return false
}

// Append adds closed sprints without identity matching
func (r *LogRecord) Append(ivs ...Interval) {
	r.Sprints = append(r.Sprints, ivs...)
}

// Recompute rebuilds every aggregate from the sprint list
func (r *LogRecord) Recompute() {
	sums := make(map[string]FileTotals)
	for _, iv := range r.Sprints {
		totals := sums[iv.File]
		switch iv.Kind {
		case KindWorking:
			totals.WorkMinutes += iv.MinutesElapsed
		case KindRendering:
			totals.RenderMinutes += iv.MinutesElapsed
		}
		sums[iv.File] = totals
	}

	var total float64
	for file, totals := range sums {
		totals.WorkMinutes = RoundMinutes(totals.WorkMinutes)
		totals.RenderMinutes = RoundMinutes(totals.RenderMinutes)
		sums[file] = totals
		total += totals.WorkMinutes + totals.RenderMinutes
	}

	r.Files = sums
	r.TotalMinutes = RoundMinutes(total)
}

// FileNames returns the files with aggregates, sorted
func (r *LogRecord) FileNames() []string {
	names := make([]string, 0, len(r.Files))
	for name := range r.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SprintsFor returns the sprints of one file in log order
func (r *LogRecord) SprintsFor(file string) []Interval {
	var out []Interval
	for _, iv := range r.Sprints {
		if iv.File == file {
			out = append(out, iv)
		}
	}
	return out
}
