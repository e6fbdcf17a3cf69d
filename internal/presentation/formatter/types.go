package formatter

import (
	"io"
	"path/filepath"

	"github.com/penwyp/go-project-timer/internal/core/model"
)

// ProjectLog is the time log of one project directory
type ProjectLog struct {
	Dir    string
	Record *model.LogRecord
}

// Report is the input of every formatter
type Report struct {
	Projects    []ProjectLog
	ShowSprints bool
}

// Formatter writes a report in one output format
type Formatter interface {
	Format(w io.Writer, report Report) error
}

// FileRow is the per-file line shared by the tabular formats
type FileRow struct {
	Dir           string  `json:"dir"`
	File          string  `json:"file"`
	WorkMinutes   float64 `json:"worktime"`
	RenderMinutes float64 `json:"rendertime"`
	TotalMinutes  float64 `json:"total_minutes"`
	Sprints       int     `json:"sprints"`
}

// Rows flattens the report into file rows, projects in input order and
// files by name
func (r Report) Rows() []FileRow {
	var rows []FileRow
	for _, p := range r.Projects {
		if p.Record == nil {
			continue
		}
		for _, name := range p.Record.FileNames() {
			totals := p.Record.Files[name]
			rows = append(rows, FileRow{
				Dir:           p.Dir,
				File:          name,
				WorkMinutes:   totals.WorkMinutes,
				RenderMinutes: totals.RenderMinutes,
				TotalMinutes:  totals.Total(),
				Sprints:       len(p.Record.SprintsFor(name)),
			})
		}
	}
	return rows
}

// Totals sums work, render and grand totals over all projects
func (r Report) Totals() (work, render, total float64) {
	for _, p := range r.Projects {
		if p.Record == nil {
			continue
		}
		for _, totals := range p.Record.Files {
			work += totals.WorkMinutes
			render += totals.RenderMinutes
		}
		total += p.Record.TotalMinutes
	}
	return model.RoundMinutes(work), model.RoundMinutes(render), model.RoundMinutes(total)
}

// New returns the formatter for an output name. Unknown names fall back to table.
func New(output string, color bool) Formatter {
	switch output {
	case "json":
		return NewJSONFormatter()
	case "csv":
		return NewCSVFormatter()
	case "summary":
		if !color {
			return NewSummaryFormatter().Plain()
		}
		return NewSummaryFormatter()
	default:
		return NewTableFormatter()
	}
}

// IsValidOutput reports whether output names a known format
func IsValidOutput(output string) bool {
	switch output {
	case "table", "json", "csv", "summary":
		return true
	}
	return false
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return filepath.Base(dir)
}
