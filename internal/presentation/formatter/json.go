package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-project-timer/internal/core/model"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonProject struct {
	Dir          string           `json:"dir"`
	TotalMinutes float64          `json:"total_minutes"`
	Files        []FileRow        `json:"files"`
	Sprints      []model.Interval `json:"sprints,omitempty"`
}

type jsonReport struct {
	TotalMinutes float64       `json:"total_minutes"`
	Projects     []jsonProject `json:"projects"`
}

func (f *JSONFormatter) Format(w io.Writer, report Report) error {
	_, _, total := report.Totals()
	out := jsonReport{TotalMinutes: total, Projects: make([]jsonProject, 0, len(report.Projects))}

	rows := report.Rows()
	for _, p := range report.Projects {
		if p.Record == nil {
			continue
		}
		project := jsonProject{Dir: p.Dir, TotalMinutes: p.Record.TotalMinutes, Files: make([]FileRow, 0)}
		for _, row := range rows {
			if row.Dir == p.Dir {
				project.Files = append(project.Files, row)
			}
		}
		if report.ShowSprints {
			project.Sprints = p.Record.Sprints
		}
		out.Projects = append(out.Projects, project)
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
