package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-project-timer/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format writes one record per file, or one per sprint when sprints are requested
func (f *CSVFormatter) Format(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)

	if report.ShowSprints {
		if err := f.writeSprints(cw, report); err != nil {
			return err
		}
	} else if err := f.writeFiles(cw, report); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func (f *CSVFormatter) writeFiles(cw *csv.Writer, report Report) error {
	headers := []string{"project", "file", "worktime", "rendertime", "total_minutes", "sprints"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range report.Rows() {
		record := []string{
			row.Dir,
			row.File,
			util.FormatMinutesValue(row.WorkMinutes),
			util.FormatMinutesValue(row.RenderMinutes),
			util.FormatMinutesValue(row.TotalMinutes),
			strconv.Itoa(row.Sprints),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (f *CSVFormatter) writeSprints(cw *csv.Writer, report Report) error {
	headers := []string{"project", "file", "type", "starttime", "endtime", "minutes_elapsed"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, p := range report.Projects {
		if p.Record == nil {
			continue
		}
		for _, iv := range p.Record.Sprints {
			record := []string{
				p.Dir,
				iv.File,
				string(iv.Kind),
				iv.StartTime.String(),
				iv.EndTime.String(),
				util.FormatMinutesValue(iv.MinutesElapsed),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}
