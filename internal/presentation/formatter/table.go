package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/penwyp/go-project-timer/internal/util"
)

type TableFormatter struct {
	headers       []string
	sprintHeaders []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers:       []string{"Project", "File", "Work (min)", "Render (min)", "Total (min)", "Sprints"},
		sprintHeaders: []string{"File", "Type", "Start", "End", "Minutes"},
	}
}

func (f *TableFormatter) Format(w io.Writer, report Report) error {
	rows := report.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No time logged")
		return err
	}

	body := make([][]string, 0, len(rows))
	sprints := 0
	for _, row := range rows {
		body = append(body, []string{
			displayDir(row.Dir),
			row.File,
			util.FormatMinutesValue(row.WorkMinutes),
			util.FormatMinutesValue(row.RenderMinutes),
			util.FormatMinutesValue(row.TotalMinutes),
			strconv.Itoa(row.Sprints),
		})
		sprints += row.Sprints
	}

	work, render, total := report.Totals()
	footer := []string{
		"Total", "",
		util.FormatMinutesValue(work),
		util.FormatMinutesValue(render),
		util.FormatMinutesValue(total),
		strconv.Itoa(sprints),
	}

	t := &table{w: w, headers: f.headers, leftCols: 2}
	t.render(body, footer)
	if t.err != nil || !report.ShowSprints {
		return t.err
	}

	for _, p := range report.Projects {
		if p.Record == nil || len(p.Record.Sprints) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nSprints in %s\n", p.Dir)
		sprintRows := make([][]string, 0, len(p.Record.Sprints))
		for _, iv := range p.Record.Sprints {
			sprintRows = append(sprintRows, []string{
				iv.File,
				string(iv.Kind),
				iv.StartTime.String(),
				iv.EndTime.String(),
				util.FormatMinutesValue(iv.MinutesElapsed),
			})
		}
		st := &table{w: w, headers: f.sprintHeaders, leftCols: 4}
		st.render(sprintRows, nil)
		if st.err != nil {
			return st.err
		}
	}
	return nil
}

// table draws box-bordered tables. The first leftCols columns are
// left-aligned, the rest right-aligned.
type table struct {
	w        io.Writer
	headers  []string
	leftCols int
	err      error
}

func (t *table) render(body [][]string, footer []string) {
	widths := t.calculateColumnWidths(body, footer)

	t.printBorder(widths, "top")
	t.printRow(t.headers, widths)
	t.printBorder(widths, "middle")
	for _, row := range body {
		t.printRow(row, widths)
	}
	if footer != nil {
		t.printBorder(widths, "middle")
		t.printRow(footer, widths)
	}
	t.printBorder(widths, "bottom")
}

// calculateColumnWidths determines optimal width for each column based on content
func (t *table) calculateColumnWidths(body [][]string, footer []string) []int {
	widths := make([]int, len(t.headers))
	measure := func(values []string) {
		for i, value := range values {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	measure(t.headers)
	for _, row := range body {
		measure(row)
	}
	measure(footer)

	// Minimum width for readability
	for i := range widths {
		if widths[i] < 6 {
			widths[i] = 6
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (t *table) printBorder(widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	t.writeLine(b.String())
}

func (t *table) printRow(values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		b.WriteString(" ")
		b.WriteString(util.PadString(value, widths[i], i < t.leftCols))
		b.WriteString(" │")
	}
	t.writeLine(b.String())
}

func (t *table) writeLine(line string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, line)
}
