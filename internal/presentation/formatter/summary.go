package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/go-project-timer/internal/util"
)

// SummaryFormatter prints a short human report of logged time.
type SummaryFormatter struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
}

// NewSummaryFormatter creates a styled summary formatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("#64b5f6")).Bold(true),
		label:  lipgloss.NewStyle().Width(16),
		value:  lipgloss.NewStyle().Bold(true),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// Plain drops colors and emphasis, keeping the layout.
func (f *SummaryFormatter) Plain() *SummaryFormatter {
	plain := lipgloss.NewStyle()
	f.header = plain
	f.label = plain.Width(16)
	f.value = plain
	f.muted = plain
	return f
}

func (f *SummaryFormatter) metric(b *strings.Builder, label, value string) {
	b.WriteString("  " + f.label.Render(label) + f.value.Render(value) + "\n")
}

// Format writes the totals, then one block per project with its busiest file.
func (f *SummaryFormatter) Format(w io.Writer, report Report) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString(f.header.Render("Project Time Summary") + "\n")
	b.WriteString(rule + "\n\n")

	rows := report.Rows()
	if len(rows) == 0 {
		b.WriteString("No time logged\n\n" + rule + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	work, render, total := report.Totals()
	sprints := 0
	for _, row := range rows {
		sprints += row.Sprints
	}

	b.WriteString("Overall:\n")
	f.metric(&b, "Projects:", util.FormatNumber(len(report.Projects)))
	f.metric(&b, "Files:", util.FormatNumber(len(rows)))
	f.metric(&b, "Sprints:", util.FormatNumber(sprints))
	f.metric(&b, "Work time:", util.FormatMinutes(work))
	f.metric(&b, "Render time:", util.FormatMinutes(render))
	f.metric(&b, "Total time:", util.FormatMinutes(total))

	for _, p := range report.Projects {
		if p.Record == nil {
			continue
		}
		b.WriteString("\n" + strings.Repeat("-", 60) + "\n")
		b.WriteString(f.header.Render(p.Dir) + "\n")
		f.metric(&b, "Total time:", util.FormatMinutes(p.Record.TotalMinutes))

		var busiest string
		var most float64
		for _, name := range p.Record.FileNames() {
			if t := p.Record.Files[name].Total(); t > most {
				busiest, most = name, t
			}
		}
		if busiest != "" {
			f.metric(&b, "Busiest file:", fmt.Sprintf("%s (%s)", busiest, util.FormatMinutes(most)))
		} else {
			b.WriteString("  " + f.muted.Render("no sprints") + "\n")
		}
	}

	b.WriteString("\n" + rule + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}
