package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/penwyp/go-project-timer/internal/util"
	"golang.org/x/term"
)

// Status is the snapshot shown on the status line
type Status struct {
	Project       string
	Active        bool
	Rendering     bool
	Saved         bool
	Elapsed       string
	LoggedMinutes float64
	Warning       string
}

// StatusLine is a single terminal line rewritten in place on every tick
type StatusLine struct {
	out     io.Writer
	color   bool
	widthFn func() int
	mu      sync.Mutex
	started bool
}

// NewStatusLine creates a status line on out. Width follows the terminal when out is one.
func NewStatusLine(out io.Writer, color bool) *StatusLine {
	s := &StatusLine{out: out, color: color, widthFn: func() int { return 80 }}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.widthFn = func() int {
			width, _, err := term.GetSize(int(f.Fd()))
			if err != nil || width < 20 {
				return 80
			}
			return width
		}
	}
	return s
}

// Show redraws the line
func (s *StatusLine) Show(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		fmt.Fprint(s.out, util.HideCursor)
		s.started = true
	}
	line := util.TruncateString(s.plain(status), s.widthFn()-1)
	fmt.Fprint(s.out, "\r"+util.ClearLine+s.decorate(line, status))
}

// Close ends the line and restores the cursor
func (s *StatusLine) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		fmt.Fprint(s.out, "\n"+util.ShowCursor)
		s.started = false
	}
}

func stateLabel(status Status) string {
	switch {
	case status.Rendering:
		return "rendering"
	case status.Active:
		return "active"
	default:
		return "idle"
	}
}

// plain renders the uncolored text so truncation counts only visible cells
func (s *StatusLine) plain(status Status) string {
	parts := []string{
		util.PadString(stateLabel(status), 9, true),
		status.Elapsed,
		status.Project,
	}
	if status.Saved {
		parts = append(parts, "logged "+util.FormatMinutes(status.LoggedMinutes))
	} else {
		parts = append(parts, "not saved yet")
	}
	if status.Warning != "" {
		parts = append(parts, "! "+status.Warning)
	}
	return strings.Join(parts, "  ")
}

func (s *StatusLine) decorate(line string, status Status) string {
	if !s.color {
		return line
	}
	color := util.ColorYellow
	switch {
	case status.Warning != "":
		color = util.ColorRed
	case status.Rendering:
		color = util.ColorCyan
	case status.Active:
		color = util.ColorGreen
	}
	return util.Colorize(line, color, true)
}
