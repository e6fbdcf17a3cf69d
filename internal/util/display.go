package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"

	ClearLine  = "\033[2K" // Clear entire line
	HideCursor = "\033[?25l"
	ShowCursor = "\033[?25h"
)

// GetDisplayWidth calculates the actual display width of a string, accounting for emojis
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads a string to a display width, handling wide characters correctly
func PadString(s string, width int, leftAlign bool) string {
	actual := GetDisplayWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// TruncateString shortens s to fit width display cells, marking the cut with an ellipsis
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Colorize wraps text in the given ANSI color when enabled
func Colorize(text, color string, enabled bool) string {
	if !enabled || color == "" {
		return text
	}
	return color + text + ColorReset
}
