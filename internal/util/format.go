package util

import (
	"fmt"
	"math"
	"time"
)

// FormatNumber abbreviates large counts
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatMinutes renders logged minutes for humans. Values below one minute
// are shown in seconds so short sprints do not collapse to "0m".
func FormatMinutes(minutes float64) string {
	if minutes <= 0 {
		return "0m"
	}
	if minutes < 1 {
		return fmt.Sprintf("%ds", int(math.Round(minutes*60)))
	}
	return FormatDuration(time.Duration(math.Round(minutes*60)) * time.Second)
}

// FormatMinutesValue renders minutes with the fixed two-decimal precision of the log
func FormatMinutesValue(minutes float64) string {
	return fmt.Sprintf("%.2f", minutes)
}
