package main

import (
	"fmt"
	"path/filepath"
)

// StatusLine is everything the status bar shows, already formatted.
type StatusLine struct {
	Title        string
	Position     string
	BatteryLabel string
	AutoLabel    string
}

// formatStatus builds the status bar content for the current slideshow
// state. Pure function, no display access.
func formatStatus(path string, index, size, batteryPct int, autoOn bool, reason DisableReason, sleepArmed bool) StatusLine {
	line := StatusLine{
		BatteryLabel: fmt.Sprintf("%d%%", batteryPct),
	}

	if size == 0 {
		line.Title = "No photos"
		line.Position = "0/0"
	} else {
		line.Title = truncateTitle(filepath.Base(path))
		line.Position = fmt.Sprintf("%d/%d", index+1, size)
	}

	if autoOn {
		line.AutoLabel = "Auto"
		return line
	}
	line.AutoLabel = "Auto OFF"
	if reason != ReasonNone {
		line.AutoLabel = fmt.Sprintf("Auto OFF (%s)", reason)
	}
	if sleepArmed {
		line.AutoLabel += " - Sleep in 1m"
	}
	return line
}

// truncateTitle keeps filenames inside the bar. Longer names are cut to
// 27 characters plus an ellipsis marker. Counted in runes so multibyte
// filenames never get split mid-character.
func truncateTitle(s string) string {
	r := []rune(s)
	if len(r) <= MAX_TITLE_LEN {
		return s
	}
	return string(r[:MAX_TITLE_LEN-3]) + "..."
}
