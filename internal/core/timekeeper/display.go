package timekeeper

import (
	"fmt"
	"time"
)

const (
	workGlyph  = "🍅 "
	breakGlyph = "🏖️ "
)

// FormatRemaining renders remaining time as mm:ss, or HH:mm:ss from one
// hour up. Negative values render as zero.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining / time.Second)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Glyph returns the display prefix for mode, or "" when emoji are off.
func Glyph(mode Mode, emoji bool) string {
	if !emoji || mode == ModeIdle {
		return ""
	}
	if mode == ModeWork {
		return workGlyph
	}
	return breakGlyph
}

// Display renders the status line for a host: empty when idle.
func Display(status Status, emoji bool) string {
	if status.Mode == ModeIdle {
		return ""
	}
	return Glyph(status.Mode, emoji) + FormatRemaining(status.Remaining)
}
