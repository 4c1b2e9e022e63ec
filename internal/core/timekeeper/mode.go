package timekeeper

import (
	"fmt"
	"time"

	"pomotodo/internal/core/model"
)

// Mode is the kind of interval the session is in.
type Mode int

const (
	ModeIdle Mode = iota
	ModeWork
	ModeShortBreak
	ModeLongBreak
)

// String returns the stable name of the mode.
func (mode Mode) String() string {
	switch mode {
	case ModeIdle:
		return "idle"
	case ModeWork:
		return "work"
	case ModeShortBreak:
		return "short_break"
	case ModeLongBreak:
		return "long_break"
	default:
		return fmt.Sprintf("mode(%d)", int(mode))
	}
}

// IsBreak reports whether mode is a short or long break.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// ParseMode maps a mode name (or a common alias) back to a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "work", "pomo", "pomodoro":
		return ModeWork, nil
	case "short_break", "short", "break":
		return ModeShortBreak, nil
	case "long_break", "long":
		return ModeLongBreak, nil
	default:
		return ModeIdle, fmt.Errorf("unknown mode %q", name)
	}
}

// Duration returns the configured length of an interval in mode.
// Idle has no length; asking for it is a programming error and panics.
func Duration(config model.TimeKeeperConfig, mode Mode) time.Duration {
	switch mode {
	case ModeWork:
		return config.Work
	case ModeShortBreak:
		return config.ShortBreak
	case ModeLongBreak:
		return config.LongBreak
	default:
		panic(fmt.Sprintf("timekeeper: mode %s has no duration", mode))
	}
}
