package notify

import (
	"fmt"
	"time"

	"pomotodo/internal/core/timekeeper"
)

// Kind is the transition a message describes.
type Kind int

const (
	KindStarting Kind = iota
	KindRestarting
	KindPausing
	KindEnding
)

const (
	appTitle   = "Pomotodo"
	tomato     = "🍅"
	beachEmoji = "🏖"
)

// Text maps a transition to the message shown to the user. duration is only
// used for KindStarting.
func Text(mode timekeeper.Mode, kind Kind, duration time.Duration, emoji bool) string {
	switch kind {
	case KindStarting:
		amount, unit := humanLength(duration)
		if mode == timekeeper.ModeWork {
			return fmt.Sprintf("Starting %d %s pomodoro.", amount, unit)
		}
		return fmt.Sprintf("Starting %d %s break.", amount, unit)
	case KindRestarting:
		if mode == timekeeper.ModeWork {
			return "Restarting pomodoro."
		}
		return "Restarting break."
	case KindPausing:
		return "Timer paused."
	case KindEnding:
		switch {
		case mode == timekeeper.ModeWork:
			return withEmoji("End of the pomodoro, time to take a break", beachEmoji, emoji)
		case mode.IsBreak():
			return withEmoji("End of the break, time for the next pomodoro", tomato, emoji)
		}
	}
	return ""
}

// Title is the heading of OS-level notifications.
func Title(emoji bool) string {
	return withEmoji(appTitle, tomato, emoji)
}

// humanLength expresses d in whole minutes, or whole seconds under a minute.
func humanLength(d time.Duration) (int, string) {
	if d >= time.Minute {
		return int(d / time.Minute), "minute"
	}
	return int(d / time.Second), "second"
}

func withEmoji(text, glyph string, emoji bool) string {
	if !emoji {
		return text
	}
	return text + " " + glyph
}
