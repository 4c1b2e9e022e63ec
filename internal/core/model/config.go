package model

import "time"

// TimeKeeperConfig contains runtime settings for the TimeKeeper state machine.
type TimeKeeperConfig struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration

	// LongBreakInterval is the number of work intervals per long break.
	LongBreakInterval int
	// AutostartTimer starts the next interval as soon as one ends.
	AutostartTimer bool
	// NumAutoCycles is the number of break completions after which the
	// timer stops and waits for a manual resume when AutostartTimer is off.
	NumAutoCycles int

	// Emoji prefixes the display string with a mode glyph.
	Emoji bool

	IdlePauseAfter    time.Duration
	IdleCheckInterval time.Duration
}

// Normalized returns a copy with unusable values replaced by defaults.
func (config TimeKeeperConfig) Normalized() TimeKeeperConfig {
	if config.LongBreakInterval <= 0 {
		config.LongBreakInterval = 4
	}
	if config.NumAutoCycles < 0 {
		config.NumAutoCycles = 0
	}
	if config.Work < 0 {
		config.Work = 0
	}
	if config.ShortBreak < 0 {
		config.ShortBreak = 0
	}
	if config.LongBreak < 0 {
		config.LongBreak = 0
	}
	if config.IdleCheckInterval <= 0 {
		config.IdleCheckInterval = 5 * time.Second
	}
	return config
}
