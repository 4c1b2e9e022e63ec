package model

import (
	"time"
	// Completion stamps name an IANA zone; ship the database with the binary.
	_ "time/tzdata"
)

// Settings defines editable user preferences.
type Settings struct {
	Pomo              time.Duration
	ShortBreak        time.Duration
	LongBreak         time.Duration
	LongBreakInterval int
	AutostartTimer    bool
	NumAutoCycles     int

	NotificationSound     bool
	UseSystemNotification bool
	Emoji                 bool
	WhiteNoise            bool

	APIKey             string
	NotesDir           string
	DailyNoteFormat    string
	CompletionTimeZone string

	IdlePauseAfter time.Duration
	LaunchAtLogin  bool
}

// DefaultSettings returns default settings for pomotodo.
func DefaultSettings() Settings {
	return Settings{
		Pomo:              25 * time.Minute,
		ShortBreak:        5 * time.Minute,
		LongBreak:         15 * time.Minute,
		LongBreakInterval: 4,
		AutostartTimer:    true,
		NumAutoCycles:     0,

		NotificationSound:     true,
		UseSystemNotification: false,
		Emoji:                 false,
		WhiteNoise:            false,

		DailyNoteFormat:    "2006-01-02",
		CompletionTimeZone: "Asia/Shanghai",
	}
}

// TimeKeeperConfig converts settings to TimeKeeperConfig.
func (settings Settings) TimeKeeperConfig() TimeKeeperConfig {
	return TimeKeeperConfig{
		Work:              settings.Pomo,
		ShortBreak:        settings.ShortBreak,
		LongBreak:         settings.LongBreak,
		LongBreakInterval: settings.LongBreakInterval,
		AutostartTimer:    settings.AutostartTimer,
		NumAutoCycles:     settings.NumAutoCycles,
		Emoji:             settings.Emoji,
		IdlePauseAfter:    settings.IdlePauseAfter,
		IdleCheckInterval: 5 * time.Second,
	}.Normalized()
}
