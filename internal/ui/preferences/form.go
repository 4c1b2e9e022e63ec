package preferences

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"pomotodo/internal/core/model"
)

// Form is the editable text of the settings window.
type Form struct {
	Pomo              string
	ShortBreak        string
	LongBreak         string
	LongBreakInterval string
	NumAutoCycles     string
	IdlePause         string

	AutostartTimer        bool
	NotificationSound     bool
	UseSystemNotification bool
	Emoji                 bool
	WhiteNoise            bool
	LaunchAtLogin         bool

	APIKey             string
	NotesDir           string
	DailyNoteFormat    string
	CompletionTimeZone string
}

// FormFromSettings fills a Form.
func FormFromSettings(settings model.Settings) Form {
	return Form{
		Pomo:              formatMinutes(settings.Pomo),
		ShortBreak:        formatMinutes(settings.ShortBreak),
		LongBreak:         formatMinutes(settings.LongBreak),
		LongBreakInterval: strconv.Itoa(settings.LongBreakInterval),
		NumAutoCycles:     strconv.Itoa(settings.NumAutoCycles),
		IdlePause:         formatMinutes(settings.IdlePauseAfter),

		AutostartTimer:        settings.AutostartTimer,
		NotificationSound:     settings.NotificationSound,
		UseSystemNotification: settings.UseSystemNotification,
		Emoji:                 settings.Emoji,
		WhiteNoise:            settings.WhiteNoise,
		LaunchAtLogin:         settings.LaunchAtLogin,

		APIKey:             settings.APIKey,
		NotesDir:           settings.NotesDir,
		DailyNoteFormat:    settings.DailyNoteFormat,
		CompletionTimeZone: settings.CompletionTimeZone,
	}
}

// Apply validates the form and returns base updated with its values. All
// problems are reported together.
func (form Form) Apply(base model.Settings) (model.Settings, error) {
	settings := base
	var problems []error

	durations := []struct {
		label  string
		text   string
		target *time.Duration
		zero   bool
	}{
		{"pomodoro length", form.Pomo, &settings.Pomo, false},
		{"short break length", form.ShortBreak, &settings.ShortBreak, false},
		{"long break length", form.LongBreak, &settings.LongBreak, false},
		{"idle pause", form.IdlePause, &settings.IdlePauseAfter, true},
	}
	for _, field := range durations {
		value, err := parseMinutes(field.text, field.zero)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", field.label, err))
			continue
		}
		*field.target = value
	}

	if interval, err := strconv.Atoi(strings.TrimSpace(form.LongBreakInterval)); err != nil || interval < 1 {
		problems = append(problems, errors.New("long break interval: must be a whole number of at least 1"))
	} else {
		settings.LongBreakInterval = interval
	}
	if cycles, err := strconv.Atoi(strings.TrimSpace(form.NumAutoCycles)); err != nil || cycles < 0 {
		problems = append(problems, errors.New("auto cycles: must be a whole number of at least 0"))
	} else {
		settings.NumAutoCycles = cycles
	}

	zone := strings.TrimSpace(form.CompletionTimeZone)
	if _, err := time.LoadLocation(zone); zone == "" || err != nil {
		problems = append(problems, fmt.Errorf("time zone: unknown zone %q", zone))
	} else {
		settings.CompletionTimeZone = zone
	}
	layout := strings.TrimSpace(form.DailyNoteFormat)
	if layout == "" {
		problems = append(problems, errors.New("daily note format: must not be empty"))
	} else {
		settings.DailyNoteFormat = layout
	}

	settings.AutostartTimer = form.AutostartTimer
	settings.NotificationSound = form.NotificationSound
	settings.UseSystemNotification = form.UseSystemNotification
	settings.Emoji = form.Emoji
	settings.WhiteNoise = form.WhiteNoise
	settings.LaunchAtLogin = form.LaunchAtLogin
	settings.APIKey = strings.TrimSpace(form.APIKey)
	settings.NotesDir = strings.TrimSpace(form.NotesDir)

	if len(problems) > 0 {
		return base, errors.Join(problems...)
	}
	return settings, nil
}

func formatMinutes(value time.Duration) string {
	return strconv.FormatFloat(value.Minutes(), 'f', -1, 64)
}

// maxMinutes bounds every duration field to a day.
const maxMinutes = 24 * 60

func parseMinutes(text string, allowZero bool) (time.Duration, error) {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, errors.New("not a number of minutes")
	}
	if minutes < 0 || (minutes == 0 && !allowZero) {
		return 0, errors.New("must be more than zero")
	}
	if minutes > maxMinutes {
		return 0, fmt.Errorf("must be at most %d minutes", maxMinutes)
	}
	return time.Duration(minutes * float64(time.Minute)).Round(time.Second), nil
}
