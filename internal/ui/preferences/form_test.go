package preferences

import (
	"strings"
	"testing"
	"time"

	"pomotodo/internal/core/model"
)

func TestFormRoundTrip(t *testing.T) {
	settings := model.DefaultSettings()
	settings.ShortBreak = 90 * time.Second
	settings.APIKey = "key"

	got, err := FormFromSettings(settings).Apply(model.Settings{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got != settings {
		t.Errorf("Apply() = %+v\nwant %+v", got, settings)
	}
	if FormFromSettings(settings).ShortBreak != "1.5" {
		t.Errorf("ShortBreak text = %q, want 1.5", FormFromSettings(settings).ShortBreak)
	}
}

func TestFormApplyRejectsInvalid(t *testing.T) {
	base := model.DefaultSettings()
	form := FormFromSettings(base)
	form.Pomo = "0"
	form.LongBreak = "soon"
	form.LongBreakInterval = "0"
	form.CompletionTimeZone = "Mars/Olympus"
	form.Emoji = true

	got, err := form.Apply(base)
	if err == nil {
		t.Fatal("Apply() error = nil")
	}
	for _, want := range []string{"pomodoro length", "long break length", "long break interval", "time zone"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
	if got != base {
		t.Error("Apply() changed settings despite errors")
	}
}

func TestFormIdlePauseAllowsZero(t *testing.T) {
	form := FormFromSettings(model.DefaultSettings())
	form.IdlePause = "0"
	if _, err := form.Apply(model.DefaultSettings()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	form.IdlePause = "-1"
	if _, err := form.Apply(model.DefaultSettings()); err == nil {
		t.Fatal("Apply() accepted negative idle pause")
	}
}

func TestFormRejectsOutOfRangeMinutes(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"nan", "NaN"},
		{"infinity", "Inf"},
		{"negative infinity", "-Inf"},
		{"huge", "1e300"},
		{"over a day", "1441"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := FormFromSettings(model.DefaultSettings())
			form.Pomo = tt.value
			if _, err := form.Apply(model.DefaultSettings()); err == nil {
				t.Errorf("Apply() accepted pomodoro length %q", tt.value)
			}
		})
	}

	form := FormFromSettings(model.DefaultSettings())
	form.Pomo = "1440"
	settings, err := form.Apply(model.DefaultSettings())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if settings.Pomo != 24*time.Hour {
		t.Errorf("Pomo = %v, want 24h", settings.Pomo)
	}
}
