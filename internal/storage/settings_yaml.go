// Package storage persists user settings as YAML in the config directory
// and applies environment overrides.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"pomotodo/internal/core/model"
	"pomotodo/internal/platform"
)

const (
	// AppName names the config directory and the single-instance port.
	AppName = "pomotodo"

	settingsFileName = "settings.yaml"
	historyFileName  = "history.db"
)

// Environment holds the variables that override the settings file.
type Environment struct {
	APIKey    string `envconfig:"POMOTODO_API_KEY"`
	NotesDir  string `envconfig:"POMOTODO_NOTES_DIR"`
	ConfigDir string `envconfig:"POMOTODO_CONFIG_DIR"`
}

// LoadEnvironment reads Environment from the process environment.
func LoadEnvironment() (Environment, error) {
	var env Environment
	if err := envconfig.Process("", &env); err != nil {
		return env, fmt.Errorf("load environment: %w", err)
	}
	return env, nil
}

type yamlSettings struct {
	PomoMinutes       float64 `yaml:"pomo_minutes"`
	ShortBreakMinutes float64 `yaml:"short_break_minutes"`
	LongBreakMinutes  float64 `yaml:"long_break_minutes"`
	LongBreakInterval int     `yaml:"long_break_interval"`
	AutostartTimer    *bool   `yaml:"autostart_timer"`
	NumAutoCycles     int     `yaml:"num_auto_cycles"`

	NotificationSound     *bool `yaml:"notification_sound"`
	UseSystemNotification *bool `yaml:"use_system_notification"`
	Emoji                 *bool `yaml:"emoji"`
	WhiteNoise            *bool `yaml:"white_noise"`

	APIKey             string `yaml:"api_key,omitempty"`
	NotesDir           string `yaml:"notes_dir,omitempty"`
	DailyNoteFormat    string `yaml:"daily_note_format,omitempty"`
	CompletionTimeZone string `yaml:"completion_time_zone,omitempty"`

	IdlePauseMinutes float64 `yaml:"idle_pause_minutes"`
	LaunchAtLogin    *bool   `yaml:"launch_at_login"`
}

// Store reads and writes files in the pomotodo config directory.
type Store struct {
	dir string
	env Environment
}

// NewStore resolves the config directory: POMOTODO_CONFIG_DIR, else
// <user config dir>/pomotodo.
func NewStore(env Environment) (*Store, error) {
	dir := env.ConfigDir
	if dir == "" {
		configDir, err := platform.ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(configDir, AppName)
	}
	return &Store{dir: dir, env: env}, nil
}

// Dir returns the config directory.
func (store *Store) Dir() string {
	return store.dir
}

// SettingsPath returns the settings file path.
func (store *Store) SettingsPath() string {
	return filepath.Join(store.dir, settingsFileName)
}

// HistoryPath returns the history database path.
func (store *Store) HistoryPath() string {
	return filepath.Join(store.dir, historyFileName)
}

// LoadSettings reads user preferences from YAML and applies environment
// overrides. If the file does not exist, defaults are used.
func (store *Store) LoadSettings() (model.Settings, error) {
	settings, err := store.readSettings()
	store.applyEnvironment(&settings)
	return settings, err
}

func (store *Store) readSettings() (model.Settings, error) {
	settings := model.DefaultSettings()
	rawData, err := os.ReadFile(store.SettingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}
	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML. Values that came from the
// environment are written as they are in settings.
func (store *Store) SaveSettings(settings model.Settings) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		PomoMinutes:       settings.Pomo.Minutes(),
		ShortBreakMinutes: settings.ShortBreak.Minutes(),
		LongBreakMinutes:  settings.LongBreak.Minutes(),
		LongBreakInterval: settings.LongBreakInterval,
		AutostartTimer:    &settings.AutostartTimer,
		NumAutoCycles:     settings.NumAutoCycles,

		NotificationSound:     &settings.NotificationSound,
		UseSystemNotification: &settings.UseSystemNotification,
		Emoji:                 &settings.Emoji,
		WhiteNoise:            &settings.WhiteNoise,

		APIKey:             settings.APIKey,
		NotesDir:           settings.NotesDir,
		DailyNoteFormat:    settings.DailyNoteFormat,
		CompletionTimeZone: settings.CompletionTimeZone,

		IdlePauseMinutes: settings.IdlePauseAfter.Minutes(),
		LaunchAtLogin:    &settings.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	// The file can hold an API key.
	if err := os.WriteFile(store.SettingsPath(), serialized, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func (store *Store) applyEnvironment(settings *model.Settings) {
	if store.env.APIKey != "" {
		settings.APIKey = store.env.APIKey
	}
	if store.env.NotesDir != "" {
		settings.NotesDir = store.env.NotesDir
	}
}

func minutes(value float64) time.Duration {
	return time.Duration(value * float64(time.Minute)).Round(time.Second)
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.PomoMinutes > 0 {
		settings.Pomo = minutes(fileData.PomoMinutes)
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreak = minutes(fileData.ShortBreakMinutes)
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreak = minutes(fileData.LongBreakMinutes)
	}
	if fileData.LongBreakInterval > 0 {
		settings.LongBreakInterval = fileData.LongBreakInterval
	}
	if fileData.NumAutoCycles > 0 {
		settings.NumAutoCycles = fileData.NumAutoCycles
	}
	if fileData.IdlePauseMinutes > 0 {
		settings.IdlePauseAfter = minutes(fileData.IdlePauseMinutes)
	}

	for target, value := range map[*bool]*bool{
		&settings.AutostartTimer:        fileData.AutostartTimer,
		&settings.NotificationSound:     fileData.NotificationSound,
		&settings.UseSystemNotification: fileData.UseSystemNotification,
		&settings.Emoji:                 fileData.Emoji,
		&settings.WhiteNoise:            fileData.WhiteNoise,
		&settings.LaunchAtLogin:         fileData.LaunchAtLogin,
	} {
		if value != nil {
			*target = *value
		}
	}

	if fileData.APIKey != "" {
		settings.APIKey = fileData.APIKey
	}
	if fileData.NotesDir != "" {
		settings.NotesDir = fileData.NotesDir
	}
	if fileData.DailyNoteFormat != "" {
		settings.DailyNoteFormat = fileData.DailyNoteFormat
	}
	if fileData.CompletionTimeZone != "" {
		if _, err := time.LoadLocation(fileData.CompletionTimeZone); err == nil {
			settings.CompletionTimeZone = fileData.CompletionTimeZone
		}
	}
}
