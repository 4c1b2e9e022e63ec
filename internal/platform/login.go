package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// LaunchEntry is the command the OS runs at login.
type LaunchEntry struct {
	Name string
	Exec string
	Args []string
}

var errEmptyEntry = errors.New("launch entry needs a name and an executable")

// SetLaunchAtLogin registers or removes entry with the login mechanism of
// the OS.
func SetLaunchAtLogin(entry LaunchEntry, enabled bool) error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("launch at login: %w", errEmptyEntry)
	}
	if !enabled {
		if err := removeLaunchEntry(entry); err != nil {
			return fmt.Errorf("disable launch at login: %w", err)
		}
		return nil
	}
	if entry.Exec == "" {
		return fmt.Errorf("enable launch at login: %w", errEmptyEntry)
	}
	if err := writeLaunchEntry(entry); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	return nil
}

// ConfigDir returns the OS-standard configuration directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return fallbackConfigDir(homeDir), nil
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
