//go:build !linux && !darwin && !windows

package platform

import (
	"errors"
	"path/filepath"
)

var errLaunchUnsupported = errors.New("launch at login unsupported on this platform")

func writeLaunchEntry(LaunchEntry) error { return errLaunchUnsupported }

func removeLaunchEntry(LaunchEntry) error { return nil }

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}
