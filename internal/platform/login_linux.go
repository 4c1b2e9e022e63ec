//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func writeLaunchEntry(entry LaunchEntry) error {
	path, err := desktopEntryPath(entry.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(entry)), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func removeLaunchEntry(entry LaunchEntry) error {
	path, err := desktopEntryPath(entry.Name)
	if err != nil {
		return err
	}
	return removeIfExists(path)
}

func desktopEntryPath(name string) (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(name)+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopEntry(entry LaunchEntry) string {
	fields := []string{quoteExecArg(entry.Exec)}
	for _, arg := range entry.Args {
		fields = append(fields, quoteExecArg(arg))
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Pomodoro timer
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, entry.Name, strings.Join(fields, " "))
}

func quoteExecArg(arg string) string {
	if !strings.ContainsAny(arg, " \t\"\\") {
		return arg
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(arg)
	return `"` + escaped + `"`
}
