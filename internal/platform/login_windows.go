//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func writeLaunchEntry(entry LaunchEntry) error {
	command := []string{quoteWindowsArg(entry.Exec)}
	for _, arg := range entry.Args {
		command = append(command, quoteWindowsArg(arg))
	}
	return reg("add", registryRunKey, "/v", entry.Name, "/t", "REG_SZ", "/d", strings.Join(command, " "), "/f")
}

func removeLaunchEntry(entry LaunchEntry) error {
	err := reg("delete", registryRunKey, "/v", entry.Name, "/f")
	if err != nil && strings.Contains(err.Error(), "unable to find") {
		return nil
	}
	return err
}

func reg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsArg(arg string) string {
	if !strings.ContainsAny(arg, " \t") {
		return arg
	}
	return `"` + strings.Trim(arg, `"`) + `"`
}
