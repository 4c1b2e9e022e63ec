//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLaunchAtLoginDesktopEntry(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	entry := LaunchEntry{Name: "Pomotodo", Exec: "/opt/my apps/pomotodo", Args: []string{"tray"}}

	if err := SetLaunchAtLogin(entry, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "autostart", "pomotodo.desktop")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read desktop entry: %v", err)
	}
	if !strings.Contains(string(raw), `Exec="/opt/my apps/pomotodo" tray`) {
		t.Errorf("desktop entry = %s", raw)
	}

	if err := SetLaunchAtLogin(entry, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("desktop entry still present: %v", err)
	}
	if err := SetLaunchAtLogin(entry, false); err != nil {
		t.Errorf("disable twice: %v", err)
	}
}
