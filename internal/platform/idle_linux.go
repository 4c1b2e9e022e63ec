//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"pomotodo/internal/core/timekeeper"
)

// xprintidle covers X11 sessions, the Mutter idle monitor GNOME on Wayland.
type idleChecker struct {
	xprintidlePath string
}

func newIdleChecker() timekeeper.IdleChecker {
	path, _ := exec.LookPath("xprintidle")
	return &idleChecker{xprintidlePath: path}
}

func (checker *idleChecker) IdleDuration() (time.Duration, error) {
	if checker.xprintidlePath != "" {
		if idle, err := xprintidle(checker.xprintidlePath); err == nil {
			return idle, nil
		}
	}
	idle, err := mutterIdleTime()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", timekeeper.ErrIdleUnsupported, err)
	}
	return idle, nil
}

func xprintidle(path string) (time.Duration, error) {
	output, err := exec.Command(path).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	return time.Duration(max(idleMillis, 0)) * time.Millisecond, nil
}

func mutterIdleTime() (time.Duration, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("session bus: %w", err)
	}
	object := conn.Object("org.gnome.Mutter.IdleMonitor", "/org/gnome/Mutter/IdleMonitor/Core")

	var idleMillis uint64
	if err := object.Call("org.gnome.Mutter.IdleMonitor.GetIdletime", 0).Store(&idleMillis); err != nil {
		return 0, fmt.Errorf("mutter idle monitor: %w", err)
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}
