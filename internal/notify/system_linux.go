//go:build linux

package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/godbus/dbus/v5"

	"pomotodo/internal/core/clock"
)

const (
	notificationsName      = "org.freedesktop.Notifications"
	notificationsPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsInterface = "org.freedesktop.Notifications"

	// DismissAfter is how long an OS notification stays on screen.
	DismissAfter = 5 * time.Second
)

var errClosed = errors.New("notification bus closed")

// DBusNotifier talks to the freedesktop notification daemon on the session
// bus and withdraws each notification after DismissAfter.
type DBusNotifier struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	clock   clock.Clock
	appName string
}

// NewDBusNotifier connects to the session bus.
func NewDBusNotifier(clk clock.Clock, appName string) (*DBusNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &DBusNotifier{conn: conn, clock: clk, appName: appName}, nil
}

// Notify implements SystemNotifier.
func (notifier *DBusNotifier) Notify(title, body string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.conn == nil {
		return errClosed
	}

	object := notifier.conn.Object(notificationsName, notificationsPath)
	hints := map[string]dbus.Variant{
		// The dispatcher plays its own cue.
		"suppress-sound": dbus.MakeVariant(true),
	}
	call := object.Call(notificationsInterface+".Notify", 0,
		notifier.appName, uint32(0), "", title, body, []string{}, hints,
		int32(DismissAfter/time.Millisecond))
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("read notification id: %w", err)
	}
	notifier.clock.AfterFunc(DismissAfter, func() {
		notifier.dismiss(id)
	})
	return nil
}

// Close releases the bus connection.
func (notifier *DBusNotifier) Close() error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.conn == nil {
		return nil
	}
	err := notifier.conn.Close()
	notifier.conn = nil
	return err
}

func (notifier *DBusNotifier) dismiss(id uint32) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.conn == nil {
		return
	}
	object := notifier.conn.Object(notificationsName, notificationsPath)
	object.Call(notificationsInterface+".CloseNotification", 0, id)
}

// NewSystemNotifier picks the best notifier for this platform: the D-Bus
// daemon, then the fyne app, then the log.
func NewSystemNotifier(app fyne.App, clk clock.Clock, logger *slog.Logger) SystemNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	notifier, err := NewDBusNotifier(clk, appTitle)
	if err == nil {
		return notifier
	}
	logger.Debug("dbus notifications unavailable", "error", err)
	if app != nil {
		return NewAppNotifier(app)
	}
	return NewLogNotifier(logger)
}
