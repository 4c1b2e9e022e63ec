package notify

import (
	"log/slog"

	"fyne.io/fyne/v2"
)

// AppNotifier sends notifications through a fyne application. Fyne offers
// no way to withdraw them, so they stay until the OS expires them.
type AppNotifier struct {
	app fyne.App
}

// NewAppNotifier creates an AppNotifier for app.
func NewAppNotifier(app fyne.App) *AppNotifier {
	return &AppNotifier{app: app}
}

// Notify implements SystemNotifier.
func (notifier *AppNotifier) Notify(title, body string) error {
	notification := fyne.NewNotification(title, body)
	fyne.Do(func() {
		notifier.app.SendNotification(notification)
	})
	return nil
}

// LogNotifier writes notifications to a logger. Used when no desktop
// session is available.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements SystemNotifier.
func (notifier *LogNotifier) Notify(title, body string) error {
	notifier.logger.Info("notification", "title", title, "body", body)
	return nil
}
