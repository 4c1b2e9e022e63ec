//go:build !linux

package notify

import (
	"log/slog"

	"fyne.io/fyne/v2"

	"pomotodo/internal/core/clock"
)

// NewSystemNotifier returns the fyne app notifier, or a log notifier when
// there is no app.
func NewSystemNotifier(app fyne.App, _ clock.Clock, logger *slog.Logger) SystemNotifier {
	if app != nil {
		return NewAppNotifier(app)
	}
	return NewLogNotifier(logger)
}
