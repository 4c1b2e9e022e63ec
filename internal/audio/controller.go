// Package audio drives the ambient loop played during work intervals and
// the short cue played when an interval ends.
package audio

import (
	"log/slog"
	"sync"

	"pomotodo/internal/core/timekeeper"
)

// Player is the ambient loop.
type Player interface {
	Play() error
	// Stop pauses playback and rewinds to the start of the loop.
	Stop()
}

// Controller keeps the ambient loop playing exactly while white noise is
// enabled and a work interval is running.
type Controller struct {
	mu      sync.Mutex
	player  Player
	enabled bool
	mode    timekeeper.Mode
	paused  bool
	playing bool
	logger  *slog.Logger
}

// NewController creates a Controller for player.
func NewController(player Player, enabled bool, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{player: player, enabled: enabled, logger: logger}
}

// Apply records the timer state and starts or stops the loop if the
// desired state changed.
func (controller *Controller) Apply(mode timekeeper.Mode, paused bool) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.mode = mode
	controller.paused = paused
	controller.syncLocked()
}

// SetEnabled toggles white noise.
func (controller *Controller) SetEnabled(enabled bool) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.enabled = enabled
	controller.syncLocked()
}

// Playing reports whether the loop is currently on.
func (controller *Controller) Playing() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.playing
}

// HandleEvent implements timekeeper.Handler.
func (controller *Controller) HandleEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventTick, timekeeper.EventWorkCompleted, timekeeper.EventIdleError:
		return
	case timekeeper.EventEnded:
		controller.Apply(timekeeper.ModeIdle, false)
	default:
		controller.Apply(event.Status.Mode, event.Status.Paused)
	}
}

func (controller *Controller) syncLocked() {
	want := controller.enabled && controller.mode == timekeeper.ModeWork && !controller.paused
	if want == controller.playing || controller.player == nil {
		return
	}
	if !want {
		controller.player.Stop()
		controller.playing = false
		return
	}
	if err := controller.player.Play(); err != nil {
		controller.logger.Warn("start white noise", "error", err)
		return
	}
	controller.playing = true
}
