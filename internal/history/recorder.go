package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pomotodo/internal/core/timekeeper"
)

// Recorder is a timekeeper.Handler that journals every interval from its
// first start to its end, its quit, or the start that replaced it. Pauses
// do not split an interval.
type Recorder struct {
	store  *Store
	logger *slog.Logger

	mu      sync.Mutex
	current *Interval
	// primed is set while the current interval waits for its first resume.
	primed bool
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// HandleEvent implements timekeeper.Handler.
func (recorder *Recorder) HandleEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventStarted, timekeeper.EventAutoPaused:
		recorder.finish(event.At, OutcomeSkipped)
		recorder.mu.Lock()
		recorder.current = &Interval{Mode: event.Mode.String(), Start: event.At}
		recorder.primed = event.Type == timekeeper.EventAutoPaused
		recorder.mu.Unlock()
	case timekeeper.EventRestarted:
		// An auto-paused interval really begins when it is resumed.
		recorder.mu.Lock()
		if recorder.primed && recorder.current != nil {
			recorder.current.Start = event.At
		}
		recorder.primed = false
		recorder.mu.Unlock()
	case timekeeper.EventEnded:
		recorder.finish(event.At, OutcomeCompleted)
	case timekeeper.EventQuit:
		recorder.finish(event.At, OutcomeQuit)
	}
}

func (recorder *Recorder) finish(at time.Time, outcome string) {
	recorder.mu.Lock()
	interval := recorder.current
	primed := recorder.primed
	recorder.current = nil
	recorder.primed = false
	recorder.mu.Unlock()
	if interval == nil || primed {
		return
	}

	interval.End = at
	interval.Outcome = outcome
	if err := recorder.store.RecordInterval(context.Background(), *interval); err != nil {
		recorder.logger.Warn("journal interval", "error", err)
	}
}
