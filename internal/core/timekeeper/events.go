package timekeeper

import "time"

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStarted       EventType = "started"
	EventRestarted     EventType = "restarted"
	EventPaused        EventType = "paused"
	EventIdlePaused    EventType = "idle_paused"
	EventAutoPaused    EventType = "auto_paused"
	EventWorkCompleted EventType = "work_completed"
	EventEnded         EventType = "ended"
	EventQuit          EventType = "quit"
	EventTick          EventType = "tick"
	EventIdleError     EventType = "idle_error"
)

// Event represents a TimeKeeper update for handlers and subscribers.
type Event struct {
	Type EventType
	// Mode is the interval the event is about: the started, paused or
	// resumed mode, or the mode that just ended.
	Mode Mode
	// Next is the mode that follows an ended interval.
	Next Mode
	// Duration is the full configured length of Mode for started and
	// auto-paused events.
	Duration time.Duration
	// Start and Length describe a completed work interval.
	Start  time.Time
	Length time.Duration
	// Auto marks a resume out of an automatic stop.
	Auto    bool
	Display string
	Message string
	Status  Status
	At      time.Time
}

// Status is a read-only snapshot of the session.
type Status struct {
	Mode                Mode
	Paused              bool
	AutoPaused          bool
	Start               time.Time
	End                 time.Time
	Remaining           time.Duration
	CompletedWork       int
	CyclesSinceAutoStop int
}

// Active reports whether an interval is running or paused.
func (status Status) Active() bool {
	return status.Mode != ModeIdle
}

// Handler receives events synchronously, in order, after the state change
// has been committed. Handlers must not call back into the TimeKeeper.
type Handler interface {
	HandleEvent(event Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(event Event)

// HandleEvent calls fn(event).
func (fn HandlerFunc) HandleEvent(event Event) {
	fn(event)
}
