package timekeeper

import (
	"time"

	"pomotodo/internal/core/clock"
	"pomotodo/internal/core/model"
)

// Interval is the scheduled span of an active mode. It only exists
// outside Idle, so an idle session carries no timestamps.
type Interval struct {
	Mode  Mode
	Start time.Time
	End   time.Time
}

// Pause holds the time left on a paused interval.
type Pause struct {
	Remaining time.Duration
	// Auto marks a pause imposed by the auto-stop policy rather than the user.
	Auto bool
}

// Session is the mutable timer record. The zero value is Idle.
type Session struct {
	Interval            *Interval
	Pause               *Pause
	CompletedWork       int
	CyclesSinceAutoStop int
	// LastStart is when the most recent interval was started (not resumed).
	LastStart time.Time
}

// Mode returns the current mode.
func (session *Session) Mode() Mode {
	if session.Interval == nil {
		return ModeIdle
	}
	return session.Interval.Mode
}

// Paused reports whether an active interval is paused.
func (session *Session) Paused() bool {
	return session.Pause != nil
}

// Remaining returns the time left at now. It can be negative until the
// expiry has been processed.
func (session *Session) Remaining(now time.Time) time.Duration {
	switch {
	case session.Interval == nil:
		return 0
	case session.Pause != nil:
		return session.Pause.Remaining
	default:
		return session.Interval.End.Sub(now)
	}
}

// Status returns a snapshot at now.
func (session *Session) Status(now time.Time) Status {
	status := Status{
		Mode:                session.Mode(),
		Paused:              session.Paused(),
		Remaining:           session.Remaining(now),
		CompletedWork:       session.CompletedWork,
		CyclesSinceAutoStop: session.CyclesSinceAutoStop,
	}
	if session.Interval != nil {
		status.Start = session.Interval.Start
		status.End = session.Interval.End
	}
	if session.Pause != nil {
		status.AutoPaused = session.Pause.Auto
	}
	return status
}

func (session *Session) event(eventType EventType, mode Mode, now time.Time) Event {
	return Event{
		Type:   eventType,
		Mode:   mode,
		Status: session.Status(now),
		At:     now,
	}
}

// rollDay clears the work counter when now is on another calendar day than
// the previous start, then records now as the latest start.
func (session *Session) rollDay(now time.Time) {
	if !clock.SameDay(now, session.LastStart) {
		session.CompletedWork = 0
	}
	session.LastStart = now
}

// nextMode applies the cycle rule to the current mode.
func (session *Session) nextMode(config model.TimeKeeperConfig) Mode {
	if session.Mode() != ModeWork {
		return ModeWork
	}
	return breakAfter(config, session.CompletedWork)
}

// breakAfter picks the break that follows the completed-th work interval.
func breakAfter(config model.TimeKeeperConfig, completed int) Mode {
	if completed%config.LongBreakInterval == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

func (session *Session) begin(config model.TimeKeeperConfig, mode Mode, now time.Time) []Event {
	length := Duration(config, mode)
	session.Interval = &Interval{Mode: mode, Start: now, End: now.Add(length)}
	session.Pause = nil

	event := session.event(EventStarted, mode, now)
	event.Duration = length
	return []Event{event}
}

func (session *Session) start(config model.TimeKeeperConfig, mode Mode, now time.Time) []Event {
	if mode == ModeIdle {
		return nil
	}
	session.rollDay(now)
	return session.begin(config, mode, now)
}

// startNext skips ahead in the cycle. A skipped work interval is not
// counted as completed but picks its break as if it were.
func (session *Session) startNext(config model.TimeKeeperConfig, now time.Time) []Event {
	session.rollDay(now)
	next := ModeWork
	if session.Mode() == ModeWork {
		next = breakAfter(config, session.CompletedWork+1)
	}
	return session.begin(config, next, now)
}

func (session *Session) pause(now time.Time) []Event {
	if session.Interval == nil || session.Pause != nil {
		return nil
	}
	remaining := session.Interval.End.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	session.Pause = &Pause{Remaining: remaining}
	return []Event{session.event(EventPaused, session.Interval.Mode, now)}
}

func (session *Session) resume(now time.Time) []Event {
	if session.Interval == nil || session.Pause == nil {
		return nil
	}
	pause := session.Pause
	session.Interval.Start = now
	session.Interval.End = now.Add(pause.Remaining)
	session.Pause = nil

	event := session.event(EventRestarted, session.Interval.Mode, now)
	event.Auto = pause.Auto
	event.Duration = pause.Remaining
	return []Event{event}
}

func (session *Session) quit(now time.Time) []Event {
	wasActive := session.Interval != nil
	ended := session.Mode()
	*session = Session{}
	if !wasActive {
		return nil
	}
	return []Event{session.event(EventQuit, ended, now)}
}

// expire runs the end-of-interval handler when a running interval is due.
func (session *Session) expire(config model.TimeKeeperConfig, now time.Time) []Event {
	if session.Interval == nil || session.Pause != nil || now.Before(session.Interval.End) {
		return nil
	}
	return session.end(config, now)
}

func (session *Session) end(config model.TimeKeeperConfig, now time.Time) []Event {
	ended := *session.Interval
	var events []Event

	session.rollDay(now)
	if ended.Mode == ModeWork {
		session.CompletedWork++
		completed := session.event(EventWorkCompleted, ModeWork, now)
		completed.Start = ended.Start
		completed.Length = config.Work
		events = append(events, completed)
	} else {
		session.CyclesSinceAutoStop++
	}

	next := session.nextMode(config)
	endedEvent := session.event(EventEnded, ended.Mode, now)
	endedEvent.Next = next
	events = append(events, endedEvent)

	if !config.AutostartTimer && session.CyclesSinceAutoStop >= config.NumAutoCycles {
		length := Duration(config, next)
		session.Interval = &Interval{Mode: next, Start: now, End: now.Add(length)}
		session.Pause = &Pause{Remaining: length, Auto: true}
		session.CyclesSinceAutoStop = 0

		primed := session.event(EventAutoPaused, next, now)
		primed.Duration = length
		return append(events, primed)
	}
	return append(events, session.begin(config, next, now)...)
}
