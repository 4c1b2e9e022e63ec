package timekeeper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"pomotodo/internal/core/clock"
	"pomotodo/internal/core/model"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Options contains runtime options for TimeKeeper.
type Options struct {
	Clock        clock.Clock
	TickInterval time.Duration
	Logger       *slog.Logger
}

// TimeKeeper is the pomodoro session state machine. It owns the only
// Session; every transition is committed under mu and its events are then
// delivered in order under dispatchMu.
type TimeKeeper struct {
	mu            sync.Mutex
	dispatchMu    sync.Mutex
	config        model.TimeKeeperConfig
	options       Options
	session       Session
	idleChecker   IdleChecker
	lastIdleCheck time.Time
	handlers      []Handler
	events        []chan Event
	closed        bool
}

// New creates an idle TimeKeeper with the provided configuration.
func New(config model.TimeKeeperConfig, options Options) *TimeKeeper {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.TickInterval <= 0 {
		options.TickInterval = 500 * time.Millisecond
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &TimeKeeper{
		config:  config.Normalized(),
		options: options,
	}
}

// SetIdleChecker injects an idle checker.
func (keeper *TimeKeeper) SetIdleChecker(checker IdleChecker) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.idleChecker = checker
}

// Handle registers a synchronous event handler.
func (keeper *TimeKeeper) Handle(handler Handler) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.handlers = append(keeper.handlers, handler)
}

// Subscribe registers a new observer channel. Events are dropped for a
// subscriber whose buffer is full.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Config returns the active configuration.
func (keeper *TimeKeeper) Config() model.TimeKeeperConfig {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.config
}

// UpdateConfig replaces the configuration. The running interval keeps its
// schedule; new durations apply from the next start.
func (keeper *TimeKeeper) UpdateConfig(config model.TimeKeeperConfig) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.config = config.Normalized()
	keeper.lastIdleCheck = time.Time{}
}

// Start begins an interval in mode. Idle is ignored.
func (keeper *TimeKeeper) Start(mode Mode) {
	keeper.apply(func(now time.Time) []Event {
		return keeper.session.start(keeper.config, mode, now)
	})
}

// StartNext begins the interval that follows the current mode in the cycle.
func (keeper *TimeKeeper) StartNext() {
	keeper.apply(func(now time.Time) []Event {
		return keeper.session.startNext(keeper.config, now)
	})
}

// Pause freezes a running interval.
func (keeper *TimeKeeper) Pause() {
	keeper.apply(keeper.session.pause)
}

// Resume restarts a paused interval with the time it had left.
func (keeper *TimeKeeper) Resume() {
	keeper.apply(keeper.session.resume)
}

// Toggle resumes a paused interval or pauses a running one.
func (keeper *TimeKeeper) Toggle() {
	keeper.apply(func(now time.Time) []Event {
		if keeper.session.Paused() {
			return keeper.session.resume(now)
		}
		return keeper.session.pause(now)
	})
}

// Activate starts a work interval when idle and toggles pause otherwise.
func (keeper *TimeKeeper) Activate() {
	keeper.apply(func(now time.Time) []Event {
		switch {
		case keeper.session.Interval == nil:
			return keeper.session.start(keeper.config, ModeWork, now)
		case keeper.session.Paused():
			return keeper.session.resume(now)
		default:
			return keeper.session.pause(now)
		}
	})
}

// Quit returns the session to Idle and clears its counters.
func (keeper *TimeKeeper) Quit() {
	keeper.apply(keeper.session.quit)
}

// Poll processes an expired interval and returns the display string, or ""
// when idle.
func (keeper *TimeKeeper) Poll(now time.Time) string {
	keeper.mu.Lock()
	events := keeper.checkIdleLocked(now)
	events = append(events, keeper.session.expire(keeper.config, now)...)
	display := Display(keeper.session.Status(now), keeper.config.Emoji)
	keeper.releaseAndDispatch(events)
	return display
}

// Remaining returns the time left on the current interval at now.
func (keeper *TimeKeeper) Remaining(now time.Time) time.Duration {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.session.Remaining(now)
}

// Status returns a snapshot of the session.
func (keeper *TimeKeeper) Status() Status {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.session.Status(keeper.options.Clock.Now())
}

// Run polls on the tick interval until ctx is done, publishing an
// EventTick with the display string after each poll.
func (keeper *TimeKeeper) Run(ctx context.Context) {
	ticker := keeper.options.Clock.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			keeper.tick()
		}
	}
}

// Close terminates subscriptions. Handlers stay registered.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.dispatchMu.Lock()
	defer keeper.dispatchMu.Unlock()
	if keeper.closed {
		return
	}
	keeper.closed = true
	for _, ch := range keeper.events {
		close(ch)
	}
	keeper.events = nil
}

func (keeper *TimeKeeper) tick() {
	now := keeper.options.Clock.Now()
	display := keeper.Poll(now)

	keeper.mu.Lock()
	event := keeper.session.event(EventTick, keeper.session.Mode(), now)
	event.Display = display
	keeper.releaseAndDispatch([]Event{event})
}

func (keeper *TimeKeeper) checkIdleLocked(now time.Time) []Event {
	if keeper.config.IdlePauseAfter <= 0 || keeper.idleChecker == nil {
		return nil
	}
	if keeper.session.Mode() != ModeWork || keeper.session.Paused() {
		return nil
	}
	if !keeper.lastIdleCheck.IsZero() && now.Sub(keeper.lastIdleCheck) < keeper.config.IdleCheckInterval {
		return nil
	}
	keeper.lastIdleCheck = now

	idleDuration, err := keeper.idleChecker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			keeper.config.IdlePauseAfter = 0
		}
		event := keeper.session.event(EventIdleError, keeper.session.Mode(), now)
		event.Message = err.Error()
		return []Event{event}
	}
	if idleDuration < keeper.config.IdlePauseAfter {
		return nil
	}

	events := keeper.session.pause(now)
	for index := range events {
		events[index].Type = EventIdlePaused
		events[index].Message = "paused after " + idleDuration.Round(time.Second).String() + " idle"
	}
	return events
}

func (keeper *TimeKeeper) apply(mutate func(now time.Time) []Event) {
	keeper.mu.Lock()
	events := mutate(keeper.options.Clock.Now())
	keeper.releaseAndDispatch(events)
}

// releaseAndDispatch must be called with mu held. It hands the lock over to
// dispatchMu so events from concurrent transitions are delivered in commit
// order without holding the state lock during delivery.
func (keeper *TimeKeeper) releaseAndDispatch(events []Event) {
	if len(events) == 0 {
		keeper.mu.Unlock()
		return
	}
	handlers := append([]Handler(nil), keeper.handlers...)
	channels := append([]chan Event(nil), keeper.events...)
	keeper.dispatchMu.Lock()
	keeper.mu.Unlock()
	defer keeper.dispatchMu.Unlock()

	for _, event := range events {
		if event.Type != EventTick {
			keeper.options.Logger.Debug("timer event",
				"type", string(event.Type),
				"mode", event.Mode.String(),
				"next", event.Next.String(),
				"completed_work", event.Status.CompletedWork,
			)
		}
		for _, handler := range handlers {
			handler.HandleEvent(event)
		}
		for _, ch := range channels {
			select {
			case ch <- event:
			default:
			}
		}
	}
}
