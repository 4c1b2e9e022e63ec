package timekeeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pomotodo/internal/core/clock"
	"pomotodo/internal/core/model"
)

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) HandleEvent(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []EventType
	for _, event := range r.events {
		if event.Type != EventTick {
			types = append(types, event.Type)
		}
	}
	return types
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *recorder) find(eventType EventType) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.Type == eventType {
			return event, true
		}
	}
	return Event{}, false
}

func testConfig() model.TimeKeeperConfig {
	return model.TimeKeeperConfig{
		Work:              25 * time.Minute,
		ShortBreak:        5 * time.Minute,
		LongBreak:         15 * time.Minute,
		LongBreakInterval: 4,
		AutostartTimer:    true,
	}
}

func newKeeper(t *testing.T, config model.TimeKeeperConfig) (*TimeKeeper, *clock.FakeClock, *recorder) {
	t.Helper()
	fake := clock.Fake(epoch)
	keeper := New(config, Options{Clock: fake})
	events := &recorder{}
	keeper.Handle(events)
	return keeper, fake, events
}

// finish advances the clock to the end of the current interval and polls.
func finish(keeper *TimeKeeper, fake *clock.FakeClock) {
	status := keeper.Status()
	fake.Set(status.End)
	keeper.Poll(fake.Now())
}

func equalTypes(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStartWorkAndExpire(t *testing.T) {
	keeper, fake, events := newKeeper(t, testConfig())
	keeper.Start(ModeWork)

	status := keeper.Status()
	if status.Mode != ModeWork || status.Paused {
		t.Fatalf("after Start: mode %s paused %v", status.Mode, status.Paused)
	}
	if got := status.End.Sub(status.Start); got != 25*time.Minute {
		t.Fatalf("interval length = %v, want 25m", got)
	}

	almost := epoch.Add(25*time.Minute - time.Millisecond)
	keeper.Poll(almost)
	if got := keeper.Remaining(almost); got != time.Millisecond {
		t.Errorf("Remaining() = %v, want 1ms", got)
	}
	if status := keeper.Status(); status.Mode != ModeWork || status.Paused {
		t.Errorf("before expiry: mode %s paused %v", status.Mode, status.Paused)
	}
	if _, ended := events.find(EventEnded); ended {
		t.Fatal("interval ended before its end time")
	}

	fake.Set(epoch.Add(25 * time.Minute))
	keeper.Poll(fake.Now())
	ended, ok := events.find(EventEnded)
	if !ok {
		t.Fatal("Poll at end time did not end the interval")
	}
	if ended.Mode != ModeWork || ended.Next != ModeShortBreak {
		t.Errorf("ended %s -> %s, want work -> short_break", ended.Mode, ended.Next)
	}
	if status := keeper.Status(); status.Mode != ModeShortBreak || status.CompletedWork != 1 {
		t.Errorf("after expiry: mode %s completed %d", status.Mode, status.CompletedWork)
	}
}

func TestEndOfWorkEventOrder(t *testing.T) {
	keeper, fake, events := newKeeper(t, testConfig())
	keeper.Start(ModeWork)
	events.reset()

	finish(keeper, fake)

	want := []EventType{EventWorkCompleted, EventEnded, EventStarted}
	if got := events.types(); !equalTypes(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	completed, _ := events.find(EventWorkCompleted)
	if !completed.Start.Equal(epoch) || completed.Length != 25*time.Minute {
		t.Errorf("work completed start %v length %v", completed.Start, completed.Length)
	}
	started, _ := events.find(EventStarted)
	if started.Mode != ModeShortBreak || started.Duration != 5*time.Minute {
		t.Errorf("started %s for %v, want short_break for 5m", started.Mode, started.Duration)
	}
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	keeper, fake, events := newKeeper(t, testConfig())
	keeper.Start(ModeWork)

	fake.Advance(10 * time.Minute)
	before := keeper.Remaining(fake.Now())
	keeper.Pause()

	fake.Advance(2 * time.Hour)
	if got := keeper.Remaining(fake.Now()); got != before {
		t.Errorf("Remaining() while paused = %v, want %v", got, before)
	}
	keeper.Poll(fake.Now())
	if status := keeper.Status(); status.Mode != ModeWork || !status.Paused {
		t.Fatalf("paused interval expired: mode %s paused %v", status.Mode, status.Paused)
	}

	keeper.Resume()
	if got := keeper.Remaining(fake.Now()); got != before {
		t.Errorf("Remaining() after resume = %v, want %v", got, before)
	}
	restarted, ok := events.find(EventRestarted)
	if !ok || restarted.Auto {
		t.Errorf("restarted event = %+v, found %v", restarted, ok)
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	keeper, fake, events := newKeeper(t, testConfig())
	keeper.Start(ModeWork)
	fake.Advance(time.Minute)

	keeper.Pause()
	once := keeper.Status()
	fake.Advance(time.Minute)
	keeper.Pause()
	twice := keeper.Status()

	if once != twice {
		t.Errorf("second Pause changed state: %+v vs %+v", once, twice)
	}
	paused := 0
	for _, eventType := range events.types() {
		if eventType == EventPaused {
			paused++
		}
	}
	if paused != 1 {
		t.Errorf("paused events = %d, want 1", paused)
	}
}

func TestInvalidTransitionsAreNoOps(t *testing.T) {
	keeper, _, events := newKeeper(t, testConfig())

	keeper.Pause()
	keeper.Resume()
	keeper.Toggle()
	keeper.Quit()
	keeper.Start(ModeIdle)

	if status := keeper.Status(); status.Active() {
		t.Errorf("idle keeper became active: %+v", status)
	}
	if got := events.types(); len(got) != 0 {
		t.Errorf("events = %v, want none", got)
	}
	if display := keeper.Poll(epoch); display != "" {
		t.Errorf("Poll() while idle = %q, want empty", display)
	}
}

func TestLongBreakCycle(t *testing.T) {
	keeper, fake, _ := newKeeper(t, testConfig())
	keeper.Start(ModeWork)

	var breaks []Mode
	for i := 0; i < 4; i++ {
		if mode := keeper.Status().Mode; mode != ModeWork {
			t.Fatalf("cycle %d: mode %s, want work", i, mode)
		}
		finish(keeper, fake)
		breaks = append(breaks, keeper.Status().Mode)
		finish(keeper, fake)
	}

	want := []Mode{ModeShortBreak, ModeShortBreak, ModeShortBreak, ModeLongBreak}
	for i := range want {
		if breaks[i] != want[i] {
			t.Fatalf("breaks = %v, want %v", breaks, want)
		}
	}
}

func TestAutoStop(t *testing.T) {
	config := testConfig()
	config.AutostartTimer = false
	config.NumAutoCycles = 1
	keeper, fake, events := newKeeper(t, config)

	keeper.Start(ModeWork)
	finish(keeper, fake)
	if status := keeper.Status(); status.Mode != ModeShortBreak || status.Paused {
		t.Fatalf("after work: mode %s paused %v, want running short break", status.Mode, status.Paused)
	}

	finish(keeper, fake)
	status := keeper.Status()
	if status.Mode != ModeWork || !status.Paused || !status.AutoPaused {
		t.Fatalf("after break: %+v, want auto-paused work", status)
	}
	if status.Remaining != 25*time.Minute {
		t.Errorf("primed remaining = %v, want 25m", status.Remaining)
	}
	if status.CyclesSinceAutoStop != 0 {
		t.Errorf("CyclesSinceAutoStop = %d, want 0", status.CyclesSinceAutoStop)
	}
	if _, ok := events.find(EventAutoPaused); !ok {
		t.Error("no auto-paused event")
	}

	fake.Advance(time.Hour)
	keeper.Resume()
	status = keeper.Status()
	if status.Paused || status.AutoPaused {
		t.Fatalf("after resume: %+v", status)
	}
	if got := status.End.Sub(status.Start); got != 25*time.Minute {
		t.Errorf("resumed length = %v, want 25m", got)
	}
	restarted, _ := events.find(EventRestarted)
	if !restarted.Auto {
		t.Error("restart out of auto-stop not flagged Auto")
	}
}

func TestAutoStopWithZeroCyclesPausesEveryInterval(t *testing.T) {
	config := testConfig()
	config.AutostartTimer = false
	config.NumAutoCycles = 0
	keeper, fake, _ := newKeeper(t, config)

	keeper.Start(ModeWork)
	finish(keeper, fake)
	if status := keeper.Status(); status.Mode != ModeShortBreak || !status.AutoPaused {
		t.Fatalf("after work: %+v, want auto-paused short break", status)
	}
}

func TestDayBoundaryResetsWorkCount(t *testing.T) {
	keeper, fake, _ := newKeeper(t, testConfig())

	keeper.Start(ModeWork)
	finish(keeper, fake)
	finish(keeper, fake)
	keeper.Start(ModeWork)
	finish(keeper, fake)
	if got := keeper.Status().CompletedWork; got != 2 {
		t.Fatalf("CompletedWork = %d, want 2", got)
	}
	keeper.Quit()
	keeper.Start(ModeWork)
	finish(keeper, fake)
	finish(keeper, fake)
	finish(keeper, fake)
	finish(keeper, fake)
	finish(keeper, fake)
	if got := keeper.Status().CompletedWork; got != 3 {
		t.Fatalf("CompletedWork = %d, want 3", got)
	}

	// The fourth work interval runs past midnight; the count restarts and
	// the interval counts as the first of the new day.
	fake.Set(time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC))
	keeper.Start(ModeWork)
	finish(keeper, fake)
	status := keeper.Status()
	if status.CompletedWork != 1 {
		t.Errorf("CompletedWork after midnight = %d, want 1", status.CompletedWork)
	}
	if status.Mode != ModeShortBreak {
		t.Errorf("mode after midnight = %s, want short_break", status.Mode)
	}
}

func TestExplicitStartOnNewDayResetsCount(t *testing.T) {
	keeper, fake, _ := newKeeper(t, testConfig())
	keeper.Start(ModeWork)
	finish(keeper, fake)
	if got := keeper.Status().CompletedWork; got != 1 {
		t.Fatalf("CompletedWork = %d, want 1", got)
	}

	fake.Set(epoch.Add(24 * time.Hour))
	keeper.Start(ModeWork)
	if got := keeper.Status().CompletedWork; got != 0 {
		t.Errorf("CompletedWork after new-day start = %d, want 0", got)
	}
}

func TestResumeAcrossMidnightKeepsCount(t *testing.T) {
	keeper, fake, _ := newKeeper(t, testConfig())
	fake.Set(time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC))
	keeper.Start(ModeWork)
	finish(keeper, fake)
	keeper.Start(ModeWork)
	keeper.Pause()

	fake.Set(time.Date(2026, 3, 15, 0, 30, 0, 0, time.UTC))
	keeper.Resume()
	if got := keeper.Status().CompletedWork; got != 1 {
		t.Errorf("CompletedWork after resume = %d, want 1", got)
	}
}

func TestQuitResets(t *testing.T) {
	keeper, fake, events := newKeeper(t, testConfig())
	keeper.Start(ModeWork)
	finish(keeper, fake)
	keeper.Quit()

	status := keeper.Status()
	if status.Active() || status.CompletedWork != 0 || status.CyclesSinceAutoStop != 0 {
		t.Errorf("after Quit: %+v", status)
	}
	if !status.Start.IsZero() || !status.End.IsZero() {
		t.Errorf("idle session carries timestamps: %v %v", status.Start, status.End)
	}
	quit, ok := events.find(EventQuit)
	if !ok || quit.Mode != ModeShortBreak {
		t.Errorf("quit event = %+v, found %v", quit, ok)
	}
}

func TestToggleAndActivate(t *testing.T) {
	keeper, _, _ := newKeeper(t, testConfig())

	keeper.Toggle()
	if keeper.Status().Active() {
		t.Fatal("Toggle started a session from idle")
	}

	keeper.Activate()
	if status := keeper.Status(); status.Mode != ModeWork || status.Paused {
		t.Fatalf("Activate from idle: %+v", status)
	}
	keeper.Activate()
	if !keeper.Status().Paused {
		t.Fatal("second Activate did not pause")
	}
	keeper.Toggle()
	if keeper.Status().Paused {
		t.Fatal("Toggle did not resume")
	}
}

func TestStartNext(t *testing.T) {
	keeper, _, _ := newKeeper(t, testConfig())
	keeper.StartNext()
	if mode := keeper.Status().Mode; mode != ModeWork {
		t.Fatalf("StartNext from idle = %s, want work", mode)
	}
	keeper.Start(ModeShortBreak)
	keeper.StartNext()
	if mode := keeper.Status().Mode; mode != ModeWork {
		t.Fatalf("StartNext from break = %s, want work", mode)
	}
}

func TestStartNextFromWork(t *testing.T) {
	keeper, fake, _ := newKeeper(t, testConfig())

	keeper.Start(ModeWork)
	keeper.StartNext()
	status := keeper.Status()
	if status.Mode != ModeShortBreak || status.CompletedWork != 0 {
		t.Fatalf("skipping the first pomodoro = %s with %d done, want short_break with 0", status.Mode, status.CompletedWork)
	}

	for range 3 {
		keeper.Start(ModeWork)
		finish(keeper, fake)
	}
	if done := keeper.Status().CompletedWork; done != 3 {
		t.Fatalf("CompletedWork = %d, want 3", done)
	}
	keeper.Start(ModeWork)
	keeper.StartNext()
	if mode := keeper.Status().Mode; mode != ModeLongBreak {
		t.Fatalf("skipping the fourth pomodoro = %s, want long_break", mode)
	}
}

func TestPollDisplay(t *testing.T) {
	config := testConfig()
	config.Emoji = true
	keeper, fake, _ := newKeeper(t, config)
	keeper.Start(ModeWork)

	fake.Advance(90 * time.Second)
	if got, want := keeper.Poll(fake.Now()), "🍅 23:30"; got != want {
		t.Errorf("Poll() = %q, want %q", got, want)
	}

	keeper.Start(ModeLongBreak)
	keeper.Pause()
	fake.Advance(time.Hour)
	if got, want := keeper.Poll(fake.Now()), "🏖️ 15:00"; got != want {
		t.Errorf("Poll() while paused = %q, want %q", got, want)
	}
}

func TestDurationPanicsForIdle(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Duration(Idle) did not panic")
		}
	}()
	Duration(testConfig(), ModeIdle)
}

type fakeIdle struct {
	idle time.Duration
	err  error
}

func (f fakeIdle) IdleDuration() (time.Duration, error) { return f.idle, f.err }

func TestIdlePause(t *testing.T) {
	config := testConfig()
	config.IdlePauseAfter = 5 * time.Minute
	keeper, fake, events := newKeeper(t, config)
	keeper.SetIdleChecker(fakeIdle{idle: 6 * time.Minute})

	keeper.Start(ModeWork)
	fake.Advance(time.Minute)
	keeper.Poll(fake.Now())

	if !keeper.Status().Paused {
		t.Fatal("idle user did not pause the work interval")
	}
	if _, ok := events.find(EventIdlePaused); !ok {
		t.Error("no idle-paused event")
	}
}

func TestIdleUnsupportedDisablesCheck(t *testing.T) {
	config := testConfig()
	config.IdlePauseAfter = time.Minute
	keeper, fake, events := newKeeper(t, config)
	keeper.SetIdleChecker(fakeIdle{err: ErrIdleUnsupported})

	keeper.Start(ModeWork)
	keeper.Poll(fake.Now())
	if keeper.Config().IdlePauseAfter != 0 {
		t.Error("unsupported idle detection left the check enabled")
	}
	if _, ok := events.find(EventIdleError); !ok {
		t.Error("no idle error event")
	}

	keeper.SetIdleChecker(fakeIdle{err: errors.New("boom")})
	fake.Advance(time.Minute)
	keeper.Poll(fake.Now())
	if keeper.Status().Paused {
		t.Error("disabled idle check paused the timer")
	}
}

func TestRunPublishesTicks(t *testing.T) {
	fake := clock.Fake(epoch)
	keeper := New(testConfig(), Options{Clock: fake, TickInterval: time.Second})
	ticks := keeper.Subscribe(8)
	keeper.Start(ModeWork)
	<-ticks // started

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		keeper.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for fake.Pending() == 0 {
		select {
		case <-deadline:
			t.Fatal("Run did not register its ticker")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	for {
		fake.Advance(time.Second)
		select {
		case event := <-ticks:
			if event.Type != EventTick {
				continue
			}
			if event.Display == "" {
				t.Error("tick without display")
			}
			cancel()
			<-done
			keeper.Close()
			if _, open := <-ticks; open {
				// drain any remaining buffered event
				for range ticks {
				}
			}
			return
		case <-deadline:
			t.Fatal("no tick event")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSubscribeAfterClose(t *testing.T) {
	keeper := New(testConfig(), Options{Clock: clock.Fake(epoch)})
	keeper.Close()
	if _, open := <-keeper.Subscribe(1); open {
		t.Error("Subscribe after Close returned an open channel")
	}
}
