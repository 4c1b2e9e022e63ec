package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pomotodo/internal/core/clock"
	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/internal/handoff"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history", "pomotodo.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSummary(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	intervals := []Interval{
		{Mode: "work", Start: day.Add(9 * time.Hour), End: day.Add(9*time.Hour + 25*time.Minute), Outcome: OutcomeCompleted},
		{Mode: "short_break", Start: day.Add(9*time.Hour + 25*time.Minute), End: day.Add(9*time.Hour + 30*time.Minute), Outcome: OutcomeCompleted},
		{Mode: "work", Start: day.Add(10 * time.Hour), End: day.Add(10*time.Hour + 10*time.Minute), Outcome: OutcomeQuit},
		{Mode: "work", Start: day.Add(-time.Hour), End: day.Add(-35 * time.Minute), Outcome: OutcomeCompleted},
	}
	for _, interval := range intervals {
		if err := store.RecordInterval(ctx, interval); err != nil {
			t.Fatalf("RecordInterval() error = %v", err)
		}
	}
	entries := []handoff.Entry{
		{PomoID: "p1", TodoID: "abc123", Description: "buy milk", Start: day.Add(9 * time.Hour), Length: 25 * time.Minute, Completed: true},
		{PomoID: "p2", Description: "email", Start: day.Add(10 * time.Hour), Length: 25 * time.Minute},
	}
	for _, entry := range entries {
		if err := store.RecordPomo(ctx, entry); err != nil {
			t.Fatalf("RecordPomo() error = %v", err)
		}
	}

	summary, err := store.Summary(ctx, day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	want := Summary{
		Day:            day,
		WorkIntervals:  1,
		WorkTime:       35 * time.Minute,
		BreakTime:      5 * time.Minute,
		Pomos:          2,
		CompletedTodos: 1,
	}
	if summary != want {
		t.Errorf("Summary() = %+v, want %+v", summary, want)
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Outcome != OutcomeQuit || recent[0].ID == "" {
		t.Errorf("Recent() = %+v", recent)
	}
}

func TestRecorderJournalsTimer(t *testing.T) {
	store := openTestStore(t)
	clk := clock.Fake(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	keeper := timekeeper.New(model.TimeKeeperConfig{
		Work:              25 * time.Minute,
		ShortBreak:        5 * time.Minute,
		LongBreak:         15 * time.Minute,
		LongBreakInterval: 4,
		AutostartTimer:    true,
	}, timekeeper.Options{Clock: clk})
	keeper.Handle(NewRecorder(store, nil))

	keeper.Start(timekeeper.ModeWork)
	clk.Advance(10 * time.Minute)
	keeper.Pause()
	clk.Advance(5 * time.Minute)
	keeper.Resume()
	clk.Advance(15 * time.Minute)
	keeper.Poll(clk.Now())
	clk.Advance(2 * time.Minute)
	keeper.Quit()

	recent, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("journaled %d intervals, want 2: %+v", len(recent), recent)
	}
	work, breakInterval := recent[1], recent[0]
	if work.Mode != "work" || work.Outcome != OutcomeCompleted || work.End.Sub(work.Start) != 30*time.Minute {
		t.Errorf("work interval = %+v", work)
	}
	if breakInterval.Mode != "short_break" || breakInterval.Outcome != OutcomeQuit || breakInterval.End.Sub(breakInterval.Start) != 2*time.Minute {
		t.Errorf("break interval = %+v", breakInterval)
	}
}

func TestRecorderJournalsSkippedInterval(t *testing.T) {
	store := openTestStore(t)
	clk := clock.Fake(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	keeper := timekeeper.New(model.TimeKeeperConfig{
		Work:              25 * time.Minute,
		ShortBreak:        5 * time.Minute,
		LongBreak:         15 * time.Minute,
		LongBreakInterval: 4,
	}, timekeeper.Options{Clock: clk})
	keeper.Handle(NewRecorder(store, nil))

	keeper.Start(timekeeper.ModeWork)
	clk.Advance(10 * time.Minute)
	keeper.StartNext()
	clk.Advance(time.Minute)
	keeper.Start(timekeeper.ModeWork)
	clk.Advance(3 * time.Minute)
	keeper.Quit()

	recent, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 {
		t.Fatalf("journaled %d intervals, want 3: %+v", len(recent), recent)
	}
	tests := []struct {
		mode    string
		outcome string
		length  time.Duration
	}{
		{"work", OutcomeQuit, 3 * time.Minute},
		{"short_break", OutcomeSkipped, time.Minute},
		{"work", OutcomeSkipped, 10 * time.Minute},
	}
	for i, tt := range tests {
		got := recent[i]
		if got.Mode != tt.mode || got.Outcome != tt.outcome || got.End.Sub(got.Start) != tt.length {
			t.Errorf("recent[%d] = %+v, want %s %s %v", i, got, tt.mode, tt.outcome, tt.length)
		}
	}

	summary, err := store.Summary(context.Background(), clk.Now())
	if err != nil {
		t.Fatal(err)
	}
	if summary.WorkIntervals != 0 || summary.WorkTime != 13*time.Minute {
		t.Errorf("Summary() = %+v, want no completed work in 13m", summary)
	}
}

func TestRecorderSkipsUnresumedAutoPause(t *testing.T) {
	store := openTestStore(t)
	recorder := NewRecorder(store, nil)
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	recorder.HandleEvent(timekeeper.Event{Type: timekeeper.EventAutoPaused, Mode: timekeeper.ModeWork, At: at})
	recorder.HandleEvent(timekeeper.Event{Type: timekeeper.EventQuit, Mode: timekeeper.ModeWork, At: at.Add(time.Hour)})

	recent, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Errorf("journaled primed interval: %+v", recent)
	}
}
