package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/internal/handoff"
)

type fakeTimer struct {
	calls  []string
	status timekeeper.Status
}

func (timer *fakeTimer) Start(mode timekeeper.Mode) { timer.calls = append(timer.calls, "start "+mode.String()) }
func (timer *fakeTimer) StartNext()                 { timer.calls = append(timer.calls, "next") }
func (timer *fakeTimer) Activate()                  { timer.calls = append(timer.calls, "activate") }
func (timer *fakeTimer) Toggle()                    { timer.calls = append(timer.calls, "toggle") }
func (timer *fakeTimer) Quit()                      { timer.calls = append(timer.calls, "quit") }
func (timer *fakeTimer) Status() timekeeper.Status  { return timer.status }
func (timer *fakeTimer) Config() model.TimeKeeperConfig {
	return model.TimeKeeperConfig{Emoji: true}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(timer *fakeTimer) Model {
	return NewModel(timer, make(chan timekeeper.Event), make(chan pickRequest), make(chan string))
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

var testChoices = []model.Choice{
	{Todo: model.Todo{Description: "write report", Identifier: "a"}},
	{Todo: model.Todo{Description: "outline", Identifier: "a1"}, Parent: &model.Todo{Description: "write report", Identifier: "a"}},
}

func TestTimerKeys(t *testing.T) {
	timer := &fakeTimer{}
	m := newTestModel(timer)

	for _, msg := range []tea.KeyMsg{runes("s"), runes("b"), runes("l"), {Type: tea.KeySpace}, runes("p"), runes("n"), runes("x")} {
		m, _ = update(t, m, msg)
	}

	want := []string{"start work", "start short_break", "start long_break", "activate", "toggle", "next", "quit"}
	if strings.Join(timer.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", timer.calls, want)
	}
}

func TestExitKeyQuits(t *testing.T) {
	m := newTestModel(&fakeTimer{})
	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("exit key returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("exit key did not quit")
	}
}

func TestEventUpdatesDisplay(t *testing.T) {
	m := newTestModel(&fakeTimer{})
	status := timekeeper.Status{Mode: timekeeper.ModeWork, Remaining: 12 * time.Minute, CompletedWork: 2}

	m, _ = update(t, m, eventMsg(timekeeper.Event{Type: timekeeper.EventStarted, Status: status}))
	if m.display != "🍅 12:00" {
		t.Errorf("display = %q, want 🍅 12:00", m.display)
	}

	m, _ = update(t, m, eventMsg(timekeeper.Event{Type: timekeeper.EventTick, Display: "🍅 11:59", Status: status}))
	if !strings.Contains(m.View(), "11:59") {
		t.Error("view does not show the tick display")
	}
	if !strings.Contains(m.View(), "Pomodoro · 2 done today") {
		t.Errorf("view missing status line:\n%s", m.View())
	}
}

func TestPickerCompletesSelection(t *testing.T) {
	m := newTestModel(&fakeTimer{})
	request := pickRequest{prompt: handoff.Prompt, choices: testChoices, reply: make(chan outcome, 1)}

	m, _ = update(t, m, request)
	if !strings.Contains(m.View(), handoff.Prompt) {
		t.Fatal("picker not shown")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	result := <-request.reply
	if result.err != nil {
		t.Fatalf("err = %v", result.err)
	}
	if result.selection.Choice.Todo.Identifier != "a1" || !result.selection.Complete {
		t.Errorf("selection = %+v, want a1 completed", result.selection)
	}
	if len(m.picks) != 0 {
		t.Error("picker still open")
	}
}

func TestPickerLogOnlyAndCancel(t *testing.T) {
	m := newTestModel(&fakeTimer{})
	first := pickRequest{prompt: "first", choices: testChoices, reply: make(chan outcome, 1)}
	second := pickRequest{prompt: "second", choices: testChoices, reply: make(chan outcome, 1)}

	m, _ = update(t, m, first)
	m, _ = update(t, m, second)
	if !strings.Contains(m.View(), "1 more waiting") {
		t.Error("queued request not announced")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if result := <-first.reply; result.err != nil || result.selection.Complete {
		t.Errorf("first = %+v, want log only", result)
	}

	timer := m.timer.(*fakeTimer)
	m, _ = update(t, m, runes("s"))
	if len(timer.calls) != 0 {
		t.Error("timer key handled while picker open")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if result := <-second.reply; !errors.Is(result.err, handoff.ErrSelectionCancelled) {
		t.Errorf("second err = %v, want cancelled", result.err)
	}
}

func TestWithdrawnPickIsDropped(t *testing.T) {
	m := newTestModel(&fakeTimer{})
	ctx, cancel := context.WithCancel(context.Background())
	request := pickRequest{prompt: "late", choices: testChoices, reply: make(chan outcome, 1), done: ctx.Done()}

	m, _ = update(t, m, request)
	cancel()
	m, _ = update(t, m, eventMsg(timekeeper.Event{Type: timekeeper.EventTick}))
	if len(m.picks) != 0 {
		t.Error("withdrawn request still shown")
	}
}

func TestEventsClosedCancelsPicks(t *testing.T) {
	m := newTestModel(&fakeTimer{})
	request := pickRequest{prompt: "p", choices: testChoices, reply: make(chan outcome, 1)}
	m, _ = update(t, m, request)

	_, cmd := update(t, m, eventsClosedMsg{})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("closed events did not quit")
	}
	if result := <-request.reply; !errors.Is(result.err, handoff.ErrSelectionCancelled) {
		t.Errorf("err = %v, want cancelled", result.err)
	}
}

func TestHostSelectAfterExit(t *testing.T) {
	host := NewHost()
	host.once.Do(func() { close(host.done) })

	_, err := host.Select(context.Background(), "p", testChoices)
	if !errors.Is(err, handoff.ErrSelectionCancelled) {
		t.Errorf("Select() err = %v, want cancelled", err)
	}
}

func TestHostNoticeDoesNotBlock(t *testing.T) {
	host := NewHost()
	for i := 0; i < noticeBuffer*2; i++ {
		host.Notice("message")
	}
	if len(host.notices) != noticeBuffer {
		t.Errorf("buffered = %d, want %d", len(host.notices), noticeBuffer)
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		status timekeeper.Status
		want   string
	}{
		{timekeeper.Status{}, "Idle"},
		{timekeeper.Status{Mode: timekeeper.ModeShortBreak, Paused: true, CompletedWork: 1}, "Short break (paused) · 1 done today"},
		{timekeeper.Status{Mode: timekeeper.ModeWork, Paused: true, AutoPaused: true, CompletedWork: 4}, "Pomodoro (waiting) · 4 done today"},
	}
	for _, tt := range tests {
		if got := StatusLine(tt.status); got != tt.want {
			t.Errorf("StatusLine(%+v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
