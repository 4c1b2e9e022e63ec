package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"pomotodo/internal/control"
	"pomotodo/internal/core/model"
	"pomotodo/internal/history"
)

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		status control.Status
		want   string
	}{
		{control.Status{Mode: "idle", CompletedWork: 3}, "idle"},
		{control.Status{Mode: "work", RemainingMS: 90_000, CompletedWork: 1}, "work 01:30, 1 pomodoros today"},
		{control.Status{Mode: "short_break", Paused: true, RemainingMS: 60_000}, "short break 01:00 (paused), 0 pomodoros today"},
		{control.Status{Mode: "long_break", Paused: true, AutoPaused: true, RemainingMS: 900_000, CompletedWork: 4}, "long break 15:00 (waiting), 4 pomodoros today"},
	}
	for _, tt := range tests {
		if got := formatStatus(tt.status); got != tt.want {
			t.Errorf("formatStatus(%+v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestPrintTodos(t *testing.T) {
	var out bytes.Buffer
	printTodos(&out, []model.Todo{
		{Description: "write report", Identifier: "a", SubTodos: []model.Todo{{Description: "outline"}}},
	})
	want := "- write report [a]\n    - outline [not linked]\n"
	if out.String() != want {
		t.Errorf("printTodos() = %q, want %q", out.String(), want)
	}

	out.Reset()
	printTodos(&out, nil)
	if out.String() != "No open todos.\n" {
		t.Errorf("printTodos(nil) = %q", out.String())
	}
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, history.Summary{
		Day:           time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local),
		WorkIntervals: 2,
		WorkTime:      50 * time.Minute,
		Pomos:         1,
	})
	for _, want := range []string{"Saturday, 14 March 2026", "Work intervals:   2 (50m0s)", "Logged pomodoros: 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}
}

func TestLinkNotice(t *testing.T) {
	if got := linkNotice(2, nil); got != "Linked 2 todos." {
		t.Errorf("linkNotice() = %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"tray", "tui", "start", "activate", "pause", "resume", "toggle", "next", "quit", "status", "todos", "link", "stats"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
}
