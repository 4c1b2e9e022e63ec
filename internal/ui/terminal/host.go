package terminal

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/internal/handoff"
)

const noticeBuffer = 8

// Host runs the terminal UI and serves handoff selections and notices to it.
// Select and Notice may be called before Run; requests wait for the program.
type Host struct {
	requests chan pickRequest
	notices  chan string
	done     chan struct{}
	once     sync.Once
}

// NewHost creates a terminal host.
func NewHost() *Host {
	return &Host{
		requests: make(chan pickRequest),
		notices:  make(chan string, noticeBuffer),
		done:     make(chan struct{}),
	}
}

// Select implements handoff.Selector. It returns ErrSelectionCancelled once
// the program has exited.
func (host *Host) Select(ctx context.Context, prompt string, choices []model.Choice) (handoff.Selection, error) {
	if len(choices) == 0 {
		return handoff.Selection{}, handoff.ErrSelectionCancelled
	}
	request := pickRequest{
		prompt:  prompt,
		choices: choices,
		reply:   make(chan outcome, 1),
		done:    ctx.Done(),
	}
	select {
	case host.requests <- request:
	case <-ctx.Done():
		return handoff.Selection{}, ctx.Err()
	case <-host.done:
		return handoff.Selection{}, handoff.ErrSelectionCancelled
	}

	select {
	case result := <-request.reply:
		return result.selection, result.err
	case <-ctx.Done():
		return handoff.Selection{}, ctx.Err()
	case <-host.done:
		return handoff.Selection{}, handoff.ErrSelectionCancelled
	}
}

// Notice implements notify.Noticer. Messages are dropped when the screen
// is not keeping up.
func (host *Host) Notice(message string) {
	select {
	case host.notices <- message:
	default:
	}
}

// Run shows the UI until the user exits, events is closed, or ctx is done.
func (host *Host) Run(ctx context.Context, timer Timer, events <-chan timekeeper.Event) error {
	defer host.once.Do(func() { close(host.done) })

	program := tea.NewProgram(
		NewModel(timer, events, host.requests, host.notices),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
