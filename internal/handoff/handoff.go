// Package handoff links a finished work interval to a todo: it asks the
// user what they worked on, logs the pomodoro remotely and checks the todo
// off in the daily note.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/internal/notify"
	"pomotodo/internal/pomotodo"
)

const (
	// StampLayout renders completion times in the note.
	StampLayout = "1/2/2006 3:04:05 PM"

	// Prompt is shown above the todo list.
	Prompt = "What have you done last pomo?"
)

// ErrSelectionCancelled is returned by a Selector when the user dismisses
// the list. It is not reported as a failure.
var ErrSelectionCancelled = errors.New("selection cancelled")

// Source lists the open todos.
type Source interface {
	Todos(ctx context.Context) ([]model.Todo, error)
}

// Sink rewrites note lines as completed.
type Sink interface {
	MarkComplete(ctx context.Context, id, stamp string) error
	MarkSubComplete(ctx context.Context, id, stamp string) error
}

// Remote is the part of the Pomotodo API used here.
type Remote interface {
	CreatePomo(ctx context.Context, pomo pomotodo.Pomo) (string, error)
	FinishTodo(ctx context.Context, id string) (string, error)
	FinishSubTodo(ctx context.Context, parentID, id string) (string, error)
}

// Selection is the user's answer.
type Selection struct {
	Choice model.Choice
	// Complete asks for the todo to be finished as well.
	Complete bool
}

// Selector presents choices and blocks until the user picks one.
type Selector interface {
	Select(ctx context.Context, prompt string, choices []model.Choice) (Selection, error)
}

// Entry describes one logged pomodoro.
type Entry struct {
	PomoID      string
	TodoID      string
	Description string
	Start       time.Time
	Length      time.Duration
	Completed   bool
}

// Journal keeps a local record of logged pomodoros.
type Journal interface {
	RecordPomo(ctx context.Context, entry Entry) error
}

// Options are the collaborators of a Handoff. Journal and Logger may be nil.
type Options struct {
	Source   Source
	Sink     Sink
	Remote   Remote
	Selector Selector
	Notices  notify.Noticer
	Journal  Journal
	Logger   *slog.Logger
	// Location renders completion stamps. Nil means Asia/Shanghai, or UTC
	// when the zone database is unavailable.
	Location *time.Location
}

// Handoff is a timekeeper.Handler reacting to EventWorkCompleted.
type Handoff struct {
	options Options

	mu         sync.Mutex
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	running    sync.WaitGroup
}

// New creates a Handoff.
func New(options Options) *Handoff {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Location == nil {
		options.Location = DefaultLocation()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Handoff{options: options, ctx: ctx, cancel: cancel}
}

// DefaultLocation is the zone used for completion stamps.
func DefaultLocation() *time.Location {
	location, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.UTC
	}
	return location
}

// SetLocation changes the zone of later completion stamps.
func (handoff *Handoff) SetLocation(location *time.Location) {
	if location == nil {
		return
	}
	handoff.mu.Lock()
	defer handoff.mu.Unlock()
	handoff.options.Location = location
}

// SetRemote replaces the remote API client, for example after the key changed.
func (handoff *Handoff) SetRemote(remote Remote) {
	handoff.mu.Lock()
	defer handoff.mu.Unlock()
	handoff.options.Remote = remote
}

// HandleEvent implements timekeeper.Handler. The handoff runs on its own
// goroutine.
func (handoff *Handoff) HandleEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventWorkCompleted:
		handoff.mu.Lock()
		generation := handoff.generation
		ctx := handoff.ctx
		handoff.mu.Unlock()

		handoff.running.Add(1)
		go func() {
			defer handoff.running.Done()
			handoff.run(ctx, generation, event.Start, event.Length)
		}()
	case timekeeper.EventQuit:
		handoff.mu.Lock()
		handoff.generation++
		handoff.mu.Unlock()
	}
}

// Wait blocks until running handoffs return.
func (handoff *Handoff) Wait() {
	handoff.running.Wait()
}

// Close cancels running handoffs and waits for them.
func (handoff *Handoff) Close() {
	handoff.cancel()
	handoff.running.Wait()
}

// Complete performs one handoff for a work interval that began at start
// and lasted length. It returns nil when the user cancels.
func (handoff *Handoff) Complete(ctx context.Context, start time.Time, length time.Duration) (Entry, error) {
	handoff.mu.Lock()
	options := handoff.options
	handoff.mu.Unlock()

	entry := Entry{Start: start, Length: length}
	todos, err := options.Source.Todos(ctx)
	if err != nil {
		return entry, fmt.Errorf("load todos: %w", err)
	}
	choices := model.Flatten(todos)
	if len(choices) == 0 {
		options.Logger.Info("no open todos to log pomodoro against")
		return entry, nil
	}

	selection, err := options.Selector.Select(ctx, Prompt, choices)
	if err != nil {
		return entry, err
	}
	todo := selection.Choice.Todo
	entry.Description = todo.Description
	entry.TodoID = todo.Identifier

	pomoID, err := options.Remote.CreatePomo(ctx, pomotodo.Pomo{
		Description: todo.Description,
		StartedAt:   start,
		Length:      length,
	})
	if err != nil {
		return entry, err
	}
	entry.PomoID = pomoID

	if selection.Complete {
		completed, err := handoff.finish(ctx, options, selection.Choice, start.Add(length))
		if err != nil {
			return entry, err
		}
		entry.Completed = completed
	}

	if options.Journal != nil {
		if err := options.Journal.RecordPomo(ctx, entry); err != nil {
			options.Logger.Warn("record pomo", "error", err)
		}
	}
	return entry, nil
}

func (handoff *Handoff) finish(ctx context.Context, options Options, choice model.Choice, end time.Time) (bool, error) {
	todo := choice.Todo
	if !todo.Linked() {
		options.Logger.Info("todo is not linked, skipping completion", "todo", todo.Description)
		return false, nil
	}

	var (
		returned string
		err      error
	)
	if choice.Parent != nil {
		if !choice.Parent.Linked() {
			options.Logger.Info("parent todo is not linked, skipping completion", "todo", todo.Description)
			return false, nil
		}
		returned, err = options.Remote.FinishSubTodo(ctx, choice.Parent.Identifier, todo.Identifier)
	} else {
		returned, err = options.Remote.FinishTodo(ctx, todo.Identifier)
	}
	if err != nil {
		return false, fmt.Errorf("finish todo: %w", err)
	}
	if returned != todo.Identifier {
		options.Logger.Warn("remote finished another todo", "want", todo.Identifier, "got", returned)
		return false, nil
	}

	stamp := end.In(options.Location).Format(StampLayout)
	if choice.Parent != nil {
		err = options.Sink.MarkSubComplete(ctx, todo.Identifier, stamp)
	} else {
		err = options.Sink.MarkComplete(ctx, todo.Identifier, stamp)
	}
	if err != nil {
		return false, fmt.Errorf("update daily note: %w", err)
	}
	return true, nil
}

func (handoff *Handoff) run(ctx context.Context, generation uint64, start time.Time, length time.Duration) {
	entry, err := handoff.Complete(ctx, start, length)
	if err == nil || errors.Is(err, ErrSelectionCancelled) {
		return
	}

	handoff.mu.Lock()
	stale := generation != handoff.generation
	options := handoff.options
	handoff.mu.Unlock()

	options.Logger.Error("pomodoro handoff failed", "todo", entry.Description, "error", err)
	if stale || options.Notices == nil || errors.Is(err, context.Canceled) {
		return
	}
	options.Notices.Notice(fmt.Sprintf("task %s uploaded failed: %s", entry.Description, err))
}
