package todo

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"pomotodo/internal/core/model"
)

// Watcher reports the todos of today's note whenever the file changes.
type Watcher struct {
	note    *DailyNote
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	moved   <-chan struct{}
	// dir is the directory currently watched, "" when none.
	dir string
}

// NewWatcher watches the directory that holds note. Editors often replace
// files instead of writing them, so the file itself is not watched. A
// directory that cannot be watched is logged and retried when the note is
// configured again.
func NewWatcher(note *DailyNote, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create note watcher: %w", err)
	}
	w := &Watcher{note: note, watcher: watcher, logger: logger, moved: note.Moved()}
	if err := w.retarget(); err != nil {
		logger.Warn("daily note changes will not be picked up", "error", err)
	}
	return w, nil
}

// Run calls onChange with the parsed todos after every change to today's
// note, and after the note moved to another directory, until ctx is done.
// The watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func([]model.Todo)) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.moved:
			if err := w.retarget(); err != nil {
				w.logger.Warn("daily note changes will not be picked up", "error", err)
				continue
			}
			w.reload(ctx, onChange)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.reload(ctx, onChange)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("note watcher", "error", err)
		}
	}
}

// retarget moves the fsnotify watch to the note's current directory.
func (w *Watcher) retarget() error {
	dir := watchDir(w.note.Directory())
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
		w.dir = ""
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch notes dir %s: %w", dir, err)
	}
	w.dir = dir
	return nil
}

func (w *Watcher) reload(ctx context.Context, onChange func([]model.Todo)) {
	todos, err := w.note.Todos(ctx)
	if err != nil {
		w.logger.Debug("reload daily note", "error", err)
		return
	}
	onChange(todos)
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.note.Current())
}

// watchDir maps an empty notes directory to the working directory, which is
// where relative note paths resolve.
func watchDir(dir string) string {
	if dir == "" {
		return "."
	}
	return filepath.Clean(dir)
}
