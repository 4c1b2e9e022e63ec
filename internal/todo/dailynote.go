package todo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pomotodo/internal/core/clock"
	"pomotodo/internal/core/model"
)

// ErrTodoNotFound is returned when no open line carries the identifier.
var ErrTodoNotFound = errors.New("todo not found in daily note")

// DefaultLayout names daily notes like 2026-03-14.md.
const DefaultLayout = "2006-01-02"

// DailyNote is the markdown file for the current day inside Dir.
type DailyNote struct {
	Dir    string
	Layout string
	Clock  clock.Clock

	mu       sync.Mutex
	configMu sync.RWMutex
	moved    chan struct{}
}

// NewDailyNote creates a DailyNote. An empty layout means DefaultLayout.
func NewDailyNote(dir, layout string, clk clock.Clock) *DailyNote {
	if layout == "" {
		layout = DefaultLayout
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &DailyNote{Dir: dir, Layout: layout, Clock: clk, moved: make(chan struct{}, 1)}
}

// Configure moves the note to another directory or naming layout.
func (note *DailyNote) Configure(dir, layout string) {
	if layout == "" {
		layout = DefaultLayout
	}
	note.configMu.Lock()
	defer note.configMu.Unlock()
	if dir == note.Dir && layout == note.Layout {
		return
	}
	note.Dir = dir
	note.Layout = layout
	if note.moved != nil {
		select {
		case note.moved <- struct{}{}:
		default:
		}
	}
}

// Moved is signalled after Configure changed the directory or layout.
func (note *DailyNote) Moved() <-chan struct{} {
	note.configMu.Lock()
	defer note.configMu.Unlock()
	if note.moved == nil {
		note.moved = make(chan struct{}, 1)
	}
	return note.moved
}

// Path returns the note file for the day containing now.
func (note *DailyNote) Path(now time.Time) string {
	note.configMu.RLock()
	defer note.configMu.RUnlock()
	return filepath.Join(note.Dir, now.Format(note.Layout)+".md")
}

// Directory returns the folder holding the notes.
func (note *DailyNote) Directory() string {
	note.configMu.RLock()
	defer note.configMu.RUnlock()
	return note.Dir
}

// Current returns today's note file.
func (note *DailyNote) Current() string {
	return note.Path(note.Clock.Now())
}

// Todos parses today's note. A missing note yields an error wrapping
// fs.ErrNotExist.
func (note *DailyNote) Todos(ctx context.Context) ([]model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(note.Current())
	if err != nil {
		return nil, fmt.Errorf("read daily note: %w", err)
	}
	return Parse(string(content)), nil
}

// MarkComplete checks off the top-level todo linked to id.
func (note *DailyNote) MarkComplete(ctx context.Context, id, stamp string) error {
	return note.rewrite(ctx, func(content string) (string, error) {
		updated, ok := MarkComplete(content, id, stamp)
		if !ok {
			return "", fmt.Errorf("mark %s: %w", id, ErrTodoNotFound)
		}
		return updated, nil
	})
}

// MarkSubComplete checks off the sub-todo linked to id.
func (note *DailyNote) MarkSubComplete(ctx context.Context, id, stamp string) error {
	return note.rewrite(ctx, func(content string) (string, error) {
		updated, ok := MarkSubComplete(content, id, stamp)
		if !ok {
			return "", fmt.Errorf("mark %s: %w", id, ErrTodoNotFound)
		}
		return updated, nil
	})
}

// Link creates remote todos for the unlinked lines of today's note and
// returns how many lines were linked. Lines linked before a failure are
// still saved.
func (note *DailyNote) Link(ctx context.Context, creator Creator) (int, error) {
	linked := 0
	var linkErr error
	err := note.rewrite(ctx, func(content string) (string, error) {
		var updated string
		updated, linked, linkErr = Link(ctx, content, creator)
		if linked == 0 && linkErr != nil {
			return "", linkErr
		}
		return updated, nil
	})
	if err != nil {
		return linked, err
	}
	return linked, linkErr
}

func (note *DailyNote) rewrite(ctx context.Context, edit func(content string) (string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	note.mu.Lock()
	defer note.mu.Unlock()

	path := note.Current()
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat daily note: %w", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read daily note: %w", err)
	}
	updated, err := edit(string(raw))
	if err != nil {
		return err
	}
	if updated == string(raw) {
		return nil
	}
	return writeFileAtomic(path, []byte(updated), info.Mode().Perm())
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	temp, err := os.CreateTemp(filepath.Dir(path), ".pomotodo-*")
	if err != nil {
		return fmt.Errorf("create temp note: %w", err)
	}
	tempName := temp.Name()
	defer os.Remove(tempName)

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return fmt.Errorf("write temp note: %w", err)
	}
	if err := temp.Chmod(perm); err != nil {
		temp.Close()
		return fmt.Errorf("chmod temp note: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("close temp note: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace daily note: %w", err)
	}
	return nil
}
