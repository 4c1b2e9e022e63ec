// Package todo reads and rewrites the checklist lines of a daily note.
//
// A top-level todo is a line starting with "- [ ]", a sub-todo a line
// starting with "\t- [ ]" that belongs to the closest top-level todo above
// it. Text after the first "^" is the remote identifier.
package todo

import (
	"context"
	"fmt"
	"strings"

	"pomotodo/internal/core/model"
)

const (
	openPrefix    = "- [ ]"
	subOpenPrefix = "\t- [ ]"
	donePrefix    = "- [x]"
	idMarker      = "^"
)

// Parse extracts the open todos of a note. Sub-todos that appear before
// any top-level todo are ignored.
func Parse(content string) []model.Todo {
	var todos []model.Todo
	for index, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, openPrefix):
			todo := parseLine(line[len(openPrefix):])
			todo.Line = index
			todos = append(todos, todo)
		case strings.HasPrefix(line, subOpenPrefix):
			if len(todos) == 0 {
				continue
			}
			sub := parseLine(line[len(subOpenPrefix):])
			sub.Line = index
			parent := &todos[len(todos)-1]
			parent.SubTodos = append(parent.SubTodos, sub)
		}
	}
	return todos
}

func parseLine(rest string) model.Todo {
	description, identifier, _ := strings.Cut(rest, idMarker)
	return model.Todo{
		Description: strings.TrimSpace(description),
		Identifier:  strings.TrimSpace(identifier),
	}
}

// MarkComplete checks off the first open top-level todo linked to id and
// appends the completion stamp. It reports whether a line was changed.
func MarkComplete(content, id, stamp string) (string, bool) {
	return mark(content, openPrefix, "", id, stamp)
}

// MarkSubComplete is MarkComplete for sub-todo lines.
func MarkSubComplete(content, id, stamp string) (string, bool) {
	return mark(content, subOpenPrefix, "\t", id, stamp)
}

func mark(content, prefix, indent, id, stamp string) (string, bool) {
	if id == "" {
		return content, false
	}
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if parseLine(line[len(prefix):]).Identifier != id {
			continue
		}
		body, carriage := strings.CutSuffix(line, "\r")
		body = indent + donePrefix + body[len(prefix):] + " completed:: " + stamp
		if carriage {
			body += "\r"
		}
		lines[index] = body
		return strings.Join(lines, "\n"), true
	}
	return content, false
}

// Creator registers todos with the remote service and returns their ids.
type Creator interface {
	CreateTodo(ctx context.Context, description string) (string, error)
	CreateSubTodo(ctx context.Context, description, parentID string) (string, error)
}

// Link creates a remote todo for every unlinked line and appends " ^<id>" to
// it. Sub-todos are created under the closest linked top-level todo above
// them and skipped when there is none. On error the content linked so far
// is returned together with the error.
func Link(ctx context.Context, content string, creator Creator) (string, int, error) {
	lines := strings.Split(content, "\n")
	linked := 0
	parentID := ""

	for index, line := range lines {
		var (
			prefix string
			sub    bool
		)
		switch {
		case strings.HasPrefix(line, openPrefix):
			prefix = openPrefix
		case strings.HasPrefix(line, subOpenPrefix):
			prefix, sub = subOpenPrefix, true
		default:
			continue
		}

		todo := parseLine(line[len(prefix):])
		if todo.Linked() {
			if !sub {
				parentID = todo.Identifier
			}
			continue
		}
		if !sub {
			parentID = ""
		}
		if todo.Description == "" || (sub && parentID == "") {
			continue
		}

		var (
			id  string
			err error
		)
		if sub {
			id, err = creator.CreateSubTodo(ctx, todo.Description, parentID)
		} else {
			id, err = creator.CreateTodo(ctx, todo.Description)
		}
		if err != nil {
			return strings.Join(lines, "\n"), linked, fmt.Errorf("link %q: %w", todo.Description, err)
		}
		if !sub {
			parentID = id
		}

		body, carriage := strings.CutSuffix(line, "\r")
		// Only blanks can follow the marker of an unlinked line.
		body, _, _ = strings.Cut(body, idMarker)
		body = strings.TrimRight(body, " \t") + " " + idMarker + id
		if carriage {
			body += "\r"
		}
		lines[index] = body
		linked++
	}
	return strings.Join(lines, "\n"), linked, nil
}
