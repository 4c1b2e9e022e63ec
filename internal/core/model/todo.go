package model

// Todo is a checklist item parsed from the daily note.
type Todo struct {
	Description string
	// Identifier is the remote uuid from the trailing ^id marker, empty
	// until the line has been linked.
	Identifier string
	SubTodos   []Todo
	// Line is the 0-based line number in the source note.
	Line int
}

// Linked reports whether the todo carries a remote identifier.
func (todo Todo) Linked() bool {
	return todo.Identifier != ""
}

// Choice is a selectable todo with its parent, if it is a sub-todo.
type Choice struct {
	Todo   Todo
	Parent *Todo
}

// Flatten lists top-level todos each followed by their sub-todos.
func Flatten(todos []Todo) []Choice {
	var choices []Choice
	for index := range todos {
		parent := todos[index]
		choices = append(choices, Choice{Todo: parent})
		for _, sub := range parent.SubTodos {
			choices = append(choices, Choice{Todo: sub, Parent: &todos[index]})
		}
	}
	return choices
}
