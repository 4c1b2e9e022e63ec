package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pomotodo/internal/core/model"
	"pomotodo/internal/pomotodo"
	"pomotodo/internal/todo"
)

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "List the open todos of today's note",
	Args:  cobra.NoArgs,
	RunE:  runTodos,
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Create unlinked todos of today's note in Pomotodo",
	Long: `Create every todo of today's note that has no ^id marker in Pomotodo and
append the returned id to its line. Sub-todos are created under their parent.`,
	Args: cobra.NoArgs,
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(todosCmd, linkCmd)
}

func loadNote() (*todo.DailyNote, model.Settings, error) {
	store, err := newStore()
	if err != nil {
		return nil, model.Settings{}, err
	}
	settings, err := store.LoadSettings()
	if err != nil {
		return nil, settings, err
	}
	return todo.NewDailyNote(settings.NotesDir, settings.DailyNoteFormat, nil), settings, nil
}

func runTodos(cmd *cobra.Command, args []string) error {
	note, _, err := loadNote()
	if err != nil {
		return err
	}
	todos, err := note.Todos(cmd.Context())
	if err != nil {
		return err
	}
	printTodos(cmd.OutOrStdout(), todos)
	return nil
}

func printTodos(w io.Writer, todos []model.Todo) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No open todos.")
		return
	}
	for _, choice := range model.Flatten(todos) {
		indent := ""
		if choice.Parent != nil {
			indent = "    "
		}
		id := choice.Todo.Identifier
		if id == "" {
			id = "not linked"
		}
		fmt.Fprintf(w, "%s- %s [%s]\n", indent, choice.Todo.Description, id)
	}
}

func runLink(cmd *cobra.Command, args []string) error {
	note, settings, err := loadNote()
	if err != nil {
		return err
	}
	linked, err := note.Link(cmd.Context(), pomotodo.NewClient(settings.APIKey))
	fmt.Fprintf(cmd.OutOrStdout(), "Linked %d todos in %s\n", linked, note.Current())
	return err
}
