// Package picker is the fyne window asking which todo a finished pomodoro
// belongs to.
package picker

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomotodo/internal/core/model"
	"pomotodo/internal/handoff"
)

// Label renders a choice as a list row. Sub-todos are indented and todos
// that cannot be completed remotely are marked.
func Label(choice model.Choice) string {
	label := choice.Todo.Description
	if !choice.Todo.Linked() {
		label += " (not linked)"
	}
	if choice.Parent != nil {
		label = "    ↳ " + label
	}
	return label
}

// Window implements handoff.Selector with a fyne window.
type Window struct {
	app fyne.App
}

// New creates a picker for app.
func New(app fyne.App) *Window {
	return &Window{app: app}
}

type outcome struct {
	selection handoff.Selection
	err       error
}

// Select shows the choices and blocks until the user logs the pomodoro,
// cancels, or ctx is done. Enter logs the highlighted todo and completes it.
func (picker *Window) Select(ctx context.Context, prompt string, choices []model.Choice) (handoff.Selection, error) {
	results := make(chan outcome, 1)
	var (
		once   sync.Once
		window fyne.Window
	)
	finish := func(result outcome) {
		once.Do(func() {
			results <- result
			window.Close()
		})
	}

	fyne.Do(func() {
		window = picker.app.NewWindow("Pomotodo")
		selected := -1

		complete := widget.NewCheck("Also complete the todo", nil)
		logButton := widget.NewButton("Log pomodoro", nil)
		logButton.Importance = widget.HighImportance
		logButton.Disable()

		list := widget.NewList(
			func() int { return len(choices) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(id widget.ListItemID, object fyne.CanvasObject) {
				object.(*widget.Label).SetText(Label(choices[id]))
			},
		)
		list.OnSelected = func(id widget.ListItemID) {
			selected = id
			logButton.Enable()
		}

		submit := func(completeTodo bool) {
			if selected < 0 {
				return
			}
			finish(outcome{selection: handoff.Selection{Choice: choices[selected], Complete: completeTodo}})
		}
		logButton.OnTapped = func() { submit(complete.Checked) }
		cancel := widget.NewButton("Cancel", func() {
			finish(outcome{err: handoff.ErrSelectionCancelled})
		})

		window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
			switch event.Name {
			case fyne.KeyReturn, fyne.KeyEnter:
				submit(true)
			case fyne.KeyEscape:
				finish(outcome{err: handoff.ErrSelectionCancelled})
			}
		})
		window.SetCloseIntercept(func() {
			finish(outcome{err: handoff.ErrSelectionCancelled})
		})

		buttons := container.NewHBox(complete, layout.NewSpacer(), cancel, logButton)
		header := widget.NewLabelWithStyle(prompt, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		window.SetContent(container.NewBorder(header, buttons, nil, nil, list))
		window.Resize(fyne.NewSize(480, 360))
		window.CenterOnScreen()
		window.Show()
		window.RequestFocus()
	})

	select {
	case result := <-results:
		return result.selection, result.err
	case <-ctx.Done():
		fyne.Do(func() {
			finish(outcome{err: ctx.Err()})
		})
		return handoff.Selection{}, ctx.Err()
	}
}
