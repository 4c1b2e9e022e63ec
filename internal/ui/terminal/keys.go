package terminal

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the timer screen and the todo picker.
type KeyMap struct {
	Start      key.Binding
	ShortBreak key.Binding
	LongBreak  key.Binding
	Activate   key.Binding
	Toggle     key.Binding
	Next       key.Binding
	QuitTimer  key.Binding
	Exit       key.Binding

	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
	LogOnly  key.Binding
	Cancel   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "pomodoro"),
		),
		ShortBreak: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "short break"),
		),
		LongBreak: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "long break"),
		),
		Activate: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/pause"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		QuitTimer: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "quit timer"),
		),
		Exit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "exit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Complete: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log and complete"),
		),
		LogOnly: key.NewBinding(
			key.WithKeys("tab", "o"),
			key.WithHelp("tab", "log only"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "skip"),
		),
	}
}

// timerHelp lists the bindings of the timer screen.
type timerHelp KeyMap

func (k timerHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.ShortBreak, k.LongBreak, k.Activate, k.Toggle, k.Next, k.QuitTimer, k.Exit}
}

func (k timerHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// pickerHelp lists the bindings of the todo picker.
type pickerHelp KeyMap

func (k pickerHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Complete, k.LogOnly, k.Cancel}
}

func (k pickerHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
