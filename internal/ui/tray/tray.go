package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/resources"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func(timekeeper.Mode)
	OnActivate    func()
	OnToggle      func()
	OnNext        func()
	OnQuitTimer   func()
	OnLink        func()
	OnOpenNote    func()
	OnPreferences func()
	OnExit        func()
}

// Manager handles system tray state. Its methods must run on the fyne
// main goroutine.
type Manager struct {
	app       desktop.App
	callbacks Callbacks

	statusItem *fyne.MenuItem
	noticeItem *fyne.MenuItem
	activeItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	nextItem   *fyne.MenuItem
	quitItem   *fyne.MenuItem
	todosItem  *fyne.MenuItem
	static     []*fyne.MenuItem

	status timekeeper.Status
	icon   resources.Icon
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{app: app, callbacks: callbacks}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true
	manager.noticeItem = fyne.NewMenuItem("", nil)
	manager.noticeItem.Disabled = true

	start := func(mode timekeeper.Mode) func() {
		return func() { call1(manager.callbacks.OnStart, mode) }
	}
	manager.activeItem = fyne.NewMenuItem("Start / pause", func() { call(manager.callbacks.OnActivate) })
	manager.toggleItem = fyne.NewMenuItem("Pause", func() { call(manager.callbacks.OnToggle) })
	manager.nextItem = fyne.NewMenuItem("Skip to next interval", func() { call(manager.callbacks.OnNext) })
	manager.quitItem = fyne.NewMenuItem("Quit timer", func() { call(manager.callbacks.OnQuitTimer) })
	manager.todosItem = fyne.NewMenuItem("Today's todos", nil)
	manager.todosItem.ChildMenu = fyne.NewMenu("")

	manager.static = []*fyne.MenuItem{
		fyne.NewMenuItem("Start pomodoro", start(timekeeper.ModeWork)),
		fyne.NewMenuItem("Start short break", start(timekeeper.ModeShortBreak)),
		fyne.NewMenuItem("Start long break", start(timekeeper.ModeLongBreak)),
	}

	manager.Update(timekeeper.Status{}, "")
	manager.SetTodos(nil)
	return manager
}

// Update reflects a timer status and its display string.
func (manager *Manager) Update(status timekeeper.Status, display string) {
	manager.status = status
	manager.statusItem.Label = StatusLabel(status, display)

	active := status.Active()
	manager.toggleItem.Disabled = !active
	manager.nextItem.Disabled = !active
	manager.quitItem.Disabled = !active
	if status.Paused {
		manager.toggleItem.Label = "Resume"
	} else {
		manager.toggleItem.Label = "Pause"
	}

	if icon := IconFor(status); icon != manager.icon && manager.app != nil {
		manager.icon = icon
		manager.app.SetSystemTrayIcon(resources.TrayIcon(icon))
	}
	manager.refreshMenu()
}

// SetTodos lists today's open todos in the todo submenu.
func (manager *Manager) SetTodos(todos []model.Todo) {
	var items []*fyne.MenuItem
	for _, choice := range model.Flatten(todos) {
		label := choice.Todo.Description
		if choice.Parent != nil {
			label = "  " + label
		}
		item := fyne.NewMenuItem(label, nil)
		item.Disabled = true
		items = append(items, item)
	}
	if len(items) == 0 {
		empty := fyne.NewMenuItem("No open todos", nil)
		empty.Disabled = true
		items = append(items, empty)
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Link new todos", func() { call(manager.callbacks.OnLink) }),
		fyne.NewMenuItem("Open daily note", func() { call(manager.callbacks.OnOpenNote) }),
	)
	manager.todosItem.ChildMenu = fyne.NewMenu("", items...)
	manager.refreshMenu()
}

// SetNotice shows message below the status row. Empty hides the row.
func (manager *Manager) SetNotice(message string) {
	manager.noticeItem.Label = message
	manager.refreshMenu()
}

// StatusLabel is the first, informational, menu row.
func StatusLabel(status timekeeper.Status, display string) string {
	if !status.Active() {
		// Quit resets the count, so an idle session has none to show.
		return "Status: idle"
	}
	label := fmt.Sprintf("%s %s", modeName(status.Mode), display)
	switch {
	case status.AutoPaused:
		label += " (waiting)"
	case status.Paused:
		label += " (paused)"
	}
	return "Status: " + label
}

// IconFor picks the tray icon of a status.
func IconFor(status timekeeper.Status) resources.Icon {
	switch {
	case !status.Active():
		return resources.IconIdle
	case status.Paused:
		return resources.IconPaused
	case status.Mode.IsBreak():
		return resources.IconBreak
	default:
		return resources.IconWork
	}
}

func modeName(mode timekeeper.Mode) string {
	switch mode {
	case timekeeper.ModeWork:
		return "Pomodoro"
	case timekeeper.ModeShortBreak:
		return "Short break"
	case timekeeper.ModeLongBreak:
		return "Long break"
	}
	return "Idle"
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	items := []*fyne.MenuItem{manager.statusItem}
	if manager.noticeItem.Label != "" {
		items = append(items, manager.noticeItem)
	}
	items = append(items, fyne.NewMenuItemSeparator(), manager.activeItem)
	items = append(items, manager.static...)
	items = append(items,
		manager.toggleItem,
		manager.nextItem,
		manager.quitItem,
		fyne.NewMenuItemSeparator(),
		manager.todosItem,
		fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() { call(manager.callbacks.OnExit) }),
	)
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomotodo", items...))
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func call1[T any](fn func(T), value T) {
	if fn != nil {
		fn(value)
	}
}
