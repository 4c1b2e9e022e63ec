package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomotodo/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings model.Settings
	onSave   func(model.Settings)

	pomo, shortBreak, longBreak *widget.Entry
	longBreakInterval           *widget.Entry
	numAutoCycles               *widget.Entry
	idlePause                   *widget.Entry
	apiKey                      *widget.Entry
	notesDir                    *widget.Entry
	dailyNoteFormat             *widget.Entry
	timeZone                    *widget.Entry

	autostart, sound, system *widget.Check
	emoji, whiteNoise        *widget.Check
	launchAtLogin            *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	prefs := &Window{
		window:            app.NewWindow("Pomotodo Settings"),
		onSave:            onSave,
		pomo:              widget.NewEntry(),
		shortBreak:        widget.NewEntry(),
		longBreak:         widget.NewEntry(),
		longBreakInterval: widget.NewEntry(),
		numAutoCycles:     widget.NewEntry(),
		idlePause:         widget.NewEntry(),
		apiKey:            widget.NewPasswordEntry(),
		notesDir:          widget.NewEntry(),
		dailyNoteFormat:   widget.NewEntry(),
		timeZone:          widget.NewEntry(),
		autostart:         widget.NewCheck("Start the next interval automatically", nil),
		sound:             widget.NewCheck("Notification sound", nil),
		system:            widget.NewCheck("System notifications", nil),
		emoji:             widget.NewCheck("Emoji in the timer", nil),
		whiteNoise:        widget.NewCheck("White noise during pomodoros", nil),
		launchAtLogin:     widget.NewCheck("Launch at login", nil),
	}
	prefs.notesDir.SetPlaceHolder("/path/to/daily/notes")

	timer := widget.NewForm(
		widget.NewFormItem("Pomodoro (min)", prefs.pomo),
		widget.NewFormItem("Short break (min)", prefs.shortBreak),
		widget.NewFormItem("Long break (min)", prefs.longBreak),
		widget.NewFormItem("Long break every", prefs.longBreakInterval),
		widget.NewFormItem("Auto cycles", prefs.numAutoCycles),
		widget.NewFormItem("Pause when idle for (min, 0 = off)", prefs.idlePause),
	)
	pomotodo := widget.NewForm(
		widget.NewFormItem("API key", prefs.apiKey),
		widget.NewFormItem("Daily notes folder", prefs.notesDir),
		widget.NewFormItem("Note name format", prefs.dailyNoteFormat),
		widget.NewFormItem("Completion time zone", prefs.timeZone),
	)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		timer,
		prefs.autostart,
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.sound,
		prefs.system,
		prefs.emoji,
		prefs.whiteNoise,
		widget.NewLabelWithStyle("Pomotodo", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		pomotodo,
		prefs.launchAtLogin,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", prefs.window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	prefs.window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	prefs.window.Resize(fyne.NewSize(460, 640))
	prefs.window.SetCloseIntercept(prefs.window.Hide)
	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	form := FormFromSettings(settings)

	prefs.pomo.SetText(form.Pomo)
	prefs.shortBreak.SetText(form.ShortBreak)
	prefs.longBreak.SetText(form.LongBreak)
	prefs.longBreakInterval.SetText(form.LongBreakInterval)
	prefs.numAutoCycles.SetText(form.NumAutoCycles)
	prefs.idlePause.SetText(form.IdlePause)
	prefs.apiKey.SetText(form.APIKey)
	prefs.notesDir.SetText(form.NotesDir)
	prefs.dailyNoteFormat.SetText(form.DailyNoteFormat)
	prefs.timeZone.SetText(form.CompletionTimeZone)

	prefs.autostart.SetChecked(form.AutostartTimer)
	prefs.sound.SetChecked(form.NotificationSound)
	prefs.system.SetChecked(form.UseSystemNotification)
	prefs.emoji.SetChecked(form.Emoji)
	prefs.whiteNoise.SetChecked(form.WhiteNoise)
	prefs.launchAtLogin.SetChecked(form.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	form := Form{
		Pomo:              prefs.pomo.Text,
		ShortBreak:        prefs.shortBreak.Text,
		LongBreak:         prefs.longBreak.Text,
		LongBreakInterval: prefs.longBreakInterval.Text,
		NumAutoCycles:     prefs.numAutoCycles.Text,
		IdlePause:         prefs.idlePause.Text,

		AutostartTimer:        prefs.autostart.Checked,
		NotificationSound:     prefs.sound.Checked,
		UseSystemNotification: prefs.system.Checked,
		Emoji:                 prefs.emoji.Checked,
		WhiteNoise:            prefs.whiteNoise.Checked,
		LaunchAtLogin:         prefs.launchAtLogin.Checked,

		APIKey:             prefs.apiKey.Text,
		NotesDir:           prefs.notesDir.Text,
		DailyNoteFormat:    prefs.dailyNoteFormat.Text,
		CompletionTimeZone: prefs.timeZone.Text,
	}

	settings, err := form.Apply(prefs.settings)
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}
