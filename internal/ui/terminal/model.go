// Package terminal is the bubbletea host: a full-screen timer with an
// inline todo picker.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/internal/handoff"
	"pomotodo/internal/ui/picker"
)

// Timer is the part of the TimeKeeper the terminal drives.
type Timer interface {
	Start(mode timekeeper.Mode)
	StartNext()
	Activate()
	Toggle()
	Quit()
	Status() timekeeper.Status
	Config() model.TimeKeeperConfig
}

type (
	eventMsg        timekeeper.Event
	eventsClosedMsg struct{}
	noticeMsg       string
)

type outcome struct {
	selection handoff.Selection
	err       error
}

// pickRequest is one pending Select call.
type pickRequest struct {
	prompt  string
	choices []model.Choice
	reply   chan outcome
	done    <-chan struct{}
}

func (request pickRequest) withdrawn() bool {
	select {
	case <-request.done:
		return true
	default:
		return false
	}
}

// Model is the bubbletea model of the terminal host.
type Model struct {
	timer    Timer
	events   <-chan timekeeper.Event
	requests <-chan pickRequest
	notices  <-chan string

	keys KeyMap
	help help.Model

	status  timekeeper.Status
	display string
	notice  string

	picks  []pickRequest
	cursor int
}

// NewModel creates a model reading timer events, pick requests and notices
// from the given channels.
func NewModel(timer Timer, events <-chan timekeeper.Event, requests <-chan pickRequest, notices <-chan string) Model {
	status := timer.Status()
	return Model{
		timer:    timer,
		events:   events,
		requests: requests,
		notices:  notices,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		status:   status,
		display:  timekeeper.Display(status, timer.Config().Emoji),
	}
}

func waitEvent(events <-chan timekeeper.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

func waitRequest(requests <-chan pickRequest) tea.Cmd {
	return func() tea.Msg {
		return <-requests
	}
}

func waitNotice(notices <-chan string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-notices)
	}
}

// Init starts listening on the input channels.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitEvent(m.events), waitRequest(m.requests), waitNotice(m.notices))
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.prunePicks()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if len(m.picks) > 0 {
			return m.updatePicker(msg)
		}
		return m.updateTimer(msg)

	case eventMsg:
		event := timekeeper.Event(msg)
		m.status = event.Status
		if event.Type == timekeeper.EventTick {
			m.display = event.Display
		} else {
			m.display = timekeeper.Display(event.Status, m.timer.Config().Emoji)
		}
		return m, waitEvent(m.events)

	case eventsClosedMsg:
		m.cancelPicks()
		return m, tea.Quit

	case pickRequest:
		if len(m.picks) == 0 {
			m.cursor = 0
		}
		m.picks = append(m.picks, msg)
		return m, waitRequest(m.requests)

	case noticeMsg:
		m.notice = string(msg)
		return m, waitNotice(m.notices)
	}
	return m, nil
}

func (m Model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		m.cancelPicks()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.timer.Start(timekeeper.ModeWork)
	case key.Matches(msg, m.keys.ShortBreak):
		m.timer.Start(timekeeper.ModeShortBreak)
	case key.Matches(msg, m.keys.LongBreak):
		m.timer.Start(timekeeper.ModeLongBreak)
	case key.Matches(msg, m.keys.Activate):
		m.timer.Activate()
	case key.Matches(msg, m.keys.Toggle):
		m.timer.Toggle()
	case key.Matches(msg, m.keys.Next):
		m.timer.StartNext()
	case key.Matches(msg, m.keys.QuitTimer):
		m.timer.Quit()
	default:
		return m, nil
	}
	m.notice = ""
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := m.picks[0]
	switch {
	case key.Matches(msg, m.keys.Exit) && msg.String() == "ctrl+c":
		m.cancelPicks()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(current.choices)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Complete):
		m.finishPick(outcome{selection: handoff.Selection{Choice: current.choices[m.cursor], Complete: true}})
	case key.Matches(msg, m.keys.LogOnly):
		m.finishPick(outcome{selection: handoff.Selection{Choice: current.choices[m.cursor]}})
	case key.Matches(msg, m.keys.Cancel):
		m.finishPick(outcome{err: handoff.ErrSelectionCancelled})
	}
	return m, nil
}

// finishPick answers the front request and moves on to the next one.
func (m *Model) finishPick(result outcome) {
	m.picks[0].reply <- result
	m.picks = m.picks[1:]
	m.cursor = 0
}

func (m *Model) cancelPicks() {
	for _, request := range m.picks {
		request.reply <- outcome{err: handoff.ErrSelectionCancelled}
	}
	m.picks = nil
}

// prunePicks drops requests whose caller has stopped waiting.
func (m *Model) prunePicks() {
	kept := m.picks[:0]
	for index, request := range m.picks {
		if request.withdrawn() {
			if index == 0 {
				m.cursor = 0
			}
			continue
		}
		kept = append(kept, request)
	}
	m.picks = kept
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pomotodo"))
	b.WriteString("\n\n")

	clock := m.display
	if clock == "" {
		clock = "--:--"
	}
	b.WriteString(clockStyle.
		Foreground(modeColor(m.status.Mode == timekeeper.ModeWork)).
		Render(clock))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(StatusLine(m.status)))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	if len(m.picks) > 0 {
		b.WriteString("\n")
		b.WriteString(m.pickerView())
		b.WriteString("\n\n")
		b.WriteString(m.help.View(pickerHelp(m.keys)))
	} else {
		b.WriteString("\n")
		b.WriteString(m.help.View(timerHelp(m.keys)))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) pickerView() string {
	current := m.picks[0]
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(current.prompt))
	b.WriteString("\n")
	for index, choice := range current.choices {
		line := picker.Label(choice)
		if index == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if pending := len(m.picks) - 1; pending > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d more waiting", pending)))
	}
	return pickerStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// StatusLine describes the session below the clock.
func StatusLine(status timekeeper.Status) string {
	var mode string
	switch status.Mode {
	case timekeeper.ModeIdle:
		return "Idle"
	case timekeeper.ModeWork:
		mode = "Pomodoro"
	case timekeeper.ModeShortBreak:
		mode = "Short break"
	case timekeeper.ModeLongBreak:
		mode = "Long break"
	}
	switch {
	case status.AutoPaused:
		mode += " (waiting)"
	case status.Paused:
		mode += " (paused)"
	}
	return fmt.Sprintf("%s · %d done today", mode, status.CompletedWork)
}
