// Package notify turns timer transitions into user-facing messages, sound
// cues and OS notifications.
package notify

import (
	"log/slog"
	"sync"

	"pomotodo/internal/core/timekeeper"
)

// Noticer shows a transient in-app message.
type Noticer interface {
	Notice(message string)
}

// NoticeFunc adapts a function to Noticer.
type NoticeFunc func(message string)

// Notice calls fn(message).
func (fn NoticeFunc) Notice(message string) {
	fn(message)
}

// SoundPlayer plays the short end-of-interval cue.
type SoundPlayer interface {
	PlayCue() error
}

// SystemNotifier shows an OS-level notification.
type SystemNotifier interface {
	Notify(title, body string) error
}

// Options selects which side effects the dispatcher performs.
type Options struct {
	Sound  bool
	System bool
	Emoji  bool
}

// Dispatcher is a timekeeper.Handler that reports transitions to the user.
type Dispatcher struct {
	mu       sync.Mutex
	options  Options
	notices  Noticer
	sound    SoundPlayer
	system   SystemNotifier
	logger   *slog.Logger
	inflight sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Any collaborator may be nil.
func NewDispatcher(options Options, notices Noticer, sound SoundPlayer, system SystemNotifier, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		options: options,
		notices: notices,
		sound:   sound,
		system:  system,
		logger:  logger,
	}
}

// SetOptions replaces the dispatcher options.
func (dispatcher *Dispatcher) SetOptions(options Options) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.options = options
}

// HandleEvent implements timekeeper.Handler.
func (dispatcher *Dispatcher) HandleEvent(event timekeeper.Event) {
	dispatcher.mu.Lock()
	options := dispatcher.options
	notices := dispatcher.notices
	dispatcher.mu.Unlock()

	switch event.Type {
	case timekeeper.EventStarted:
		dispatcher.notice(notices, Text(event.Mode, KindStarting, event.Duration, options.Emoji))
	case timekeeper.EventRestarted:
		if event.Auto {
			dispatcher.notice(notices, Text(event.Mode, KindStarting, event.Duration, options.Emoji))
			return
		}
		dispatcher.notice(notices, Text(event.Mode, KindRestarting, 0, options.Emoji))
	case timekeeper.EventPaused:
		dispatcher.notice(notices, Text(event.Mode, KindPausing, 0, options.Emoji))
	case timekeeper.EventIdlePaused:
		dispatcher.notice(notices, "Timer paused: "+event.Message+".")
	case timekeeper.EventEnded:
		dispatcher.ended(event, options)
	}
}

// Wait blocks until in-flight OS notifications have been handed off.
func (dispatcher *Dispatcher) Wait() {
	dispatcher.inflight.Wait()
}

func (dispatcher *Dispatcher) ended(event timekeeper.Event, options Options) {
	if options.Sound && dispatcher.sound != nil {
		if err := dispatcher.sound.PlayCue(); err != nil {
			dispatcher.logger.Warn("play notification sound", "error", err)
		}
	}
	if !options.System || dispatcher.system == nil {
		return
	}

	title := Title(options.Emoji)
	body := Text(event.Mode, KindEnding, 0, options.Emoji)
	if body == "" {
		return
	}
	dispatcher.inflight.Add(1)
	go func() {
		defer dispatcher.inflight.Done()
		if err := dispatcher.system.Notify(title, body); err != nil {
			dispatcher.logger.Warn("show system notification", "error", err)
		}
	}()
}

func (dispatcher *Dispatcher) notice(notices Noticer, message string) {
	if message == "" {
		return
	}
	if notices == nil {
		dispatcher.logger.Info(message)
		return
	}
	notices.Notice(message)
}
