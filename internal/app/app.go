// Package app wires the timer to its side effects and persistence. Hosts
// (tray, terminal) build an App, then drive its TimeKeeper.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"pomotodo/internal/audio"
	"pomotodo/internal/control"
	"pomotodo/internal/core/clock"
	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/internal/handoff"
	"pomotodo/internal/history"
	"pomotodo/internal/notify"
	"pomotodo/internal/platform"
	"pomotodo/internal/pomotodo"
	"pomotodo/internal/storage"
	"pomotodo/internal/todo"
)

// Options are the host-specific collaborators of an App.
type Options struct {
	Logger   *slog.Logger
	Clock    clock.Clock
	Selector handoff.Selector
	Notices  notify.Noticer
	// Fyne is used for OS notifications when D-Bus is unavailable. May be nil.
	Fyne fyne.App
	// Silent skips opening the audio device.
	Silent bool
	// Name keys the single-instance lock. Empty means storage.AppName.
	Name string
}

// App holds every long-lived component of a running timer.
type App struct {
	Logger     *slog.Logger
	Store      *storage.Store
	Keeper     *timekeeper.TimeKeeper
	Dispatcher *notify.Dispatcher
	Audio      *audio.Controller
	Note       *todo.DailyNote
	Handoff    *handoff.Handoff
	History    *history.Store
	Instance   *platform.Instance

	clock   clock.Clock
	speaker *audio.Speaker
	system  notify.SystemNotifier

	mu       sync.Mutex
	settings model.Settings
}

// New acquires the single-instance lock and builds the components from the
// stored settings. It fails with platform.ErrAlreadyRunning when another
// timer owns the lock.
func New(options Options) (*App, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}

	env, err := storage.LoadEnvironment()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStore(env)
	if err != nil {
		return nil, err
	}
	settings, err := store.LoadSettings()
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
		settings = model.DefaultSettings()
	}

	name := options.Name
	if name == "" {
		name = storage.AppName
	}
	instance, err := platform.Acquire(name)
	if err != nil {
		return nil, err
	}

	journal, err := history.Open(store.HistoryPath())
	if err != nil {
		_ = instance.Release()
		return nil, err
	}

	app := &App{
		Logger:   logger,
		Store:    store,
		History:  journal,
		Instance: instance,
		clock:    clk,
		settings: settings,
	}

	var (
		cue    notify.SoundPlayer
		player audio.Player
	)
	if !options.Silent {
		if speaker, err := audio.NewSpeaker(); err != nil {
			logger.Warn("audio unavailable", "error", err)
		} else {
			app.speaker = speaker
			cue = speaker
			player = speaker
		}
	}

	app.system = notify.NewSystemNotifier(options.Fyne, clk, logger)
	app.Dispatcher = notify.NewDispatcher(dispatchOptions(settings), options.Notices, cue, app.system, logger)
	app.Audio = audio.NewController(player, settings.WhiteNoise, logger)
	app.Note = todo.NewDailyNote(settings.NotesDir, settings.DailyNoteFormat, clk)
	app.Handoff = handoff.New(handoff.Options{
		Source:   app.Note,
		Sink:     app.Note,
		Remote:   pomotodo.NewClient(settings.APIKey),
		Selector: options.Selector,
		Notices:  options.Notices,
		Journal:  journal,
		Logger:   logger,
		Location: location(settings.CompletionTimeZone, logger),
	})

	app.Keeper = timekeeper.New(settings.TimeKeeperConfig(), timekeeper.Options{
		Clock:  clk,
		Logger: logger,
	})
	app.Keeper.SetIdleChecker(platform.NewIdleChecker())
	app.Keeper.Handle(app.Dispatcher)
	app.Keeper.Handle(app.Audio)
	app.Keeper.Handle(app.Handoff)
	app.Keeper.Handle(history.NewRecorder(journal, logger))

	return app, nil
}

// Settings returns the active settings.
func (app *App) Settings() model.Settings {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.settings
}

// ApplySettings persists settings and pushes them to every component. The
// running interval keeps its schedule.
func (app *App) ApplySettings(settings model.Settings) error {
	app.mu.Lock()
	previous := app.settings
	app.settings = settings
	app.mu.Unlock()

	app.Keeper.UpdateConfig(settings.TimeKeeperConfig())
	app.Dispatcher.SetOptions(dispatchOptions(settings))
	app.Audio.SetEnabled(settings.WhiteNoise)
	app.Note.Configure(settings.NotesDir, settings.DailyNoteFormat)
	app.Handoff.SetRemote(pomotodo.NewClient(settings.APIKey))
	app.Handoff.SetLocation(location(settings.CompletionTimeZone, app.Logger))

	var errs []error
	if err := app.Store.SaveSettings(settings); err != nil {
		errs = append(errs, err)
	}
	if settings.LaunchAtLogin != previous.LaunchAtLogin {
		if err := platform.SetLaunchAtLogin(launchEntry(), settings.LaunchAtLogin); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Remote returns a client for the configured API key.
func (app *App) Remote() *pomotodo.Client {
	return pomotodo.NewClient(app.Settings().APIKey)
}

// Run drives the timer and serves the control API until ctx is done.
func (app *App) Run(ctx context.Context) error {
	go app.Keeper.Run(ctx)
	router := control.NewRouter(app.Keeper, app.Logger)
	if err := control.Serve(ctx, app.Instance.Listener(), router); err != nil {
		return fmt.Errorf("serve control api: %w", err)
	}
	return nil
}

// Close stops in-flight work and releases resources.
func (app *App) Close() error {
	app.Keeper.Quit()
	app.Handoff.Close()
	app.Dispatcher.Wait()
	app.Keeper.Close()

	if app.speaker != nil {
		app.speaker.Close()
	}
	if closer, ok := app.system.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	var errs []error
	if err := app.History.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := app.Instance.Release(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func dispatchOptions(settings model.Settings) notify.Options {
	return notify.Options{
		Sound:  settings.NotificationSound,
		System: settings.UseSystemNotification,
		Emoji:  settings.Emoji,
	}
}

func location(name string, logger *slog.Logger) *time.Location {
	if name == "" {
		return handoff.DefaultLocation()
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown completion time zone", "zone", name, "error", err)
		return handoff.DefaultLocation()
	}
	return loc
}

func launchEntry() platform.LaunchEntry {
	exe, err := os.Executable()
	if err != nil {
		exe = storage.AppName
	}
	return platform.LaunchEntry{Name: storage.AppName, Exec: exe, Args: []string{"tray"}}
}
