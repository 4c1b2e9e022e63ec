package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"

	"pomotodo/internal/app"
	"pomotodo/internal/core/model"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/internal/notify"
	"pomotodo/internal/todo"
	"pomotodo/internal/ui/picker"
	"pomotodo/internal/ui/preferences"
	"pomotodo/internal/ui/tray"
	"pomotodo/resources"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Run the timer in the system tray",
	Args:  cobra.NoArgs,
	RunE:  runTray,
}

func init() {
	rootCmd.AddCommand(trayCmd)
}

func runTray(cmd *cobra.Command, args []string) error {
	fyneApp := fyneapp.NewWithID("com.pomotodo.app")
	fyneApp.SetIcon(resources.AppIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	var manager *tray.Manager
	notices := notify.NoticeFunc(func(message string) {
		slog.Info(message)
		fyne.Do(func() {
			if manager != nil {
				manager.SetNotice(message)
			}
		})
	})

	a, err := app.New(app.Options{
		Logger:   slog.Default(),
		Selector: picker.New(fyneApp),
		Notices:  notices,
		Fyne:     fyneApp,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	prefs := preferences.New(fyneApp, a.Settings(), func(settings model.Settings) {
		if err := a.ApplySettings(settings); err != nil {
			slog.Error("apply settings", "error", err)
			notices.Notice("Settings not saved: " + err.Error())
		}
	})

	manager = tray.New(desktopApp, tray.Callbacks{
		OnStart:     a.Keeper.Start,
		OnActivate:  a.Keeper.Activate,
		OnToggle:    a.Keeper.Toggle,
		OnNext:      a.Keeper.StartNext,
		OnQuitTimer: a.Keeper.Quit,
		OnLink: func() {
			go func() {
				notices.Notice(linkNotice(a.Note.Link(ctx, a.Remote())))
			}()
		},
		OnOpenNote: func() {
			if err := fyneApp.OpenURL(&url.URL{Scheme: "file", Path: a.Note.Current()}); err != nil {
				slog.Warn("open daily note", "error", err)
			}
		},
		OnPreferences: prefs.Show,
		OnExit:        fyneApp.Quit,
	})

	if todos, err := a.Note.Todos(ctx); err == nil {
		manager.SetTodos(todos)
	}
	watchNote(ctx, a.Note, func(todos []model.Todo) {
		fyne.Do(func() { manager.SetTodos(todos) })
	})

	events := a.Keeper.Subscribe(16)
	go func() {
		for event := range events {
			status := event.Status
			display := event.Display
			if event.Type != timekeeper.EventTick {
				display = timekeeper.Display(status, a.Keeper.Config().Emoji)
			}
			fyne.Do(func() { manager.Update(status, display) })
		}
	}()

	go func() {
		if err := a.Run(ctx); err != nil {
			slog.Error("control api stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	fyneApp.Run()
	cancel()
	return nil
}

func watchNote(ctx context.Context, note *todo.DailyNote, onChange func([]model.Todo)) {
	watcher, err := todo.NewWatcher(note, slog.Default())
	if err != nil {
		slog.Warn("daily note changes will not be picked up", "error", err)
		return
	}
	go func() {
		if err := watcher.Run(ctx, onChange); err != nil {
			slog.Warn("watch daily note", "error", err)
		}
	}()
}

func linkNotice(linked int, err error) string {
	if err != nil {
		return fmt.Sprintf("Linked %d todos, then failed: %s", linked, err)
	}
	return fmt.Sprintf("Linked %d todos.", linked)
}
