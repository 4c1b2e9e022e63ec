package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"pomotodo/internal/app"
	"pomotodo/internal/storage"
	"pomotodo/internal/ui/terminal"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the timer in the terminal",
	Long: `Run the timer full screen in the terminal.

Logs go to pomotodo.log in the config directory while the screen is up.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile)
	slog.SetDefault(logger)

	host := terminal.NewHost()
	a, err := app.New(app.Options{
		Logger:   logger,
		Selector: host,
		Notices:  host,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events := a.Keeper.Subscribe(16)
	go func() {
		if err := a.Run(ctx); err != nil {
			logger.Error("control api stopped", "error", err)
		}
	}()
	return host.Run(ctx, a.Keeper, events)
}

func openLogFile() (*os.File, error) {
	store, err := newStore()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(store.Dir(), "pomotodo.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

func newStore() (*storage.Store, error) {
	env, err := storage.LoadEnvironment()
	if err != nil {
		return nil, err
	}
	return storage.NewStore(env)
}
