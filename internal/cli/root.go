// Package cli is the pomotodo command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pomotodo",
	Short: "Pomodoro timer that logs work against your daily note",
	Long: `pomotodo runs a pomodoro timer in the system tray or the terminal.

When a work interval ends it asks which todo of today's note you worked on,
logs the pomodoro to Pomotodo and can check the todo off in the note.
While a timer runs, the other commands control it.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var verbose bool

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	slog.SetDefault(newLogger(os.Stderr))
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
