package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pomotodo/internal/control"
	"pomotodo/internal/core/timekeeper"
	"pomotodo/internal/platform"
	"pomotodo/internal/storage"
)

// controlTimeout bounds one request to the running timer.
const controlTimeout = 5 * time.Second

type controlCall func(client *control.Client, ctx context.Context) (control.Status, error)

func newControlCmd(use, short string, call controlCall) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runControl(cmd, call)
		},
	}
}

var startCmd = &cobra.Command{
	Use:   "start [work|short|long]",
	Short: "Start an interval in the running timer",
	Long: `Start an interval in the running timer. Without a mode a pomodoro starts.

Examples:
  pomotodo start         # 25 minute pomodoro
  pomotodo start short   # short break`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := "work"
		if len(args) == 1 {
			parsed, err := timekeeper.ParseMode(args[0])
			if err != nil {
				return err
			}
			mode = parsed.String()
		}
		return runControl(cmd, func(client *control.Client, ctx context.Context) (control.Status, error) {
			return client.Start(ctx, mode)
		})
	},
}

func init() {
	rootCmd.AddCommand(
		startCmd,
		newControlCmd("activate", "Start a pomodoro when idle, otherwise pause or resume", (*control.Client).Activate),
		newControlCmd("pause", "Pause the running interval", (*control.Client).Pause),
		newControlCmd("resume", "Resume a paused interval", (*control.Client).Resume),
		newControlCmd("toggle", "Pause or resume", (*control.Client).Toggle),
		newControlCmd("next", "Skip to the next interval of the cycle", (*control.Client).Next),
		newControlCmd("quit", "Stop the timer and reset the session", (*control.Client).Quit),
		newControlCmd("status", "Show the timer state", (*control.Client).Status),
	)
}

func runControl(cmd *cobra.Command, call controlCall) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), controlTimeout)
	defer cancel()

	client := control.NewClient(platform.InstanceAddress(storage.AppName))
	status, err := call(client, ctx)
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), status)
	return nil
}

func printStatus(w io.Writer, status control.Status) {
	fmt.Fprintln(w, formatStatus(status))
}

func formatStatus(status control.Status) string {
	if status.Mode == timekeeper.ModeIdle.String() {
		return "idle"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", strings.ReplaceAll(status.Mode, "_", " "), timekeeper.FormatRemaining(status.Remaining()))
	switch {
	case status.AutoPaused:
		b.WriteString(" (waiting)")
	case status.Paused:
		b.WriteString(" (paused)")
	}
	fmt.Fprintf(&b, ", %d pomodoros today", status.CompletedWork)
	return b.String()
}
