package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"pomotodo/internal/history"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the pomodoros of a day",
	Long: `Show a summary of one day from the local history.

Examples:
  pomotodo stats                   # today
  pomotodo stats --day 2026-03-14  # another day
  pomotodo stats --recent 10       # also list the last 10 intervals`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsDay    string
	statsRecent int
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsDay, "day", "d", "", "Day as YYYY-MM-DD, default today")
	statsCmd.Flags().IntVarP(&statsRecent, "recent", "r", 0, "Number of recent intervals to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if statsDay != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, statsDay, time.Local)
		if err != nil {
			return fmt.Errorf("parse day: %w", err)
		}
		day = parsed
	}

	store, err := newStore()
	if err != nil {
		return err
	}
	journal, err := history.Open(store.HistoryPath())
	if err != nil {
		return err
	}
	defer journal.Close()

	summary, err := journal.Summary(cmd.Context(), day)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printSummary(out, summary)

	if statsRecent > 0 {
		recent, err := journal.Recent(cmd.Context(), statsRecent)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printIntervals(out, recent)
	}
	return nil
}

func printSummary(w io.Writer, summary history.Summary) {
	fmt.Fprintf(w, "%s\n", summary.Day.Format("Monday, 2 January 2006"))
	fmt.Fprintf(w, "  Work intervals:   %d (%s)\n", summary.WorkIntervals, summary.WorkTime.Round(time.Second))
	fmt.Fprintf(w, "  Break time:       %s\n", summary.BreakTime.Round(time.Second))
	fmt.Fprintf(w, "  Logged pomodoros: %d\n", summary.Pomos)
	fmt.Fprintf(w, "  Completed todos:  %d\n", summary.CompletedTodos)
}

func printIntervals(w io.Writer, intervals []history.Interval) {
	for _, interval := range intervals {
		fmt.Fprintf(w, "%s  %-11s %8s  %s\n",
			interval.Start.Local().Format("2006-01-02 15:04"),
			interval.Mode,
			interval.End.Sub(interval.Start).Round(time.Second),
			interval.Outcome,
		)
	}
}
