package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/futureCreator/nfbuild/internal/run"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded build runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printHistory(cmd.OutOrStdout(), runsDir, historyLimit)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show (0 for all)")
}

func printHistory(w io.Writer, dir string, limit int) error {
	entries, err := run.List(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	var completed, failed int
	for _, e := range entries {
		switch e.Meta.Status {
		case run.StatusCompleted:
			completed++
		case run.StatusFailed:
			failed++
		}
	}
	fmt.Fprintf(w, "Runs: %d total, %d completed, %d failed\n\n", len(entries), completed, failed)

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	fmt.Fprintf(w, "%-44s %-10s %-5s %-24s %s\n", "Run ID", "Status", "Exit", "Workflow", "Duration")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for _, e := range entries {
		duration := "-"
		if d := e.Meta.Duration(); d > 0 {
			duration = fmt.Sprintf("%.0fs", d.Seconds())
		}
		fmt.Fprintf(w, "%-44s %-10s %-5d %-24s %s\n",
			e.ID, e.Meta.Status, e.Meta.ExitCode, e.Meta.Platform+" "+e.Meta.Workflow, duration)
	}
	return nil
}
