package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/config"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/history"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View previous sweeps",
	Long: `View the history of sweep runs.

Each run records its parameters, results, and chart path. Runs expire
after history.retention_days.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details of a specific run",
	Long: `Display the parameters and results of a run by its ID.
A unique prefix of the ID is enough.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove runs older than the retention period, or every run with --all.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
	cleanAll     bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")
	historyCleanCmd.Flags().BoolVar(&cleanAll, "all", false, "remove every run")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the configured history store.
func openHistory() (*history.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := history.Open(cfg.History.Path, retention(cfg.History.RetentionDays))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, cfg, nil
}

// runHistory lists recent runs.
func runHistory(cmd *cobra.Command, args []string) error {
	store, _, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'shardsweep' to record a sweep.")
		return nil
	}

	fmt.Fprintf(out, "\n%-36s  %-14s  %-6s  %-7s  %s\n", "ID", "WHEN", "NODES", "SHARDS", "BEST")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, run := range runs {
		best := "-"
		if b, ok := run.Best(); ok {
			best = fmt.Sprintf("%d (%s)", b.ShardSize, output.FormatError(b.ErrorProbability))
		}
		fmt.Fprintf(out, "%-36s  %-14s  %-6d  %-7d  %s\n",
			run.ID,
			humanize.Time(run.CreatedAt),
			run.Input.HonestNodes,
			len(run.Results),
			best,
		)
	}

	fmt.Fprintln(out, strings.Repeat("-", 80))
	fmt.Fprintf(out, "\nShowing %d entries. Use --limit to see more.\n", len(runs))
	fmt.Fprintln(out, "Use 'shardsweep history show <id>' for details on a specific run.")

	return nil
}

// runHistoryShow displays details of a specific run.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, _, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(args[0])
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("no run with id %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nRun Details")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "ID:           %s\n", run.ID)
	fmt.Fprintf(out, "Timestamp:    %s (%s)\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05 MST"), humanize.Time(run.CreatedAt))
	fmt.Fprintf(out, "Honest nodes: %d\n", run.Input.HonestNodes)
	fmt.Fprintf(out, "Bandwidth:    %s\n", output.FormatNumber(run.Input.BandwidthPerShard))
	if run.MaxError > 0 {
		fmt.Fprintf(out, "Max error:    %s\n", output.FormatError(run.MaxError))
	}
	if run.PlotPath != "" {
		fmt.Fprintf(out, "Chart:        %s\n", run.PlotPath)
	}
	fmt.Fprintln(out)

	report := output.NewReport(run.Input, run.Results, run.MaxError)
	formatter, err := output.Get("plain")
	if err != nil {
		return err
	}
	return printReport(cmd, formatter, report)
}

// runHistoryClean prunes expired runs.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	store, cfg, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	var removed int
	if cleanAll {
		removed, err = store.Clear()
	} else {
		if cfg.History.RetentionDays <= 0 {
			printInfo("Retention is disabled; use --all to remove every run.")
			return nil
		}
		cutoff := time.Now().Add(-retention(cfg.History.RetentionDays))
		removed, err = store.Prune(cutoff)
	}
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d run(s).", removed)
	return nil
}
