package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/shardsweep/cmd/shardsweep/tui"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/calc"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/config"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/history"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/logging"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/output"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/plot"
)

// runSweep is the root command: compute, report, plot, and record.
func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report, err := executeSweep(cfg)
	if err != nil {
		return err
	}

	if viper.GetBool("interactive") {
		return tui.Run(report)
	}

	return writeReport(cmd, cfg, report)
}

// executeSweep computes the sweep, renders the chart, and records the run.
// Chart and history failures are logged; only invalid input fails the sweep.
func executeSweep(cfg *config.Config) (*output.Report, error) {
	log := logging.Get("sweep")
	start := time.Now()

	in := cfg.SweepInput()
	results, err := calc.Compute(in)
	if err != nil {
		log.Error("invalid sweep input", "error", err)
		return nil, fmt.Errorf("sweep: %w", err)
	}

	report := output.NewReport(in, results, cfg.MaxError)
	log.Info("sweep computed",
		"shards", len(results),
		"honest_nodes", in.HonestNodes,
		"bandwidth", in.BandwidthPerShard,
		"duration", time.Since(start))

	if cfg.Plot.Enabled {
		if len(results) == 0 {
			printVerbose("No shard sizes, skipping chart")
		} else if err := plot.Save(cfg.Plot.Path, plot.FromResults(results), plotOptions(cfg.Plot)); err != nil {
			log.Warn("chart not rendered", "path", cfg.Plot.Path, "error", err)
			printError("Failed to render chart: %v", err)
		} else {
			report.PlotPath = cfg.Plot.Path
			printVerbose("Chart written to %s", cfg.Plot.Path)
		}
	}

	if cfg.History.Enabled {
		if id, err := recordRun(cfg, report); err != nil {
			log.Warn("run not recorded", "error", err)
			printVerbose("History not recorded: %v", err)
		} else {
			report.RunID = id
		}
	}

	return report, nil
}

func plotOptions(pc config.PlotConfig) plot.Options {
	opts := plot.DefaultOptions()
	if pc.Title != "" {
		opts.Title = pc.Title
	}
	opts.Width = pc.Width
	opts.Height = pc.Height
	opts.DPI = pc.DPI
	return opts
}

// recordRun stores the report in the history database and returns the run ID.
func recordRun(cfg *config.Config, report *output.Report) (string, error) {
	store, err := history.Open(cfg.History.Path, retention(cfg.History.RetentionDays))
	if err != nil {
		return "", err
	}
	defer store.Close()

	run := history.NewRun(report.Input, report.Results, report.MaxError, report.PlotPath)
	run.CreatedAt = report.GeneratedAt.UTC()
	if err := store.Record(run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func retention(days int) time.Duration {
	if days <= 0 {
		return 0
	}
	return time.Duration(days) * 24 * time.Hour
}

// writeReport formats the report and writes it to the command's output.
func writeReport(cmd *cobra.Command, cfg *config.Config, report *output.Report) error {
	formatter, err := newFormatter(cfg.Output)
	if err != nil {
		return err
	}

	if err := printReport(cmd, formatter, report); err != nil {
		return err
	}

	if report.PlotPath != "" && cfg.Output == config.DefaultOutput && !getQuiet() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Chart saved to %s\n", report.PlotPath)
	}
	return nil
}

// printReport writes nothing if formatting fails.
func printReport(cmd *cobra.Command, formatter output.Formatter, report *output.Report) error {
	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// newFormatter looks up a formatter and applies the --template flag.
func newFormatter(name string) (output.Formatter, error) {
	formatter, err := output.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, output.Available())
	}

	if tf, ok := formatter.(*output.TemplateFormatter); ok {
		if tmpl := viper.GetString("template"); tmpl != "" {
			tf.SetTemplate(tmpl)
		}
	}
	return formatter, nil
}
