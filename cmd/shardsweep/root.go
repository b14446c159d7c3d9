package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/config"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/output"
)

var (
	cfgFile   string
	configErr error
	rootCmd   = &cobra.Command{
		Use:   "shardsweep",
		Short: "Trade off shard size against error probability and throughput",
		Long: `Shardsweep evaluates a set of shard sizes against a simple security model.

For each shard size s, with n honest nodes and bandwidth b per shard:

  error      = (1 - 1/s)^n
  throughput = s * b

Results are printed in input order and plotted as throughput against
error probability on a logarithmic axis.

Examples:
  shardsweep                        # Default sweep, text output and chart
  shardsweep -s 2-32:2 -n 128       # Custom shard sizes and honest nodes
  shardsweep --max-error 1e-3 -o pretty
  shardsweep -o json --no-plot      # Machine-readable output only
  shardsweep -i                     # Browse results interactively
  shardsweep watch                  # Re-run whenever the config changes
  shardsweep history                # View previous runs`,
		Args:              cobra.NoArgs,
		PersistentPostRun: shutdownLogging,
		SilenceUsage:      true,
	}
)

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (initializeLogging/runSweep -> loadConfig -> rootFlagChanged -> rootCmd).
	rootCmd.PersistentPreRunE = initializeLogging
	rootCmd.RunE = runSweep

	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/shardsweep/config.yaml)")
	pf.StringP("shard-sizes", "s", "", "shard sizes to evaluate (e.g., 2,4,8 or 2-16:2)")
	pf.IntP("honest-nodes", "n", 0, fmt.Sprintf("number of honest nodes (default %d)", config.DefaultHonestNodes))
	pf.Float64P("bandwidth", "b", 0, fmt.Sprintf("bandwidth per shard (default %g)", config.DefaultBandwidth))
	pf.Float64("max-error", 0, "highlight the best shard size with error at or below this value")
	pf.StringP("output", "o", "", "output format: "+strings.Join(output.Available(), ", "))
	pf.String("template", "", "Go template for custom output (implies -o template)")
	pf.String("plot-path", "", "chart output path (default "+config.DefaultPlotPath+")")
	pf.Bool("no-plot", false, "skip rendering the chart")
	pf.Bool("no-history", false, "do not record this run in history")
	pf.BoolP("quiet", "q", false, "minimal output")
	pf.BoolP("verbose", "v", false, "debug output")

	rootCmd.Flags().BoolP("interactive", "i", false, "browse results in an interactive table")

	bindFlags()
}

// bindFlags binds command-line flags to their viper keys.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("shard_sizes", pf.Lookup("shard-sizes"))
	_ = viper.BindPFlag("honest_nodes", pf.Lookup("honest-nodes"))
	_ = viper.BindPFlag("bandwidth", pf.Lookup("bandwidth"))
	_ = viper.BindPFlag("max_error", pf.Lookup("max-error"))
	_ = viper.BindPFlag("output", pf.Lookup("output"))
	_ = viper.BindPFlag("template", pf.Lookup("template"))
	_ = viper.BindPFlag("plot.path", pf.Lookup("plot-path"))
	_ = viper.BindPFlag("no_plot", pf.Lookup("no-plot"))
	_ = viper.BindPFlag("no_history", pf.Lookup("no-history"))
	_ = viper.BindPFlag("quiet", pf.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		// Use config file from the flag
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, config.AppName))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", config.AppName))
		}
	}

	config.BindEnv(v)
	config.SetDefaults(v)

	configErr = readConfig()
}

// readConfig (re)reads the config file. A missing default file is not an
// error; a missing --config file is.
func readConfig() error {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// loadConfig decodes the merged defaults, file, environment, and flags.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}

	cfg, err := config.Unmarshal(viper.GetViper())
	if err != nil {
		return nil, err
	}

	if viper.GetBool("no_plot") {
		cfg.Plot.Enabled = false
	}
	if viper.GetBool("no_history") {
		cfg.History.Enabled = false
	}
	if viper.GetString("template") != "" && !rootFlagChanged("output") {
		cfg.Output = "template"
	}

	return cfg, nil
}

func rootFlagChanged(name string) bool {
	f := rootCmd.PersistentFlags().Lookup(name)
	return f != nil && f.Changed
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
