package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage shardsweep configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/shardsweep/config.yaml (if set)
  2. ~/.config/shardsweep/config.yaml

Environment variables can override config file settings using the SHARDSWEEP_ prefix:
  SHARDSWEEP_SHARD_SIZES=2-32:2
  SHARDSWEEP_HONEST_NODES=128
  SHARDSWEEP_PLOT_DPI=150`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configEnvVars lists the overrides reported by config show.
var configEnvVars = []string{
	"SHARDSWEEP_SHARD_SIZES",
	"SHARDSWEEP_HONEST_NODES",
	"SHARDSWEEP_BANDWIDTH",
	"SHARDSWEEP_MAX_ERROR",
	"SHARDSWEEP_OUTPUT",
	"SHARDSWEEP_PLOT_ENABLED",
	"SHARDSWEEP_PLOT_PATH",
	"SHARDSWEEP_PLOT_DPI",
	"SHARDSWEEP_HISTORY_ENABLED",
	"SHARDSWEEP_HISTORY_PATH",
	"SHARDSWEEP_HISTORY_RETENTION_DAYS",
	"SHARDSWEEP_LOGGING_LEVEL",
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		if _, statErr := os.Stat(configFile); statErr == nil {
			fmt.Fprintf(out, "Config file: %s\n\n", configFile)
		} else {
			fmt.Fprintln(out, "Config file: (using defaults, no file found)")
			fmt.Fprintln(out)
		}
	} else {
		fmt.Fprintln(out, "Config file: (using defaults, no file found)")
		fmt.Fprintln(out)
	}

	sizes := make([]string, len(cfg.ShardSizes))
	for i, s := range cfg.ShardSizes {
		sizes[i] = fmt.Sprint(s)
	}

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "shard_sizes:             [%s]\n", strings.Join(sizes, ", "))
	fmt.Fprintf(out, "honest_nodes:            %d\n", cfg.HonestNodes)
	fmt.Fprintf(out, "bandwidth:               %g\n", cfg.Bandwidth)
	fmt.Fprintf(out, "max_error:               %g\n", cfg.MaxError)
	fmt.Fprintf(out, "output:                  %s\n", cfg.Output)
	fmt.Fprintf(out, "plot.enabled:            %t\n", cfg.Plot.Enabled)
	fmt.Fprintf(out, "plot.path:               %s\n", cfg.Plot.Path)
	fmt.Fprintf(out, "plot.size:               %gx%g in @ %d dpi\n", cfg.Plot.Width, cfg.Plot.Height, cfg.Plot.DPI)
	fmt.Fprintf(out, "history.enabled:         %t\n", cfg.History.Enabled)
	fmt.Fprintf(out, "history.path:            %s\n", cfg.History.Path)
	fmt.Fprintf(out, "history.retention:       %d days\n", cfg.History.RetentionDays)
	fmt.Fprintf(out, "logging.level:           %s\n", cfg.Logging.Level)

	fmt.Fprintln(out, "\nEnvironment Overrides:")
	fmt.Fprintln(out, "----------------------")
	anyOverrides := false
	for _, name := range configEnvVars {
		if val := os.Getenv(name); val != "" {
			fmt.Fprintf(out, "%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(out, "(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'shardsweep config edit' to modify it.")
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
