package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/config"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/logging"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the sweep whenever the config file changes",
	Long: `Run the sweep, then watch the config file and run it again after
every save. Flags given on the command line keep overriding the file.

Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchPath returns the config file to watch: --config, the file viper
// loaded, or the default location.
func watchPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	return config.ConfigPath()
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := logging.Get("watcher")

	path, err := watchPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	w, err := watcher.New(path, watcher.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := func() {
		cfg, err := loadConfig()
		if err != nil {
			printError("%v", err)
			return
		}
		report, err := executeSweep(cfg)
		if err != nil {
			printError("%v", err)
			return
		}
		if err := writeReport(cmd, cfg, report); err != nil {
			printError("%v", err)
		}
	}

	rerun()
	if !getQuiet() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", w.Path())
	}

	err = w.Run(ctx, func(changed string) {
		log.Info("config changed", "path", changed)
		configErr = readConfig()
		if !getQuiet() {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n--- %s: %s changed ---\n", time.Now().Format("15:04:05"), changed)
		}
		rerun()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
