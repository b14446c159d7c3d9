package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/config"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/logging"
)

const megabyte = 1 << 20

// initializeLogging is the PersistentPreRunE hook. It ensures the XDG
// directories exist and initializes file logging. A logging failure is
// reported in verbose mode but never fails the command.
func initializeLogging(cmd *cobra.Command, args []string) error {
	for _, ensure := range []func() error{
		config.EnsureConfigDir,
		config.EnsureDataDir,
		config.EnsureStateDir,
	} {
		if err := ensure(); err != nil {
			printVerbose("%v", err)
		}
	}

	logCfg := logging.DefaultConfig()
	if cfg, err := loadConfig(); err == nil {
		if cfg.Logging.Level != "" {
			logCfg.Level = cfg.Logging.Level
		}
		logCfg.Path = cfg.Logging.Path
		logCfg.Components = cfg.Logging.Components
		logCfg.Rotation = parseRotationConfig(cfg.Logging.Rotation)
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	}
	logCfg.TUIMode = viper.GetBool("interactive")

	if err := logging.Init(logCfg); err != nil {
		printVerbose("file logging disabled: %v", err)
	}
	return nil
}

// shutdownLogging flushes and closes the log file.
func shutdownLogging(cmd *cobra.Command, args []string) {
	_ = logging.Close()
}

// parseRotationConfig converts the config file's rotation settings to the
// logging package's form. Sizes are rounded up to whole megabytes; an empty
// or unparsable size falls back to the default.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.RotationConfig{
		MaxSizeMB:  logging.DefaultRotationConfig().MaxSizeMB,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Compress:   rc.Compress,
	}

	if rc.MaxSize == "" {
		return out
	}
	size, err := humanize.ParseBytes(rc.MaxSize)
	if err != nil || size == 0 {
		printVerbose("invalid logging.rotation.max_size %q, using %dMB", rc.MaxSize, out.MaxSizeMB)
		return out
	}
	out.MaxSizeMB = int((size + megabyte - 1) / megabyte)
	return out
}
