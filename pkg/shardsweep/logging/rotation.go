package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig configures log file rotation behavior.
type RotationConfig struct {
	// MaxSizeMB is the maximum size in megabytes before rotation.
	// Zero uses the default of 10MB.
	MaxSizeMB int

	// MaxAge is the maximum number of days to retain old log files.
	// Zero means no age-based cleanup.
	MaxAge int

	// MaxBackups is the maximum number of old log files to keep.
	// Zero keeps all old files (subject to MaxAge).
	MaxBackups int

	// Compress gzips rotated files.
	Compress bool
}

// DefaultRotationConfig returns sensible defaults for rotation.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxAge:     30,
		MaxBackups: 5,
	}
}

// NewRotatingWriter returns a size-rotated log writer for path.
// Parent directories are created if missing.
func NewRotatingWriter(path string, cfg RotationConfig) (*lumberjack.Logger, error) {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = DefaultRotationConfig().MaxSizeMB
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}, nil
}
