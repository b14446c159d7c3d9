package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/calc"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// PlotConfig configures the chart.
type PlotConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Path    string  `mapstructure:"path"`
	Title   string  `mapstructure:"title"`
	Width   float64 `mapstructure:"width"`  // inches
	Height  float64 `mapstructure:"height"` // inches
	DPI     int     `mapstructure:"dpi"`
}

// HistoryConfig configures the run history store.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	ShardSizes  []int         `mapstructure:"shard_sizes"`
	HonestNodes int           `mapstructure:"honest_nodes"`
	Bandwidth   float64       `mapstructure:"bandwidth"`
	MaxError    float64       `mapstructure:"max_error"`
	Output      string        `mapstructure:"output"`
	Plot        PlotConfig    `mapstructure:"plot"`
	History     HistoryConfig `mapstructure:"history"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// SweepInput converts the configuration into calculator input.
func (c *Config) SweepInput() calc.Input {
	sizes := make([]int, len(c.ShardSizes))
	copy(sizes, c.ShardSizes)
	return calc.Input{
		ShardSizes:        sizes,
		HonestNodes:       c.HonestNodes,
		BandwidthPerShard: c.Bandwidth,
	}
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("shard_sizes", DefaultShardSizes)
	v.SetDefault("honest_nodes", DefaultHonestNodes)
	v.SetDefault("bandwidth", DefaultBandwidth)
	v.SetDefault("max_error", 0.0)
	v.SetDefault("output", DefaultOutput)

	v.SetDefault("plot.enabled", true)
	v.SetDefault("plot.path", DefaultPlotPath)
	v.SetDefault("plot.title", "")
	v.SetDefault("plot.width", DefaultPlotWidth)
	v.SetDefault("plot.height", DefaultPlotHeight)
	v.SetDefault("plot.dpi", DefaultPlotDPI)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "") // Empty means use DefaultHistoryPath
	v.SetDefault("history.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.compress", false)
	v.SetDefault("logging.components", map[string]string{
		"sweep":   "info",
		"plot":    "info",
		"history": "info",
		"watcher": "warn",
	})
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/shardsweep/config.yaml
//   - $HOME/.config/shardsweep/config.yaml
//
// Environment variables are prefixed with SHARDSWEEP_ (e.g., SHARDSWEEP_HONEST_NODES).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, AppName))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", AppName))

	return load(v)
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	BindEnv(v)
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	return Unmarshal(v)
}

// BindEnv enables SHARDSWEEP_ environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SHARDSWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Unmarshal decodes v into a Config.
// A shard_sizes value given as a string ("2,4,8" or "2-16:2") is parsed
// with calc.ParseShardSizes.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		shardSizesHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath()
	}

	var err error
	if cfg.History.Path, err = ExpandPath(cfg.History.Path); err != nil {
		return nil, err
	}
	if cfg.Plot.Path, err = ExpandPath(cfg.Plot.Path); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = ExpandPath(cfg.Logging.Path); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var intSliceType = reflect.TypeOf([]int(nil))

// shardSizesHook decodes a string into []int using the shard list syntax.
func shardSizesHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != intSliceType {
		return data, nil
	}
	sizes, err := calc.ParseShardSizes(data.(string))
	if err != nil {
		return nil, fmt.Errorf("invalid shard_sizes: %w", err)
	}
	return sizes, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# shardsweep configuration

# Shard-size candidates, evaluated in order.
# Also accepts a string such as "2-16:2" or "2,4,8".
shard_sizes: [2, 4, 6, 8, 10, 16]

# Number of honest nodes in the error model.
honest_nodes: %d

# Per-shard bandwidth; throughput is shard_size * bandwidth.
bandwidth: %g

# Highlight the highest-throughput shard size whose error probability
# stays at or below this value (0 disables).
max_error: 0

# Output format: text, plain, pretty, json, jsonl, yaml, csv, tsv, markdown, template
output: %s

# Chart settings
plot:
  enabled: true
  path: %s
  title: ""
  width: %g   # inches
  height: %g  # inches
  dpi: %d

# Run history
history:
  enabled: true
  # Empty means use default: $XDG_DATA_HOME/shardsweep/history
  path: ""
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/shardsweep/shardsweep.log)
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    compress: false
  # Per-component log levels
  components:
    sweep: info
    plot: info
    history: info
    watcher: warn
`, DefaultHonestNodes, DefaultBandwidth, DefaultOutput, DefaultPlotPath,
		DefaultPlotWidth, DefaultPlotHeight, DefaultPlotDPI, DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/shardsweep/ for the history database.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// StateDir returns $XDG_STATE_HOME/shardsweep/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// DefaultHistoryPath returns the default history database directory.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), AppName+".log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
