// Package config provides configuration management for shardsweep.
package config

// Default configuration values for shardsweep.
const (
	// AppName names the config, data and state directories.
	AppName = "shardsweep"

	// DefaultHonestNodes is the honest node count assumed by the model.
	DefaultHonestNodes = 64

	// DefaultBandwidth is the per-shard bandwidth constant.
	DefaultBandwidth = 60.0

	// DefaultOutput is the formatter used when none is specified.
	DefaultOutput = "text"

	// DefaultPlotPath is where the chart is written.
	DefaultPlotPath = "./optimal_throughput_vs_error.png"

	// DefaultPlotWidth is the chart width in inches.
	DefaultPlotWidth = 8.0

	// DefaultPlotHeight is the chart height in inches.
	DefaultPlotHeight = 5.0

	// DefaultPlotDPI is the raster resolution of the chart.
	DefaultPlotDPI = 300

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/shardsweep"

	// DefaultRetentionDays is the default number of days to retain run history.
	DefaultRetentionDays = 30
)

// DefaultShardSizes are the shard-size candidates evaluated by default.
var DefaultShardSizes = []int{2, 4, 6, 8, 10, 16}
