package output

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"
)

type yamlOutput struct {
	Params  yamlParams   `yaml:"params"`
	Results []yamlResult `yaml:"results"`
	Meta    yamlMeta     `yaml:"meta"`
}

type yamlParams struct {
	ShardSizes        []int   `yaml:"shard_sizes,flow"`
	HonestNodes       int     `yaml:"honest_nodes"`
	BandwidthPerShard float64 `yaml:"bandwidth_per_shard"`
	MaxError          float64 `yaml:"max_error,omitempty"`
}

type yamlResult struct {
	ShardSize         int     `yaml:"shard_size"`
	ErrorProbability  float64 `yaml:"error_probability"`
	OptimalThroughput float64 `yaml:"optimal_throughput"`
	Best              bool    `yaml:"best,omitempty"`
}

type yamlMeta struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	TotalShards int       `yaml:"total_shards"`
	PlotPath    string    `yaml:"plot_path,omitempty"`
	RunID       string    `yaml:"run_id,omitempty"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	results := make([]yamlResult, len(r.Results))
	for i, res := range r.Results {
		results[i] = yamlResult{
			ShardSize:         res.ShardSize,
			ErrorProbability:  res.ErrorProbability,
			OptimalThroughput: res.OptimalThroughput,
			Best:              r.IsBest(i),
		}
	}

	out := yamlOutput{
		Params: yamlParams{
			ShardSizes:        r.Input.ShardSizes,
			HonestNodes:       r.Input.HonestNodes,
			BandwidthPerShard: r.Input.BandwidthPerShard,
			MaxError:          r.MaxError,
		},
		Results: results,
		Meta: yamlMeta{
			GeneratedAt: r.GeneratedAt,
			TotalShards: len(r.Results),
			PlotPath:    r.PlotPath,
			RunID:       r.RunID,
		},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
