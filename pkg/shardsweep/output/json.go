package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Params  jsonParams   `json:"params"`
	Results []jsonResult `json:"results"`
	Meta    jsonMeta     `json:"meta"`
}

type jsonParams struct {
	ShardSizes        []int   `json:"shard_sizes"`
	HonestNodes       int     `json:"honest_nodes"`
	BandwidthPerShard float64 `json:"bandwidth_per_shard"`
	MaxError          float64 `json:"max_error,omitempty"`
}

type jsonResult struct {
	ShardSize         int     `json:"shard_size"`
	ErrorProbability  float64 `json:"error_probability"`
	OptimalThroughput float64 `json:"optimal_throughput"`
	Best              bool    `json:"best,omitempty"`
}

type jsonMeta struct {
	GeneratedAt time.Time   `json:"generated_at"`
	TotalShards int         `json:"total_shards"`
	PlotPath    string      `json:"plot_path,omitempty"`
	RunID       string      `json:"run_id,omitempty"`
	Best        *jsonResult `json:"best,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object
// with params, results, and meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.buildOutput(r))
}

func (f *JSONFormatter) buildOutput(r *Report) jsonOutput {
	results := make([]jsonResult, len(r.Results))
	for i, res := range r.Results {
		results[i] = jsonResult{
			ShardSize:         res.ShardSize,
			ErrorProbability:  res.ErrorProbability,
			OptimalThroughput: res.OptimalThroughput,
			Best:              r.IsBest(i),
		}
	}

	sizes := r.Input.ShardSizes
	if sizes == nil {
		sizes = []int{}
	}

	meta := jsonMeta{
		GeneratedAt: r.GeneratedAt,
		TotalShards: len(r.Results),
		PlotPath:    r.PlotPath,
		RunID:       r.RunID,
	}
	if r.Best != nil {
		meta.Best = &jsonResult{
			ShardSize:         r.Best.ShardSize,
			ErrorProbability:  r.Best.ErrorProbability,
			OptimalThroughput: r.Best.OptimalThroughput,
			Best:              true,
		}
	}

	return jsonOutput{
		Params: jsonParams{
			ShardSizes:        sizes,
			HonestNodes:       r.Input.HonestNodes,
			BandwidthPerShard: r.Input.BandwidthPerShard,
			MaxError:          r.MaxError,
		},
		Results: results,
		Meta:    meta,
	}
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON, one result per line.
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Report) error {
	for i, res := range r.Results {
		data, err := json.Marshal(jsonResult{
			ShardSize:         res.ShardSize,
			ErrorProbability:  res.ErrorProbability,
			OptimalThroughput: res.OptimalThroughput,
			Best:              r.IsBest(i),
		})
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
