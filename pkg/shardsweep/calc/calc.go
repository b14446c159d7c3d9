// Package calc evaluates the shard error-probability model across a set of
// shard-size candidates.
//
// For each shard size s, with n honest nodes and bandwidth b per shard:
//
//	error      = (1 - 1/s)^n
//	throughput = s * b
//
// Results preserve the order of the input shard sizes.
package calc

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned for invalid sweep inputs.
var (
	ErrInvalidShardSize   = errors.New("shard size must be a positive integer")
	ErrInvalidHonestNodes = errors.New("honest node count must not be negative")
	ErrInvalidBandwidth   = errors.New("bandwidth per shard must be a finite number")
)

// Input holds the parameters of a single sweep.
type Input struct {
	// ShardSizes are the candidates, evaluated in order.
	ShardSizes []int `json:"shard_sizes" yaml:"shard_sizes"`

	// HonestNodes is the number of honest participants in the model.
	HonestNodes int `json:"honest_nodes" yaml:"honest_nodes"`

	// BandwidthPerShard is the per-shard bandwidth constant.
	BandwidthPerShard float64 `json:"bandwidth_per_shard" yaml:"bandwidth_per_shard"`
}

// Validate reports the first invalid field of the input.
func (in Input) Validate() error {
	if in.HonestNodes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHonestNodes, in.HonestNodes)
	}
	if math.IsNaN(in.BandwidthPerShard) || math.IsInf(in.BandwidthPerShard, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidBandwidth, in.BandwidthPerShard)
	}
	for i, s := range in.ShardSizes {
		if s <= 0 {
			return fmt.Errorf("shard_sizes[%d]: %w: %d", i, ErrInvalidShardSize, s)
		}
	}
	return nil
}

// Result is the model output for one shard size.
type Result struct {
	ShardSize         int     `json:"shard_size" yaml:"shard_size"`
	ErrorProbability  float64 `json:"error_probability" yaml:"error_probability"`
	OptimalThroughput float64 `json:"optimal_throughput" yaml:"optimal_throughput"`
}

// Compute evaluates the model for every shard size in the input.
// It fails without partial results if any input is invalid.
func Compute(in Input) (Results, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	results := make(Results, 0, len(in.ShardSizes))
	for _, s := range in.ShardSizes {
		results = append(results, Result{
			ShardSize:         s,
			ErrorProbability:  ErrorProbability(s, in.HonestNodes),
			OptimalThroughput: float64(s) * in.BandwidthPerShard,
		})
	}
	return results, nil
}

// ErrorProbability returns (1 - 1/shardSize)^honestNodes.
// Callers must pass shardSize >= 1 and honestNodes >= 0.
func ErrorProbability(shardSize, honestNodes int) float64 {
	return math.Pow(1-1/float64(shardSize), float64(honestNodes))
}
