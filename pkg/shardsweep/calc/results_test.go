package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResults_RowsAndSeries(t *testing.T) {
	results, err := Compute(Input{ShardSizes: []int{8, 2, 4}, HonestNodes: 3, BandwidthPerShard: 10})
	require.NoError(t, err)

	rows := results.Rows()
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, results[i].ShardSize, row.ShardSize)
		assert.Equal(t, results[i].ErrorProbability, row.ErrorProbability)
		assert.Equal(t, results[i].OptimalThroughput, row.OptimalThroughput)
	}

	errs, throughputs := results.Series()
	assert.Equal(t, []float64{0.669921875, 0.125, 0.421875}, errs)
	assert.Equal(t, []float64{80, 20, 40}, throughputs)
}

func TestResults_SeriesEmpty(t *testing.T) {
	errs, throughputs := Results{}.Series()
	assert.Empty(t, errs)
	assert.Empty(t, throughputs)
}

func TestResults_BestWithin(t *testing.T) {
	results, err := Compute(Input{ShardSizes: []int{2, 4, 6, 8, 10, 16}, HonestNodes: 64, BandwidthPerShard: 60})
	require.NoError(t, err)

	tests := []struct {
		name      string
		maxError  float64
		wantShard int
		wantFound bool
	}{
		{"strict target picks smallest shard", 1e-19, 2, true},
		{"one in a million", 1e-6, 4, true},
		{"one in a thousand", 1e-3, 8, true},
		{"loose target picks largest shard", 0.5, 16, true},
		{"unreachable target", 1e-30, 0, false},
		{"disabled target", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, found := results.BestWithin(tt.maxError)
			assert.Equal(t, tt.wantFound, found)
			if found {
				assert.Equal(t, tt.wantShard, best.ShardSize)
			}
		})
	}
}

func TestResults_BestWithinKeepsEarliestTie(t *testing.T) {
	results := Results{
		{ShardSize: 4, ErrorProbability: 0.1, OptimalThroughput: 100},
		{ShardSize: 5, ErrorProbability: 0.1, OptimalThroughput: 100},
	}

	best, found := results.BestWithin(0.2)
	require.True(t, found)
	assert.Equal(t, 4, best.ShardSize)
}

func TestResults_BestIndexWithinDuplicates(t *testing.T) {
	results, err := Compute(Input{ShardSizes: []int{4, 2, 4}, HonestNodes: 64, BandwidthPerShard: 60})
	require.NoError(t, err)

	assert.Equal(t, 0, results.BestIndexWithin(1e-6))
	assert.Equal(t, -1, results.BestIndexWithin(0))
	assert.Equal(t, -1, results.BestIndexWithin(1e-30))
}
