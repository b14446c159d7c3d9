package output

import (
	"bytes"
	"fmt"
)

// TextFormatter prints one line per shard size:
//
//	shards: 2 Error 5.42e-20 Optimal Throughput: 120
type TextFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TextFormatter) Format(w *bytes.Buffer, r *Report) error {
	for _, row := range r.Results.Rows() {
		fmt.Fprintf(w, "shards: %d Error %s Optimal Throughput: %s\n",
			row.ShardSize, FormatError(row.ErrorProbability), FormatNumber(row.OptimalThroughput))
	}
	return nil
}

func init() {
	Register("text", func() Formatter {
		return &TextFormatter{}
	})
}

// Ensure TextFormatter implements Formatter.
var _ Formatter = (*TextFormatter)(nil)
