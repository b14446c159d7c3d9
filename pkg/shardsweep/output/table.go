package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

var tableHeader = []string{"shard_size", "error_probability", "optimal_throughput"}

// tableRecord renders a result with full precision for machine consumption.
func tableRecord(shardSize int, errProb, throughput float64) []string {
	return []string{
		strconv.Itoa(shardSize),
		strconv.FormatFloat(errProb, 'g', -1, 64),
		FormatNumber(throughput),
	}
}

// TSVFormatter formats output as tab-separated values.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString("shard_size\terror_probability\toptimal_throughput\n")

	for _, row := range r.Results.Rows() {
		rec := tableRecord(row.ShardSize, row.ErrorProbability, row.OptimalThroughput)
		fmt.Fprintf(w, "%s\t%s\t%s\n", rec[0], rec[1], rec[2])
	}

	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter formats output as comma-separated values.
// It uses encoding/csv for RFC 4180 compliant output.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(tableHeader); err != nil {
		return err
	}

	for _, row := range r.Results.Rows() {
		if err := writer.Write(tableRecord(row.ShardSize, row.ErrorProbability, row.OptimalThroughput)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter formats output as a GitHub-flavored Markdown table.
// The best result, if any, is rendered in bold.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString("| Shards | Error | Optimal Throughput |\n")
	w.WriteString("|-------:|------:|-------------------:|\n")

	for i, res := range r.Results {
		shards := strconv.Itoa(res.ShardSize)
		errStr := FormatError(res.ErrorProbability)
		tput := FormatNumber(res.OptimalThroughput)
		if r.IsBest(i) {
			shards, errStr, tput = "**"+shards+"**", "**"+errStr+"**", "**"+tput+"**"
		}
		fmt.Fprintf(w, "| %s | %s | %s |\n", shards, errStr, tput)
	}

	return nil
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
