package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter formats output as a simple aligned table.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "SHARDS\tERROR\tTHROUGHPUT\t"); err != nil {
		return err
	}

	for i, res := range r.Results {
		marker := ""
		if r.IsBest(i) {
			marker = "*"
		}
		_, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			res.ShardSize, FormatError(res.ErrorProbability), FormatNumber(res.OptimalThroughput), marker)
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
