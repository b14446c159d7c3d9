package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a header with the sweep parameters, a results table,
// and a footer naming the best shard size under the error target.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Report) string {
	var lines []string

	lines = append(lines, TitleStyle.Render("Shard size sweep"))

	params := []string{
		field("Honest nodes:", strconv.Itoa(r.Input.HonestNodes)),
		field("Bandwidth/shard:", humanize.Commaf(r.Input.BandwidthPerShard)),
	}
	if r.MaxError > 0 {
		params = append(params, field("Max error:", FormatError(r.MaxError)))
	}
	lines = append(lines, strings.Join(params, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatTable(r *Report) string {
	if len(r.Results) == 0 {
		return MutedStyle.Render("  No shard sizes to evaluate\n")
	}

	shardWidth, errWidth, tputWidth := len("SHARDS"), len("ERROR"), len("THROUGHPUT")
	for _, res := range r.Results {
		shardWidth = max(shardWidth, len(strconv.Itoa(res.ShardSize)))
		errWidth = max(errWidth, len(FormatError(res.ErrorProbability)))
		tputWidth = max(tputWidth, len(humanize.Commaf(res.OptimalThroughput)))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		TableHeaderStyle.Render(padLeft("SHARDS", shardWidth)),
		TableHeaderStyle.Render(padLeft("ERROR", errWidth)),
		TableHeaderStyle.Render(padLeft("THROUGHPUT", tputWidth))))

	for i, res := range r.Results {
		shards := padLeft(strconv.Itoa(res.ShardSize), shardWidth)
		errStr := padLeft(FormatError(res.ErrorProbability), errWidth)
		tput := padLeft(humanize.Commaf(res.OptimalThroughput), tputWidth)

		if r.IsBest(i) {
			sb.WriteString(BestRowStyle.Render(fmt.Sprintf("  %s  %s  %s  <- best", shards, errStr, tput)))
			sb.WriteString("\n")
			continue
		}

		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			ValueStyle.Render(shards),
			ErrorLevelStyle(res.ErrorProbability, r.MaxError).Render(errStr),
			NumberStyle.Render(tput)))
	}

	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Report) string {
	var parts []string

	parts = append(parts, field("Shard sizes:", strconv.Itoa(len(r.Results))))

	switch {
	case r.Best != nil:
		parts = append(parts, LabelStyle.Render("Best:")+" "+
			SuccessStyle.Render(fmt.Sprintf("%d shards, %s", r.Best.ShardSize, humanize.Commaf(r.Best.OptimalThroughput))))
	case r.MaxError > 0:
		parts = append(parts, WarningStyle.Render("No shard size within max error"))
	}

	if r.PlotPath != "" {
		parts = append(parts, field("Plot:", r.PlotPath))
	}

	parts = append(parts, MutedStyle.Render("Use -o plain for unformatted output"))

	return FooterBox.Render(strings.Join(parts, "  "))
}

func field(label, value string) string {
	return LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
