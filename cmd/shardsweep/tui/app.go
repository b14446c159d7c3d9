// Package tui provides an interactive table for browsing sweep results.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/output"
)

const bestMarker = "*"

const (
	minTableHeight = 3
	maxTableHeight = 12

	// headerHeight is the table header line plus its bottom border.
	headerHeight = 2
)

// chrome is the number of lines used by everything except the table body.
const chrome = 9

var (
	titleStyle   = output.TitleStyle.PaddingLeft(1)
	detailStyle  = lipgloss.NewStyle().PaddingLeft(1)
	helpKeyStyle = lipgloss.NewStyle().Foreground(output.ColorPrimary).Bold(true)
	helpStyle    = output.MutedStyle
	outerBox     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(output.ColorMuted)
)

// Model is the results browser.
type Model struct {
	report   *output.Report
	table    table.Model
	width    int
	height   int
	quitting bool
}

// NewModel builds a results browser for r. The cursor starts on the best
// result when there is one.
func NewModel(r *output.Report) Model {
	columns := []table.Column{
		{Title: " ", Width: 1},
		{Title: "Shards", Width: 8},
		{Title: "Error", Width: 10},
		{Title: "Throughput", Width: 14},
	}

	rows := make([]table.Row, len(r.Results))
	cursor := 0
	for i, res := range r.Results {
		marker := ""
		if r.IsBest(i) {
			marker = bestMarker
			cursor = i
		}
		rows[i] = table.Row{
			marker,
			strconv.Itoa(res.ShardSize),
			output.FormatError(res.ErrorProbability),
			humanize.Commaf(res.OptimalThroughput),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(min(len(rows), maxTableHeight), minTableHeight)+headerHeight),
	)
	t.SetStyles(tableStyles())
	t.SetCursor(cursor)

	return Model{report: r, table: t}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(output.ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(output.ColorPrimary).
		Bold(false)
	return s
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "b":
			m.jumpToBest()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := msg.Height - chrome; h >= minTableHeight {
			m.table.SetHeight(min(h, len(m.report.Results)) + headerHeight)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) jumpToBest() {
	if m.report.IsBest(m.report.BestIndex) {
		m.table.SetCursor(m.report.BestIndex)
	}
}

// Cursor returns the index of the highlighted result.
func (m Model) Cursor() int {
	return m.table.Cursor()
}

// Quitting reports whether the user asked to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.renderTitle()))
	b.WriteString("\n\n")

	if len(m.report.Results) == 0 {
		b.WriteString(detailStyle.Render(helpStyle.Render("No shard sizes to evaluate.")))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n\n")
		b.WriteString(detailStyle.Render(m.renderDetail()))
		b.WriteString("\n")
	}

	b.WriteString(detailStyle.Render(m.renderHelp()))

	return outerBox.Render(b.String())
}

func (m Model) renderTitle() string {
	in := m.report.Input
	return fmt.Sprintf("shardsweep - %d honest nodes, bandwidth %s",
		in.HonestNodes, humanize.Commaf(in.BandwidthPerShard))
}

func (m Model) renderDetail() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.report.Results) {
		return ""
	}
	res := m.report.Results[i]

	line := fmt.Sprintf("%d shards: error %g, throughput %s",
		res.ShardSize, res.ErrorProbability, output.FormatNumber(res.OptimalThroughput))

	switch {
	case m.report.IsBest(i):
		return output.SuccessStyle.Render(line + "  (best within " + output.FormatError(m.report.MaxError) + ")")
	case m.report.MaxError > 0:
		return output.ErrorLevelStyle(res.ErrorProbability, m.report.MaxError).Render(line)
	default:
		return line
	}
}

func (m Model) renderHelp() string {
	hints := []struct{ key, desc string }{
		{"↑/↓", "move"},
		{"b", "best"},
		{"q", "quit"},
	}
	if m.report.Best == nil {
		hints = append(hints[:1], hints[2:]...)
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = helpKeyStyle.Render(h.key) + " " + helpStyle.Render(h.desc)
	}
	return strings.Join(parts, "  ")
}

// Run starts the results browser and blocks until the user quits.
func Run(r *output.Report) error {
	p := tea.NewProgram(NewModel(r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
