package output

import "github.com/charmbracelet/lipgloss"

// ANSI 256-color palette shared by the pretty formatter and the TUI.
const (
	ColorPrimary = lipgloss.Color("39")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorDanger  = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("245")
)

var (
	// HeaderBox wraps the sweep parameters.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// FooterBox wraps the best-result summary.
	FooterBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			MarginTop(1)
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// NumberStyle is used for throughput values.
	NumberStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorMuted)

	// BestRowStyle highlights the best row under the error target.
	BestRowStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// ErrorLevelStyle picks a color for an error probability relative to a target.
// Values within target render green, values within ten times the target
// render orange, and everything else renders red. A zero target renders muted.
func ErrorLevelStyle(p, target float64) lipgloss.Style {
	switch {
	case target <= 0:
		return MutedStyle
	case p <= target:
		return SuccessStyle
	case p <= target*10:
		return WarningStyle
	default:
		return ErrorStyle
	}
}
