package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

var (
	Success     = lipgloss.Color("#22c55e")
	Destructive = lipgloss.Color("#ef4444")
	Warning     = lipgloss.Color("#f59e0b")
	Info        = lipgloss.Color("#3b82f6")
	Muted       = lipgloss.Color("#6b7280")
)

// Styles groups the lipgloss styles used by the terminal surface.
type Styles struct {
	TOCTitle lipgloss.Style
	TOCEntry lipgloss.Style
	Caption  lipgloss.Style
	Alerts   map[interfaces.Severity]lipgloss.Style
	Code     lipgloss.Style
	CellHead lipgloss.Style
	Output   lipgloss.Style
	Error    lipgloss.Style
	Figure   lipgloss.Style
}

// DefaultStyles returns the styles used when none are supplied.
func DefaultStyles() Styles {
	alert := func(color lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(color)
	}
	return Styles{
		TOCTitle: lipgloss.NewStyle().Bold(true).Underline(true),
		TOCEntry: lipgloss.NewStyle().Foreground(Info),
		Caption:  lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Alerts: map[interfaces.Severity]lipgloss.Style{
			interfaces.SeverityInfo:    alert(Info),
			interfaces.SeveritySuccess: alert(Success),
			interfaces.SeverityWarning: alert(Warning),
			interfaces.SeverityError:   alert(Destructive),
		},
		Code: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted),
		CellHead: lipgloss.NewStyle().Foreground(Muted).Bold(true),
		Output:   lipgloss.NewStyle().PaddingLeft(2),
		Error:    lipgloss.NewStyle().Foreground(Destructive).Bold(true),
		Figure:   lipgloss.NewStyle().Foreground(Info),
	}
}
