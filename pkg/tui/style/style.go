package style

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/clcollins/nowdesk/pkg/classify"
)

var (
	white          = lipgloss.AdaptiveColor{Dark: "#ffffff", Light: "#ffffff"}
	lightBlue      = lipgloss.AdaptiveColor{Dark: "#778da9", Light: "#415a77"}
	blue           = lipgloss.AdaptiveColor{Dark: "#415a77", Light: "#415a77"}
	backgroundBlue = lipgloss.AdaptiveColor{Dark: "#0d1b2a", Light: "#0d1b2a"}
	gray           = lipgloss.AdaptiveColor{Dark: "#6c757d", Light: "#6c757d"}
	green          = lipgloss.AdaptiveColor{Dark: "#28a745", Light: "#28a745"}
	teal           = lipgloss.AdaptiveColor{Dark: "#17a2b8", Light: "#17a2b8"}
	red            = lipgloss.AdaptiveColor{Dark: "#dc3545", Light: "#dc3545"}
	orange         = lipgloss.AdaptiveColor{Dark: "#fd7e14", Light: "#fd7e14"}
	yellow         = lipgloss.AdaptiveColor{Dark: "#ffc107", Light: "#b8860b"}
	pink           = lipgloss.AdaptiveColor{Light: "#E11C9C", Dark: "#FF62DA"}
)

const HorizontalPadding = 1

var (
	Main = lipgloss.NewStyle().Foreground(lightBlue)

	Padded = Main.Copy().Padding(0, 2, 0, 1)

	Title = lipgloss.NewStyle().Bold(true).Foreground(white).Background(blue).Padding(0, 1)

	Tab         = lipgloss.NewStyle().Foreground(lightBlue).Padding(0, 1)
	ActiveTab   = Tab.Copy().Bold(true).Foreground(white).Background(blue)
	StatusLine  = Main.Copy().Padding(0, 1)
	Help        = lipgloss.NewStyle().Foreground(lipgloss.Color("105")).Padding(0, 1)
	Label       = lipgloss.NewStyle().Bold(true).Foreground(white)
	FocusLabel  = Label.Copy().Foreground(pink)
	Muted       = lipgloss.NewStyle().Foreground(gray)
	Success     = lipgloss.NewStyle().Bold(true).Foreground(green)
	Failure     = lipgloss.NewStyle().Bold(true).Foreground(red)
	Hint        = lipgloss.NewStyle().Foreground(lightBlue).Italic(true)
	Selected    = lipgloss.NewStyle().Bold(true).Foreground(white).Background(blue)
	Unavailable = lipgloss.NewStyle().Foreground(gray).Strikethrough(true)

	Container = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(blue)

	Card        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(blue).Padding(0, 1)
	CardFocused = Card.Copy().BorderForeground(pink)

	Table = table.Styles{
		Cell:     lipgloss.NewStyle().Padding(0, 1),
		Selected: lipgloss.NewStyle().Background(blue).Foreground(white).Bold(true),
		Header:   lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), false, false, true).Foreground(white),
	}

	IncidentViewer = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(blue)

	Error = lipgloss.NewStyle().
		Bold(true).
		Width(64).
		Border(lipgloss.RoundedBorder()).
		Foreground(white).
		Background(backgroundBlue).
		BorderForeground(pink).
		Padding(1, 3, 1, 3)

	badge = lipgloss.NewStyle().Bold(true).Foreground(white).Padding(0, 1)

	StatTotal    = badge.Copy().Background(blue)
	StatActive   = badge.Copy().Background(green)
	StatResolved = badge.Copy().Background(teal)
	StatClosed   = badge.Copy().Background(gray)

	visuals = map[classify.Visual]lipgloss.Style{
		classify.VisualStateNew:        badge.Copy().Background(blue),
		classify.VisualStateInProgress: badge.Copy().Background(orange),
		classify.VisualStateResolved:   badge.Copy().Background(teal),
		classify.VisualStateClosed:     badge.Copy().Background(gray),

		classify.VisualPriorityCritical: badge.Copy().Background(red),
		classify.VisualPriorityHigh:     badge.Copy().Background(orange),
		classify.VisualPriorityModerate: badge.Copy().Background(yellow).Foreground(backgroundBlue),
		classify.VisualPriorityLow:      badge.Copy().Background(green),
		classify.VisualPriorityPlanning: badge.Copy().Background(gray),
	}
)

// Badge returns the style for a classification visual.
func Badge(v classify.Visual) lipgloss.Style {
	if s, ok := visuals[v]; ok {
		return s
	}
	return badge
}
