package styles

import "github.com/charmbracelet/lipgloss"

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// Label is used for field names in the detail pane.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	Value = lipgloss.NewStyle().
		Foreground(White)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	AccentText = lipgloss.NewStyle().
			Foreground(Teal)

	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// SeverityStyle returns the style for a severity badge. Unknown values render gray.
func SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case "critical":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	case "high":
		return lipgloss.NewStyle().Foreground(Orange).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "low":
		return lipgloss.NewStyle().Foreground(Green)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// SeverityIndicator renders a colored dot followed by the severity name.
func SeverityIndicator(severity string) string {
	style := SeverityStyle(severity)
	return style.Render("●") + " " + style.Render(severity)
}

// Detail is the bordered panel that shows one record in full.
var Detail = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(DimGray).
	Padding(0, 1)

var (
	KeyStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true)

	KeyDescStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// FormatKeyBinding formats a single key binding for the footer.
func FormatKeyBinding(key, desc string) string {
	return KeyStyle.Render(key) + " " + KeyDescStyle.Render(desc)
}

var (
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Gray).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 1)

	TableSelectedRow = lipgloss.NewStyle().
				Foreground(White).
				Background(DarkTeal).
				Bold(true).
				Padding(0, 1)
)

// Search is the frame of the actor search input.
var Search = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Teal).
	Padding(0, 1)

// Card is a bordered container for summary panels.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(DimGray).
	Padding(1, 2)
