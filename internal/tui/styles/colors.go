// Package styles holds the color palette and lipgloss styles of the
// pharmacert terminal views.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text
	White   = lipgloss.Color("#E2E2E2")
	Gray    = lipgloss.Color("#888888")
	Muted   = lipgloss.Color("#555555")
	DimGray = lipgloss.Color("#444444")

	// Accent
	Teal     = lipgloss.Color("#5FD7D7")
	DarkTeal = lipgloss.Color("#12333A")

	// Severity
	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Orange = lipgloss.Color("#FFAF5F")
	Red    = lipgloss.Color("#FF8787")
)
