// Package components renders the header, footer, and status line shared by
// the pharmacert terminal views. These are plain render helpers, not models.
package components

import (
	"strings"

	"pharmacertlabs/pharmacert/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Header renders the title bar, with an optional right-aligned note such as
// the connected address.
func Header(width int, breadcrumb, note string) string {
	if width < 10 {
		return ""
	}

	left := styles.Title.Foreground(styles.Teal).Render("pharmacert")
	if breadcrumb != "" {
		left += styles.MutedText.Render(" > ") + styles.Title.Render(breadcrumb)
	}
	right := ""
	if note != "" {
		right = styles.Subtitle.Render(note)
	}

	gap := max(width-4-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.DimGray).
		Render(left + strings.Repeat(" ", gap) + right)
}

// KeyBinding is one entry of the footer help.
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer renders the key binding help bar.
func Footer(width int, bindings []KeyBinding) string {
	if width < 10 || len(bindings) == 0 {
		return ""
	}

	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = styles.FormatKeyBinding(b.Key, b.Desc)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(styles.DimGray).
		Render(strings.Join(parts, "  "))
}

// Level selects the color of a status message.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

// StatusBar renders a one-line status message. Empty messages render nothing.
func StatusBar(width int, message string, level Level) string {
	if message == "" {
		return ""
	}

	style := styles.MutedText
	switch level {
	case Success:
		style = styles.SuccessText
	case Warning:
		style = styles.WarningText
	case Error:
		style = styles.ErrorText
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(style.Render(message))
}
