package tui

import (
	"strings"

	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/tui/components"
	"pharmacertlabs/pharmacert/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type sessionStatusModel struct {
	user *roles.User

	width  int
	height int
}

// RunSessionStatus shows the connected address with its role and
// permissions. A nil user renders the disconnected state.
func RunSessionStatus(user *roles.User) error {
	p := tea.NewProgram(sessionStatusModel{user: user}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m sessionStatusModel) Init() tea.Cmd {
	return nil
}

func (m sessionStatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m sessionStatusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth status", "")
	footer := components.Footer(m.width, []components.KeyBinding{{Key: "q", Desc: "quit"}})
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	content := lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.renderCard())
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m sessionStatusModel) renderCard() string {
	if m.user == nil {
		return styles.MutedText.Render("No wallet connected. Run `pharmacert auth login`.")
	}

	label := styles.Label.Width(14)
	perms := make([]string, len(m.user.Permissions))
	for i, p := range m.user.Permissions {
		perms[i] = string(p)
	}
	permText := styles.MutedText.Render("none")
	if len(perms) > 0 {
		permText = styles.Value.Render(strings.Join(perms, "\n"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		label.Render("Address")+styles.Value.Render(m.user.Address),
		label.Render("Role")+styles.SuccessText.Render(string(m.user.Role)),
		label.Render("Zone")+styles.Value.Render(m.user.Zone),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, label.Render("Permissions"), permText),
	)

	return lipgloss.JoinVertical(lipgloss.Center,
		styles.Title.Render("Connected Wallet"),
		"",
		styles.Card.Render(body),
	)
}
