package tui

import (
	"fmt"
	"strings"

	"pharmacertlabs/pharmacert/internal/session"
	"pharmacertlabs/pharmacert/internal/tui/components"
	"pharmacertlabs/pharmacert/internal/tui/styles"
	"pharmacertlabs/pharmacert/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Messages ---

type walletSavedMsg struct {
	address string
}

type walletSaveErrorMsg struct {
	err error
}

// --- Wallet login model ---

type walletLoginModel struct {
	store session.Store

	addressInput textinput.Model

	width  int
	height int

	err      error
	address  string
	quitting bool
}

func newWalletLoginModel(store session.Store) walletLoginModel {
	ti := textinput.New()
	ti.Placeholder = "0x..."
	ti.Focus()
	ti.CharLimit = 66
	ti.Width = 66

	return walletLoginModel{store: store, addressInput: ti}
}

// RunWalletLogin prompts for a wallet address and stores it in the session.
// It returns the normalized address, or "" if the user cancelled.
func RunWalletLogin(store session.Store) (string, error) {
	p := tea.NewProgram(newWalletLoginModel(store), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run wallet login: %w", err)
	}

	final := result.(walletLoginModel)
	if final.quitting {
		return "", nil
	}
	return final.address, nil
}

func (m walletLoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m walletLoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case walletSavedMsg:
		m.address = msg.address
		return m, tea.Quit

	case walletSaveErrorMsg:
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	return m, cmd
}

func (m walletLoginModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		address, err := util.NormalizeAddress(strings.TrimSpace(m.addressInput.Value()))
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		return m, m.saveAddress(address)
	}

	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	m.err = nil
	return m, cmd
}

func (m walletLoginModel) saveAddress(address string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.SetAddress(address); err != nil {
			return walletSaveErrorMsg{err: err}
		}
		return walletSavedMsg{address: address}
	}
}

func (m walletLoginModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth login", "")
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "enter", Desc: "connect"},
		{Key: "esc", Desc: "cancel"},
	})

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.ErrorText.Render(m.err.Error())
	}

	card := lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Wallet Address"),
		styles.MutedText.Render("Enter the account address to act as"),
		"",
		m.addressInput.View(),
		errLine,
	)

	content := lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, card)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
