package tui

import (
	"strings"
	"testing"

	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func TestWalletLogin_RejectsInvalidAddress(t *testing.T) {
	m := newWalletLoginModel(session.NewMockStore())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(walletLoginModel)

	if m.err == nil {
		t.Fatal("expected validation error for address without 0x")
	}
	if cmd != nil {
		t.Error("expected no save command for an invalid address")
	}
}

func TestWalletLogin_SavesNormalizedAddress(t *testing.T) {
	store := session.NewMockStore()
	m := newWalletLoginModel(store)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" 0xABC ")})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a save command")
	}

	next, _ = next.Update(cmd())
	m = next.(walletLoginModel)

	if m.address != "0xabc" {
		t.Errorf("expected normalized address 0xabc, got %q", m.address)
	}
	got, err := store.Address()
	if err != nil {
		t.Fatalf("Address() error = %v", err)
	}
	if got != "0xabc" {
		t.Errorf("expected stored address 0xabc, got %q", got)
	}
}

func TestWalletLogin_EscCancels(t *testing.T) {
	next, cmd := newWalletLoginModel(session.NewMockStore()).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(walletLoginModel).quitting {
		t.Error("expected quitting after esc")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestSessionStatus_RenderCard(t *testing.T) {
	disconnected := sessionStatusModel{}.renderCard()
	if !strings.Contains(disconnected, "No wallet connected") {
		t.Errorf("expected disconnected message, got %q", disconnected)
	}

	user := &roles.User{
		Address:     "0xabc",
		Role:        roles.Operator,
		Zone:        roles.GlobalZone,
		Permissions: roles.Operator.Permissions(),
	}
	card := sessionStatusModel{user: user}.renderCard()
	for _, want := range []string{"0xabc", "operator", "Global"} {
		if !strings.Contains(card, want) {
			t.Errorf("expected card to contain %q", want)
		}
	}
}
