package session

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	s := NewKeyringStore("")

	if _, err := s.Address(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Address before login error = %v, want ErrNoSession", err)
	}
	if err := s.SetAddress("0xabc"); err != nil {
		t.Fatalf("SetAddress failed: %v", err)
	}
	got, err := s.Address()
	if err != nil {
		t.Fatalf("Address failed: %v", err)
	}
	if got != "0xabc" {
		t.Errorf("Address = %q, want 0xabc", got)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := s.Clear(); !errors.Is(err, ErrNoSession) {
		t.Errorf("second Clear error = %v, want ErrNoSession", err)
	}
}

func TestMockStore(t *testing.T) {
	s := NewMockStore()
	if _, err := s.Address(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	s.SetAddress("0x1")
	if got, _ := s.Address(); got != "0x1" {
		t.Errorf("Address = %q", got)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := s.Clear(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Clear on empty error = %v, want ErrNoSession", err)
	}
}

func TestDefaultOverride(t *testing.T) {
	mock := NewMockStore()
	SetDefault(mock)
	defer ResetDefault()

	if Default() != Store(mock) {
		t.Error("Default did not return the override")
	}
	ResetDefault()
	if _, ok := Default().(*KeyringStore); !ok {
		t.Errorf("Default after reset = %T, want *KeyringStore", Default())
	}
}
