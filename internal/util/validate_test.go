package util

import (
	"strings"
	"testing"
)

func TestValidateAddress_Valid(t *testing.T) {
	valid := []string{
		"0x1",
		"0xABC",
		"0xabc123",
		"0x" + strings.Repeat("f", 64),
	}
	for _, addr := range valid {
		t.Run(addr, func(t *testing.T) {
			if err := ValidateAddress(addr); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", addr, err)
			}
		})
	}
}

func TestValidateAddress_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "must start with 0x"},
		{"abc", "must start with 0x"},
		{"0x", "no digits"},
		{"0xZZ", "hexadecimal"},
		{"0x" + strings.Repeat("a", 65), "at most 64"},
		{"0x12 34", "hexadecimal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.name)
			if err == nil {
				t.Errorf("expected %q to be invalid, got nil", tt.name)
				return
			}
			if got := err.Error(); !strings.Contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	got, err := NormalizeAddress("  0xABCdef ")
	if err != nil {
		t.Fatalf("NormalizeAddress failed: %v", err)
	}
	if got != "0xabcdef" {
		t.Errorf("NormalizeAddress = %q, want 0xabcdef", got)
	}
	if _, err := NormalizeAddress("wallet"); err == nil {
		t.Error("expected error for non-address input")
	}
}

func TestNormalizeAddress_TrimsAndLowercases(t *testing.T) {
	got, err := NormalizeAddress("  0xA11CE\n")
	if err != nil {
		t.Fatalf("NormalizeAddress failed: %v", err)
	}
	if got != "0xa11ce" {
		t.Errorf("NormalizeAddress = %q, want 0xa11ce", got)
	}
}
