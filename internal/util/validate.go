package util

import (
	"fmt"
	"regexp"
	"strings"
)

// addressHex matches the hex body of an account address.
var addressHex = regexp.MustCompile(`^[0-9a-fA-F]{1,64}$`)

// ValidateAddress checks that s looks like an Aptos account address:
//   - a "0x" prefix
//   - between 1 and 64 hexadecimal digits after the prefix
func ValidateAddress(s string) error {
	body, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return fmt.Errorf("address %q must start with 0x", s)
	}
	if body == "" {
		return fmt.Errorf("address %q has no digits after 0x", s)
	}
	if !addressHex.MatchString(body) {
		return fmt.Errorf("address %q must contain at most 64 hexadecimal digits after 0x", s)
	}
	return nil
}

// NormalizeAddress trims and lowercases an address, then validates it.
// Addresses are stored in this form so lookups never depend on the case a
// wallet reported.
func NormalizeAddress(s string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(s))
	if err := ValidateAddress(addr); err != nil {
		return "", err
	}
	return addr, nil
}
