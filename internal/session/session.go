// Package session remembers which wallet address the CLI acts as. The address
// is kept in the OS keychain between invocations.
package session

import (
	"errors"
	"sync"
)

// ServiceName is the keychain service under which the address is stored.
const ServiceName = "pharmacert"

// ErrNoSession is returned when no wallet address is stored.
var ErrNoSession = errors.New("session: no wallet connected")

// Store persists the connected wallet address.
type Store interface {
	SetAddress(address string) error
	Address() (string, error)
	Clear() error
}

var (
	defaultMu       sync.Mutex
	defaultOverride Store
)

// Default returns the keychain-backed store, or the override installed with
// SetDefault.
func Default() Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultOverride != nil {
		return defaultOverride
	}
	return NewKeyringStore(ServiceName)
}

// SetDefault replaces the store returned by Default. Intended for testing.
func SetDefault(s Store) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOverride = s
}

// ResetDefault removes the override installed with SetDefault.
func ResetDefault() { SetDefault(nil) }
