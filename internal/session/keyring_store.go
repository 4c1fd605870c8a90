package session

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const accountKey = "wallet-address"

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetAddress(address string) error {
	return keyring.Set(k.serviceName, accountKey, address)
}

func (k *KeyringStore) Address() (string, error) {
	address, err := keyring.Get(k.serviceName, accountKey)
	if err == nil {
		return address, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSession
	}
	return "", err
}

func (k *KeyringStore) Clear() error {
	err := keyring.Delete(k.serviceName, accountKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNoSession
	}
	return err
}
