package session

// MockStore is an in-memory session store for testing.
type MockStore struct {
	address string
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) SetAddress(address string) error {
	m.address = address
	return nil
}

func (m *MockStore) Address() (string, error) {
	if m.address == "" {
		return "", ErrNoSession
	}
	return m.address, nil
}

func (m *MockStore) Clear() error {
	if m.address == "" {
		return ErrNoSession
	}
	m.address = ""
	return nil
}
