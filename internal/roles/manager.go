package roles

import (
	"fmt"
	"sync"
)

// User is an address with its effective role, zone, and permissions.
type User struct {
	Address     string       `json:"address"`
	Role        Role         `json:"role"`
	Zone        string       `json:"zone"`
	Permissions []Permission `json:"permissions"`
}

// Manager answers role and permission questions on top of a Repository.
type Manager struct {
	repo Repository

	// mu serializes Initialize so two first users cannot both become admin.
	mu sync.Mutex
}

// NewManager returns a manager backed by repo.
func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// Initialize registers address if it has never been seen. The very first
// address registered becomes admin; later ones start as viewer.
func (m *Manager) Initialize(address string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.repo.Get(address)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return userFrom(*existing), nil
	}

	count, err := m.repo.Count()
	if err != nil {
		return User{}, err
	}
	role := Viewer
	if count == 0 {
		role = Admin
	}
	a := &Assignment{Address: address, Role: role, Zone: GlobalZone}
	if err := m.repo.Save(a); err != nil {
		return User{}, err
	}
	return userFrom(*a), nil
}

// RoleOf returns the role of address. Unknown addresses are viewers.
func (m *Manager) RoleOf(address string) (Role, error) {
	a, err := m.repo.Get(address)
	if err != nil {
		return "", err
	}
	if a == nil || !a.Role.Valid() {
		return Viewer, nil
	}
	return a.Role, nil
}

// HasPermission reports whether address holds p.
func (m *Manager) HasPermission(address string, p Permission) (bool, error) {
	role, err := m.RoleOf(address)
	if err != nil {
		return false, err
	}
	return role.Can(p), nil
}

// SetRole assigns role to address, keeping any existing zone.
func (m *Manager) SetRole(address string, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	a, err := m.repo.Get(address)
	if err != nil {
		return err
	}
	if a == nil {
		a = &Assignment{Address: address}
	}
	a.Role = role
	return m.repo.Save(a)
}

// SetZone sets the responsibility zone of address. Unknown addresses are
// stored as viewers.
func (m *Manager) SetZone(address, zone string) error {
	a, err := m.repo.Get(address)
	if err != nil {
		return err
	}
	if a == nil {
		a = &Assignment{Address: address, Role: Viewer}
	}
	a.Zone = zone
	return m.repo.Save(a)
}

// Zone returns the stored zone of address, or "" when none is set.
func (m *Manager) Zone(address string) (string, error) {
	a, err := m.repo.Get(address)
	if err != nil || a == nil {
		return "", err
	}
	return a.Zone, nil
}

// CanAccessZone reports whether address may act in zone. Addresses without a
// zone or with the global zone may act anywhere.
func (m *Manager) CanAccessZone(address, zone string) (bool, error) {
	own, err := m.Zone(address)
	if err != nil {
		return false, err
	}
	if own == "" || own == GlobalZone {
		return true, nil
	}
	return own == zone, nil
}

// Remove deletes the assignment of address.
func (m *Manager) Remove(address string) error {
	return m.repo.Delete(address)
}

// Users lists every known address.
func (m *Manager) Users() ([]User, error) {
	assignments, err := m.repo.List()
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(assignments))
	for _, a := range assignments {
		users = append(users, userFrom(a))
	}
	return users, nil
}

func userFrom(a Assignment) User {
	zone := a.Zone
	if zone == "" {
		zone = GlobalZone
	}
	return User{
		Address:     a.Address,
		Role:        a.Role,
		Zone:        zone,
		Permissions: a.Role.Permissions(),
	}
}
