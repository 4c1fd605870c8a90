package roles

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"pharmacertlabs/pharmacert/internal/database"
)

// Assignment is the stored role and zone of one address.
type Assignment struct {
	Address   string
	Role      Role
	Zone      string
	UpdatedAt time.Time
}

// Repository defines the persistence interface for role assignments.
type Repository interface {
	// Get returns the assignment for address, or nil if none exists.
	Get(address string) (*Assignment, error)

	// Save upserts an assignment.
	Save(a *Assignment) error

	// Delete removes an assignment. Deleting an unknown address is a no-op.
	Delete(address string) error

	// List returns every assignment ordered by address.
	List() ([]Assignment, error)

	// Count returns the number of stored assignments.
	Count() (int, error)

	// Close releases resources.
	Close() error
}

// SQLiteRepository stores assignments in the user_roles table of the shared
// local database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens the repository at the default database path.
func Open() (*SQLiteRepository, error) {
	db, err := database.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	return newSQLiteRepository(db)
}

// OpenAt opens the repository in the database at path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	return newSQLiteRepository(db)
}

func newSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS user_roles (
			address    TEXT PRIMARY KEY,
			role       TEXT NOT NULL,
			zone       TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("roles: migration failed: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(address string) (*Assignment, error) {
	row := r.db.QueryRow(`SELECT address, role, zone, updated_at FROM user_roles WHERE address = ?`, address)

	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("roles: query failed: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) Save(a *Assignment) error {
	a.UpdatedAt = time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO user_roles (address, role, zone, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			role = excluded.role,
			zone = excluded.zone,
			updated_at = excluded.updated_at`,
		a.Address, string(a.Role), a.Zone, a.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("roles: upsert failed: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(address string) error {
	if _, err := r.db.Exec(`DELETE FROM user_roles WHERE address = ?`, address); err != nil {
		return fmt.Errorf("roles: delete failed: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List() ([]Assignment, error) {
	rows, err := r.db.Query(`SELECT address, role, zone, updated_at FROM user_roles ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("roles: query failed: %w", err)
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("roles: scan failed: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roles: rows iteration failed: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM user_roles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("roles: count failed: %w", err)
	}
	return n, nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssignment(s scanner) (*Assignment, error) {
	var a Assignment
	var role, updated string
	if err := s.Scan(&a.Address, &role, &a.Zone, &updated); err != nil {
		return nil, err
	}
	a.Role = Role(role)
	a.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &a, nil
}

// MemoryRepository keeps assignments in memory. Used for ephemeral runs.
type MemoryRepository struct {
	mu   sync.Mutex
	data map[string]Assignment
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string]Assignment)}
}

func (m *MemoryRepository) Get(address string) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.data[address]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *MemoryRepository) Save(a *Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.UpdatedAt = time.Now().UTC()
	m.data[a.Address] = *a
	return nil
}

func (m *MemoryRepository) Delete(address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, address)
	return nil
}

func (m *MemoryRepository) List() ([]Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Assignment, 0, len(m.data))
	for _, a := range m.data {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (m *MemoryRepository) Count() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data), nil
}

func (m *MemoryRepository) Close() error { return nil }
