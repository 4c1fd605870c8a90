// Package cmdtest isolates command tests from the user's configuration,
// database, and keychain.
package cmdtest

import (
	"bytes"
	"path/filepath"
	"testing"

	"pharmacertlabs/pharmacert/internal/config"
	"pharmacertlabs/pharmacert/internal/database"
	"pharmacertlabs/pharmacert/internal/roles"
	"pharmacertlabs/pharmacert/internal/session"

	"github.com/spf13/cobra"
)

// SetupTest points configuration, the database, and the session at
// per-test locations and returns the session store.
func SetupTest(t testing.TB) *session.MockStore {
	t.Helper()
	dir := t.TempDir()

	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)

	database.SetPath(filepath.Join(dir, "pharmacert.db"))
	t.Cleanup(database.ResetPath)

	store := session.NewMockStore()
	session.SetDefault(store)
	t.Cleanup(session.ResetDefault)

	return store
}

// Exec runs cmd with args and returns what it wrote to stdout and stderr.
func Exec(t testing.TB, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// Login connects address in the test session and initializes its role. The
// first address initialized in a test database becomes admin.
func Login(t testing.TB, store *session.MockStore, address string) roles.Role {
	t.Helper()
	repo, err := roles.Open()
	if err != nil {
		t.Fatalf("open roles: %v", err)
	}
	defer repo.Close()

	user, err := roles.NewManager(repo).Initialize(address)
	if err != nil {
		t.Fatalf("initialize %s: %v", address, err)
	}
	if err := store.SetAddress(address); err != nil {
		t.Fatalf("set address: %v", err)
	}
	return user.Role
}
