package roles

import (
	"errors"
	"strings"
	"testing"

	"pharmacertlabs/pharmacert/cmd/commands/cmdtest"
	"pharmacertlabs/pharmacert/internal/app"
	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/notify"
	"pharmacertlabs/pharmacert/internal/roles"
)

const (
	adminAddr = "0xa11ce"
	bobAddr   = "0xb0b"
)

func execRoles(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return cmdtest.Exec(t, NewCommand(), args...)
}

func openApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.Open(app.Options{})
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAssign_GrantAndRevokeAdmin(t *testing.T) {
	store := cmdtest.SetupTest(t)
	cmdtest.Login(t, store, adminAddr)

	stdout, stderr, err := execRoles(t, "assign", "0xB0B", "ADMIN")
	if err != nil {
		t.Fatalf("assign failed: %v (%s)", err, stderr)
	}
	if !strings.Contains(stdout, "0xb0b is now admin (was viewer)") {
		t.Errorf("unexpected assign output: %s", stdout)
	}

	if _, _, err := execRoles(t, "assign", bobAddr, "operator"); err != nil {
		t.Fatalf("second assign failed: %v", err)
	}

	a := openApp(t)
	if role, _ := a.Roles.RoleOf(bobAddr); role != roles.Operator {
		t.Errorf("expected operator, got %s", role)
	}

	records := a.Audit.Query(auditlog.Filter{})
	if len(records) != 2 {
		t.Fatalf("expected 2 admin change records, got %d", len(records))
	}
	if records[0].Action != auditlog.ActionAdminRemoved || records[1].Action != auditlog.ActionAdminAdded {
		t.Errorf("unexpected actions %s, %s", records[0].Action, records[1].Action)
	}
	if records[1].Details["targetUser"] != bobAddr || records[1].Severity != auditlog.SeverityCritical {
		t.Errorf("unexpected ADMIN_ADDED record %+v", records[1])
	}

	notes := a.Notifications.List()
	if len(notes) != 2 || notes[0].Type != notify.TypeAdmin {
		t.Fatalf("expected 2 admin notifications, got %+v", notes)
	}
	if notes[0].Message != "Administrative action: role admin -> operator - 0xb0b" {
		t.Errorf("unexpected notification message %q", notes[0].Message)
	}
}

func TestAssign_NonAdminChangeOnlyNotifies(t *testing.T) {
	store := cmdtest.SetupTest(t)
	cmdtest.Login(t, store, adminAddr)

	if _, _, err := execRoles(t, "assign", bobAddr, "supervisor"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	a := openApp(t)
	if n := a.Audit.Len(); n != 0 {
		t.Errorf("expected no audit record for a non-admin change, got %d", n)
	}
	if n := a.Notifications.UnreadCount(); n != 1 {
		t.Errorf("expected 1 notification, got %d", n)
	}
}

func TestAssign_Rejections(t *testing.T) {
	store := cmdtest.SetupTest(t)
	cmdtest.Login(t, store, adminAddr)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid role", []string{"assign", bobAddr, "owner"}, "invalid role"},
		{"invalid address", []string{"assign", "bob", "viewer"}, "must start with 0x"},
		{"missing role", []string{"assign", bobAddr}, "a role is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execRoles(t, tt.args...)
			if err == nil || !strings.Contains(stderr, tt.want) {
				t.Errorf("expected %q, got err=%v stderr=%s", tt.want, err, stderr)
			}
		})
	}
}

func TestAssign_DeniedForViewer(t *testing.T) {
	store := cmdtest.SetupTest(t)
	cmdtest.Login(t, store, adminAddr)
	cmdtest.Login(t, store, bobAddr)

	_, _, err := execRoles(t, "assign", bobAddr, "admin")
	if !errors.Is(err, app.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	a := openApp(t)
	if role, _ := a.Roles.RoleOf(bobAddr); role != roles.Viewer {
		t.Errorf("expected role unchanged, got %s", role)
	}
	denied := a.Audit.Query(auditlog.Filter{Action: auditlog.ActionPermissionDenied})
	if len(denied) != 1 {
		t.Errorf("expected 1 PERMISSION_DENIED record, got %d", len(denied))
	}
}

func TestList(t *testing.T) {
	store := cmdtest.SetupTest(t)
	cmdtest.Login(t, store, bobAddr)
	cmdtest.Login(t, store, adminAddr)

	stdout, _, err := execRoles(t, "list")
	if !errors.Is(err, app.ErrPermissionDenied) {
		t.Fatalf("expected viewer to be denied, got err=%v out=%s", err, stdout)
	}

	store.SetAddress(bobAddr)
	stdout, _, err = execRoles(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"ADDRESS", "0xa11ce", "viewer", "0xb0b", "admin", "Global"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in list output:\n%s", want, stdout)
		}
	}
}

func TestZone(t *testing.T) {
	store := cmdtest.SetupTest(t)
	cmdtest.Login(t, store, adminAddr)

	stdout, _, err := execRoles(t, "zone", bobAddr)
	if err != nil {
		t.Fatalf("zone get failed: %v", err)
	}
	if strings.TrimSpace(stdout) != roles.GlobalZone {
		t.Errorf("expected Global for an unknown address, got %q", stdout)
	}

	if _, _, err := execRoles(t, "zone", bobAddr, "North Warehouse"); err != nil {
		t.Fatalf("zone set failed: %v", err)
	}
	stdout, _, _ = execRoles(t, "zone", bobAddr)
	if strings.TrimSpace(stdout) != "North Warehouse" {
		t.Errorf("expected stored zone, got %q", stdout)
	}

	a := openApp(t)
	if ok, _ := a.Roles.CanAccessZone(bobAddr, "South Depot"); ok {
		t.Error("expected zoned address to be restricted")
	}
	if role, _ := a.Roles.RoleOf(bobAddr); role != roles.Viewer {
		t.Errorf("expected zoned unknown address to be viewer, got %s", role)
	}
}

func TestRemove(t *testing.T) {
	store := cmdtest.SetupTest(t)
	cmdtest.Login(t, store, adminAddr)
	execRoles(t, "assign", bobAddr, "admin")

	stdout, _, err := execRoles(t, "remove", bobAddr)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !strings.Contains(stdout, "Removed 0xb0b (was admin)") {
		t.Errorf("unexpected remove output: %s", stdout)
	}

	a := openApp(t)
	latest := a.Audit.Query(auditlog.Filter{Limit: 1})
	if len(latest) != 1 || latest[0].Action != auditlog.ActionAdminRemoved {
		t.Errorf("expected ADMIN_REMOVED, got %+v", latest)
	}

	if _, stderr, err := execRoles(t, "remove", adminAddr); err == nil || !strings.Contains(stderr, "connected address") {
		t.Errorf("expected self-removal to be refused, got err=%v stderr=%s", err, stderr)
	}
}
