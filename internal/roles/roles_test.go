package roles

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRole(t *testing.T) {
	for _, in := range []string{"admin", "Supervisor", " OPERATOR ", "viewer"} {
		if _, err := ParseRole(in); err != nil {
			t.Errorf("ParseRole(%q) failed: %v", in, err)
		}
	}
	if _, err := ParseRole("superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("ParseRole(superuser) error = %v, want ErrInvalidRole", err)
	}
}

func TestPermissionTable(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{Admin, AssignRoles, true},
		{Admin, DeleteProduct, true},
		{Supervisor, ExportData, true},
		{Supervisor, DeleteProduct, false},
		{Supervisor, AssignRoles, false},
		{Operator, AddProduct, true},
		{Operator, ExportData, false},
		{Viewer, ViewStats, true},
		{Viewer, AddProduct, false},
		{Role("ghost"), ViewStats, false},
	}
	for _, tt := range tests {
		if got := tt.role.Can(tt.perm); got != tt.want {
			t.Errorf("%s.Can(%s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestPermissions_ReturnsCopy(t *testing.T) {
	perms := Viewer.Permissions()
	perms[0] = AssignRoles
	if Viewer.Can(AssignRoles) {
		t.Error("mutating Permissions() changed the role table")
	}
}

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	r, err := OpenAt(filepath.Join(t.TempDir(), "pharmacert.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func repos(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"sqlite": tempRepo(t),
		"memory": NewMemoryRepository(),
	}
}

func TestRepository_SaveGetListDelete(t *testing.T) {
	for name, r := range repos(t) {
		t.Run(name, func(t *testing.T) {
			got, err := r.Get("0xA")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != nil {
				t.Fatalf("expected nil for unknown address, got %+v", got)
			}

			if err := r.Save(&Assignment{Address: "0xB", Role: Operator, Zone: "EU"}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if err := r.Save(&Assignment{Address: "0xA", Role: Viewer}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if err := r.Save(&Assignment{Address: "0xB", Role: Supervisor, Zone: "EU"}); err != nil {
				t.Fatalf("upsert failed: %v", err)
			}

			n, err := r.Count()
			if err != nil || n != 2 {
				t.Fatalf("Count = %d, %v; want 2", n, err)
			}

			list, err := r.List()
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			var addrs []string
			for _, a := range list {
				addrs = append(addrs, a.Address+":"+string(a.Role))
			}
			if diff := cmp.Diff([]string{"0xA:viewer", "0xB:supervisor"}, addrs); diff != "" {
				t.Errorf("List mismatch (-want +got):\n%s", diff)
			}

			if err := r.Delete("0xA"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := r.Delete("0xMissing"); err != nil {
				t.Fatalf("Delete of unknown address failed: %v", err)
			}
			if n, _ := r.Count(); n != 1 {
				t.Errorf("Count after delete = %d, want 1", n)
			}
		})
	}
}

func TestSQLiteRepository_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pharmacert.db")

	r1, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	r1.Save(&Assignment{Address: "0xA", Role: Admin, Zone: GlobalZone})
	r1.Close()

	r2, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	defer r2.Close()

	got, err := r2.Get("0xA")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Role != Admin || got.Zone != GlobalZone {
		t.Errorf("reloaded = %+v", got)
	}
	if got != nil && got.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestManager_FirstUserIsAdmin(t *testing.T) {
	m := NewManager(NewMemoryRepository())

	first, err := m.Initialize("0xFIRST")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	second, err := m.Initialize("0xSECOND")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	again, err := m.Initialize("0xFIRST")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if first.Role != Admin || again.Role != Admin {
		t.Errorf("first user role = %q/%q, want admin", first.Role, again.Role)
	}
	if second.Role != Viewer {
		t.Errorf("second user role = %q, want viewer", second.Role)
	}
	if first.Zone != GlobalZone {
		t.Errorf("Zone = %q, want %q", first.Zone, GlobalZone)
	}
	if diff := cmp.Diff(Admin.Permissions(), first.Permissions); diff != "" {
		t.Errorf("permissions mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_UnknownAddressIsViewer(t *testing.T) {
	m := NewManager(NewMemoryRepository())

	role, err := m.RoleOf("0xNOBODY")
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if role != Viewer {
		t.Errorf("RoleOf = %q, want viewer", role)
	}
	ok, err := m.HasPermission("0xNOBODY", AddProduct)
	if err != nil || ok {
		t.Errorf("HasPermission(add_product) = %v, %v; want false", ok, err)
	}
}

func TestManager_SetRole(t *testing.T) {
	m := NewManager(NewMemoryRepository())

	if err := m.SetZone("0xA", "EU-West"); err != nil {
		t.Fatalf("SetZone failed: %v", err)
	}
	if err := m.SetRole("0xA", Operator); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	if err := m.SetRole("0xA", "root"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("SetRole(root) error = %v, want ErrInvalidRole", err)
	}

	ok, _ := m.HasPermission("0xA", AddProduct)
	if !ok {
		t.Error("operator should be able to add products")
	}
	zone, _ := m.Zone("0xA")
	if zone != "EU-West" {
		t.Errorf("Zone = %q, want EU-West after SetRole", zone)
	}
}

func TestManager_CanAccessZone(t *testing.T) {
	m := NewManager(NewMemoryRepository())
	m.SetRole("0xGLOBAL", Supervisor)
	m.SetZone("0xWORLD", GlobalZone)
	m.SetZone("0xEU", "EU")

	tests := []struct {
		address, zone string
		want          bool
	}{
		{"0xGLOBAL", "EU", true},
		{"0xWORLD", "US", true},
		{"0xEU", "EU", true},
		{"0xEU", "US", false},
		{"0xUNKNOWN", "US", true},
	}
	for _, tt := range tests {
		got, err := m.CanAccessZone(tt.address, tt.zone)
		if err != nil {
			t.Fatalf("CanAccessZone failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("CanAccessZone(%s, %s) = %v, want %v", tt.address, tt.zone, got, tt.want)
		}
	}
}

func TestManager_Users(t *testing.T) {
	m := NewManager(NewMemoryRepository())
	m.Initialize("0xA")
	m.SetRole("0xB", Operator)
	m.Remove("0xMISSING")

	users, err := m.Users()
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	want := []User{
		{Address: "0xA", Role: Admin, Zone: GlobalZone, Permissions: Admin.Permissions()},
		{Address: "0xB", Role: Operator, Zone: GlobalZone, Permissions: Operator.Permissions()},
	}
	if diff := cmp.Diff(want, users); diff != "" {
		t.Errorf("Users mismatch (-want +got):\n%s", diff)
	}
}
