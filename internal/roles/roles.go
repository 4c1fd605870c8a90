// Package roles assigns wallet addresses a role and an optional
// responsibility zone, and answers permission checks against the fixed
// role-to-permission table.
package roles

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidRole is returned when a role name is not one of the known roles.
var ErrInvalidRole = errors.New("roles: invalid role")

// Role is an access level.
type Role string

const (
	Admin      Role = "admin"
	Supervisor Role = "supervisor"
	Operator   Role = "operator"
	Viewer     Role = "viewer"
)

// All lists every role from most to least privileged.
var All = []Role{Admin, Supervisor, Operator, Viewer}

// Permission names a guarded operation.
type Permission string

const (
	AddProduct    Permission = "add_product"
	EditProduct   Permission = "edit_product"
	DeleteProduct Permission = "delete_product"
	ViewSensitive Permission = "view_sensitive"
	ManageUsers   Permission = "manage_users"
	ExportData    Permission = "export_data"
	ViewStats     Permission = "view_stats"
	AssignRoles   Permission = "assign_roles"
)

// GlobalZone grants access to every zone.
const GlobalZone = "Global"

var permissions = map[Role][]Permission{
	Admin: {
		AddProduct, EditProduct, DeleteProduct, ViewSensitive,
		ManageUsers, ExportData, ViewStats, AssignRoles,
	},
	Supervisor: {AddProduct, EditProduct, ViewSensitive, ExportData, ViewStats},
	Operator:   {AddProduct, ViewStats},
	Viewer:     {ViewStats},
}

// ParseRole converts a role name, ignoring case and surrounding space.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := permissions[r]
	return ok
}

// Permissions returns the permissions granted to r. Unknown roles have none.
func (r Role) Permissions() []Permission {
	return slices.Clone(permissions[r])
}

// Can reports whether r grants p.
func (r Role) Can(p Permission) bool {
	return slices.Contains(permissions[r], p)
}
