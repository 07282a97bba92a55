package authz

import (
	"strings"

	"console-backend/internal/models"
)

// RoleSuperadmin bypasses permission lists entirely. "admin" is an ordinary
// role and is checked against its permission list like any other.
const RoleSuperadmin = "superadmin"

// HasRole reports whether the identity carries the given role.
// Comparison is case-insensitive. A nil identity has no role.
func HasRole(id *models.Identity, role string) bool {
	if id == nil {
		return false
	}
	return strings.EqualFold(id.Role, role)
}

// HasPermission reports whether the identity may perform the capability.
// The superadmin role passes every check; everyone else needs the capability
// in their permission list (compared case-insensitively).
func HasPermission(id *models.Identity, cap Capability) bool {
	if id == nil {
		return false
	}
	if strings.EqualFold(id.Role, RoleSuperadmin) {
		return true
	}
	for _, p := range id.Permissions {
		if strings.EqualFold(p, string(cap)) {
			return true
		}
	}
	return false
}
