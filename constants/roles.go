package constants

// Platform roles. Routes declare their exact allowed set; there is no
// hierarchy, a superadmin is not implicitly an admin.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleVendor     = "vendor"
)

// Account statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// AllRoles returns every role the platform recognizes.
func AllRoles() []string {
	return []string{RoleSuperAdmin, RoleAdmin, RoleVendor}
}

// IsValidRole reports whether the given role is one of the platform roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleVendor:
		return true
	default:
		return false
	}
}
