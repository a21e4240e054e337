package domain

import "slices"

// Role is one of the closed set of staff roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleHR      Role = "hr"
	RoleManager Role = "manager"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permission is a named capability gating one or more operations.
type Permission string

const (
	PermViewApplications   Permission = "view_applications"
	PermManageApplications Permission = "manage_applications"
	PermManageJobs         Permission = "manage_jobs"
	PermManageUsers        Permission = "manage_users"
	PermSendEmails         Permission = "send_emails"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermViewApplications,
		PermManageApplications,
		PermManageJobs,
		PermManageUsers,
		PermSendEmails,
	},
	RoleHR:      {PermViewApplications, PermManageApplications, PermSendEmails},
	RoleManager: {PermViewApplications},
}

// PermissionsForRole returns a copy of the canonical permission set for role.
// Unknown roles get no permissions.
func PermissionsForRole(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}

// HasPermission reports whether u's role grants p. A nil user has none.
func HasPermission(u *User, p Permission) bool {
	if u == nil {
		return false
	}
	return slices.Contains(rolePermissions[u.Role], p)
}

// RoleDisplayName returns the human-readable label for role.
func RoleDisplayName(role Role) string {
	switch role {
	case RoleAdmin:
		return "Administrator"
	case RoleHR:
		return "HR Manager"
	case RoleManager:
		return "Hiring Manager"
	default:
		return "User"
	}
}
