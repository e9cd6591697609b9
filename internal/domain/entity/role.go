// Package entity defines the domain entities.
package entity

// Role is a conversation message role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ValidRole reports whether r is a known message role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// UserRole is an account-level role used for access control.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleAbogado UserRole = "abogado"
	UserRoleViewer  UserRole = "viewer"
)
