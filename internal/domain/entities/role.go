package entities

import "fmt"

// Role is the permission level held by an identity.
// Roles are matched exactly: Educator does not satisfy a User requirement.
type Role uint8

const (
	RoleEducator Role = iota + 1 // may add questions and is grantable by the owner
	RoleUser                     // no write access
)

// String returns the storage name of the role.
func (r Role) String() string {
	switch r {
	case RoleEducator:
		return "educator"
	case RoleUser:
		return "user"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleEducator || r == RoleUser
}

// ParseRole maps a storage name back to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "educator":
		return RoleEducator, nil
	case "user":
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}
