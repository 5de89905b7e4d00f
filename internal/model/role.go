package model

// Role is an operator's position in the role hierarchy.
type Role string

const (
	RoleMaster Role = "master"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMaster, RoleAdmin, RoleEditor:
		return true
	}
	return false
}

// rank orders roles for hierarchy checks; unknown roles rank below editor.
func (r Role) rank() int {
	switch r {
	case RoleMaster:
		return 3
	case RoleAdmin:
		return 2
	case RoleEditor:
		return 1
	}
	return 0
}

// AtLeast reports whether r is the same as or above min in the hierarchy.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank() && r.rank() > 0
}
