package entity

// Role is the closed set of authorization roles. Keeping it a named type
// (instead of an open string) makes role checks exhaustive at call sites.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
