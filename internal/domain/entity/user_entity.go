package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash and must never be serialized to clients.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
