package model

import "time"

// Role is the authorization role assigned to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthContext holds authenticated request context.
// This is injected into the request context by the auth middleware.
type AuthContext struct {
	UserID   string
	Username string
	Role     Role
}

// IsAdmin returns true if the authenticated user has the admin role.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}
