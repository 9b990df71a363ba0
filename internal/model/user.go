package model

import "time"

// Role distinguishes customers from admin actors.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the identity record owned by the auth collaborator. The
// workflow consumes it read-only.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Session is the authenticated identity passed into the workflow. It
// replaces the original's overlapping ad-hoc storage keys with one
// explicit object.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// Admin reports whether the session belongs to an admin actor.
func (s *Session) Admin() bool {
	return s != nil && s.Role == RoleAdmin
}
