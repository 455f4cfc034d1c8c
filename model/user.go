package model

import (
	"database/sql"
	"time"
)

// Role names provisioned by the seed step. Role rows are created once and
// never mutated afterwards.
const (
	RoleTenant    = "TENANT"
	RoleCaretaker = "CARETAKER"
	RoleAdmin     = "ADMIN"
)

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is the persisted account row. RefreshToken holds the single currently
// valid refresh token for the user, or NULL when logged out.
type User struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Password     string         `json:"-"`
	RoleID       int            `json:"-"`
	Role         Role           `json:"role"`
	RefreshToken sql.NullString `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
}

// PublicUser is the user shape returned to clients.
type PublicUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public strips credentials and internal fields from a user row.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.Name,
	}
}
