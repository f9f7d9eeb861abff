package models

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// User represents a staff member with access to the admin back office
type User struct {
	ID uuid.UUID `json:"id"` // unique identifier

	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"` // admin or staff

	PasswordHash string `json:"-"` // never serialized

	// timestamps
	CreatedAt sql.NullTime `json:"created_at,omitempty"`
	UpdatedAt sql.NullTime `json:"updated_at,omitempty"`
}

// String is useful for logging and debugging
func (u *User) String() string {
	return fmt.Sprintf("User(ID=%s, Email=%s, Role=%s)", u.ID, u.Email, u.Role)
}

// LoginInput is what the login endpoint expects
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
