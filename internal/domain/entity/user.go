// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holding exactly one email/password credential.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email        string    // Login identifier, unique across all users.
	StoredSecret string    // "<salt>.<hex derived key>". Never leaves the persistence and auth layers.
	Admin        bool      // Admins may approve reports.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the public view of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:    u.ID,
		Email: u.Email,
		Admin: u.Admin,
	}
}
