// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"mycv/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// CredentialStore is the narrow contract the auth service depends on.
type CredentialStore interface {
	// Find returns every record stored under email. Zero records is not an error.
	Find(ctx context.Context, email string) ([]*entity.User, error)

	// Create atomically inserts a record. A uniqueness violation on email
	// is reported as errors.ErrDuplicateCredential from the domain errors package.
	Create(ctx context.Context, email, storedSecret string) (*entity.User, error)
}

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	CredentialStore

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// UpdateEmail changes the login email of a user.
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*entity.User, error)

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error
}
