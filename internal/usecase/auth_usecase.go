// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"mycv/internal/domain/entity"
)

// SignupInput defines the data required to create a credential.
type SignupInput struct {
	Email    string
	Password string
}

// SigninInput defines the data required to verify a credential.
type SigninInput struct {
	Email    string
	Password string
}

// AuthUsecase registers and verifies email/password credentials.
type AuthUsecase interface {
	// Signup creates exactly one credential record for an unused email.
	Signup(ctx context.Context, input *SignupInput) (*entity.Identity, error)

	// Signin verifies a password against the stored secret. It never writes.
	Signin(ctx context.Context, input *SigninInput) (*entity.Identity, error)
}
