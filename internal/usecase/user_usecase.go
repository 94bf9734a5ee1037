package usecase

import (
	"context"

	"mycv/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateUserInput lists the user fields that may change. Nil fields are left alone.
type UpdateUserInput struct {
	Email *string
}

// UserUsecase defines account management operations.
type UserUsecase interface {
	FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindUsers(ctx context.Context, email string) ([]*entity.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*entity.User, error)
	RemoveUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
