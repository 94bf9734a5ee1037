// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/repository"
	"mycv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements repository.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// NewCredentialStore exposes the user repository through the narrow credential contract.
func NewCredentialStore(users repository.UserRepository) repository.CredentialStore {
	return users
}

// Find returns every user stored under email, oldest first.
func (repo *userRepository) Find(ctx context.Context, email string) ([]*entity.User, error) {
	var models []*model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at").
		Find(&models).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find users by email")
	}

	users := make([]*entity.User, 0, len(models))
	for _, m := range models {
		users = append(users, toUserDomain(m))
	}

	return users, nil
}

// Create inserts a single row. The unique index on email makes this the
// authoritative duplicate check.
func (repo *userRepository) Create(ctx context.Context, email, storedSecret string) (*entity.User, error) {
	userM := &model.UserModel{
		ID:       uuid.New(),
		Email:    email,
		Password: storedSecret,
		Admin:    true,
	}

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, domainerrors.ErrDuplicateCredential.WrapMessage("email already exists")
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	return toUserDomain(userM), nil
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// UpdateEmail changes the email and returns the stored row.
func (repo *userRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*entity.User, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"email": email})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return nil, domainerrors.ErrDuplicateCredential.WrapMessage("email already exists")
		}

		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}

	return repo.FindByID(ctx, id)
}

// Delete removes a user. Their reports go with them through the foreign key.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Email:        data.Email,
		StoredSecret: data.Password,
		Admin:        data.Admin,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
