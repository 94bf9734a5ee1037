package impl

import (
	"context"
	"log/slog"

	deliverycontext "mycv/internal/delivery/context"
	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/repository"
	"mycv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		logger:    params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *userService) FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserError(err, "failed to find user")
	}

	return user, nil
}

func (srv *userService) FindUsers(ctx context.Context, email string) ([]*entity.User, error) {
	users, err := srv.userRepo.Find(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find users")
	}

	return users, nil
}

// UpdateUser applies the non-nil fields of input.
func (srv *userService) UpdateUser(ctx context.Context, id uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
	if input == nil || input.Email == nil {
		return srv.FindUser(ctx, id)
	}

	user, err := srv.userRepo.UpdateEmail(ctx, id, *input.Email)
	if err != nil {
		return nil, mapUserError(err, "failed to update user")
	}

	srv.log(ctx).Debug("User updated", slog.Any("userID", user.ID))

	return user, nil
}

// RemoveUser deletes a user and returns the row as it was before removal.
func (srv *userService) RemoveUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var removed *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := userRepo.Delete(ctx, id); err != nil {
			return err
		}
		removed = user

		return nil
	})
	if err != nil {
		return nil, mapUserError(err, "failed to remove user")
	}

	srv.log(ctx).Debug("User removed", slog.Any("userID", removed.ID))

	return removed, nil
}

func mapUserError(err error, message string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return domainerrors.ErrUserNotFound.WrapMessage(message)
	}
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return errors.Wrap(err, message)
	}

	return domainerrors.ErrUserUpdateFailed.WrapMessage(message + ": " + err.Error())
}
