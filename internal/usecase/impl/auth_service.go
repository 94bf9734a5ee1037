// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"mycv/config"
	deliverycontext "mycv/internal/delivery/context"
	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/repository"
	"mycv/internal/domain/service"
	"mycv/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	store                  repository.CredentialStore
	hasher                 service.PasswordHasher
	recorder               service.AuthRecorder
	collapseSigninFailures bool
	logger                 *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Store    repository.CredentialStore
	Hasher   service.PasswordHasher
	Recorder service.AuthRecorder `optional:"true"`
	Config   *config.Config
	Logger   *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	collapse := false
	if params.Config != nil && params.Config.Auth != nil {
		collapse = params.Config.Auth.CollapseSigninFailures
	}

	return &authService{
		store:                  params.Store,
		hasher:                 params.Hasher,
		recorder:               params.Recorder,
		collapseSigninFailures: collapse,
		logger:                 params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *authService) record(operation, outcome string) {
	if srv.recorder != nil {
		srv.recorder.RecordOutcome(operation, outcome)
	}
}

// Signup rejects a used email before paying for key derivation; the store's
// unique index still decides concurrent signups for the same email.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*entity.Identity, error) {
	records, err := srv.store.Find(ctx, input.Email)
	if err != nil {
		srv.record(service.AuthOperationSignup, service.AuthOutcomeError)

		return nil, errors.Wrap(err, "failed to look up credentials")
	}
	if len(records) > 0 {
		srv.record(service.AuthOperationSignup, service.AuthOutcomeDuplicate)

		return nil, domainerrors.ErrDuplicateCredential.WrapMessage("email in use")
	}

	storedSecret, err := srv.newStoredSecret(ctx, input.Password)
	if err != nil {
		srv.record(service.AuthOperationSignup, service.AuthOutcomeError)

		return nil, err
	}

	user, err := srv.store.Create(ctx, input.Email, storedSecret)
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateCredential) {
			srv.record(service.AuthOperationSignup, service.AuthOutcomeDuplicate)
			srv.log(ctx).Info("Signup lost race on email uniqueness")

			return nil, err
		}
		srv.record(service.AuthOperationSignup, service.AuthOutcomeError)

		return nil, errors.Wrap(err, "failed to create credential")
	}

	srv.log(ctx).Debug("User inserted", slog.Any("userID", user.ID))
	srv.record(service.AuthOperationSignup, service.AuthOutcomeSuccess)

	return user.Identity(), nil
}

func (srv *authService) newStoredSecret(ctx context.Context, password string) (string, error) {
	salt, err := srv.hasher.GenerateSalt()
	if err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}

	key, err := srv.hasher.DeriveKey(ctx, password, salt)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive key")
	}

	return srv.hasher.Encode(salt, key), nil
}

// Signin verifies a password. The first record returned by the store is authoritative.
func (srv *authService) Signin(ctx context.Context, input *usecase.SigninInput) (*entity.Identity, error) {
	records, err := srv.store.Find(ctx, input.Email)
	if err != nil {
		srv.record(service.AuthOperationSignin, service.AuthOutcomeError)

		return nil, errors.Wrap(err, "failed to look up credentials")
	}

	if len(records) == 0 {
		if srv.collapseSigninFailures {
			srv.record(service.AuthOperationSignin, service.AuthOutcomeInvalid)

			return nil, domainerrors.ErrInvalidCredential.WrapMessage("bad password")
		}
		srv.record(service.AuthOperationSignin, service.AuthOutcomeNotFound)

		return nil, domainerrors.ErrCredentialNotFound.WrapMessage("user not found")
	}

	if len(records) > 1 {
		// Email uniqueness is enforced by the store; more than one row means the index is missing or broken.
		srv.log(ctx).Warn("Multiple credential records for one email",
			slog.Int("count", len(records)),
			slog.Any("userID", records[0].ID),
		)
	}
	user := records[0]

	salt, storedKey, err := srv.hasher.Decode(user.StoredSecret)
	if err != nil {
		srv.record(service.AuthOperationSignin, service.AuthOutcomeMalformed)
		srv.log(ctx).Error("Stored credential is malformed", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	derivedKey, err := srv.hasher.DeriveKey(ctx, input.Password, salt)
	if err != nil {
		srv.record(service.AuthOperationSignin, service.AuthOutcomeError)

		return nil, errors.Wrap(err, "failed to derive key")
	}

	if subtle.ConstantTimeCompare(storedKey, derivedKey) != 1 {
		srv.record(service.AuthOperationSignin, service.AuthOutcomeInvalid)

		return nil, domainerrors.ErrInvalidCredential.WrapMessage("bad password")
	}

	srv.record(service.AuthOperationSignin, service.AuthOutcomeSuccess)

	return user.Identity(), nil
}
