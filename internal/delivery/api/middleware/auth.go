package middleware

import (
	"log/slog"
	"strings"

	"mycv/internal/delivery/api/session"
	deliverycontext "mycv/internal/delivery/context"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/service"
	"mycv/internal/errors"
	"mycv/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	Sessions *session.Manager
	TokenSvc service.TokenService
	UserUC   usecase.UserUsecase
	Logger   *slog.Logger
}

// AuthMiddleware resolves the calling user and guards routes by it.
type AuthMiddleware struct {
	sessions *session.Manager
	tokenSvc service.TokenService
	userUC   usecase.UserUsecase
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: params.Sessions,
		tokenSvc: params.TokenSvc,
		userUC:   params.UserUC,
		logger:   params.Logger,
	}
}

// CurrentUser loads the caller from a bearer token or the session cookie.
// Anonymous requests pass through untouched.
func (m *AuthMiddleware) CurrentUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, found, err := m.resolveUserID(c)
		if err != nil {
			return err
		}
		if !found {
			return next(c)
		}

		ctx := c.Request().Context()
		user, err := m.userUC.FindUser(ctx, userID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrUserNotFound) {
				deliverycontext.GetLoggerOrDefault(ctx, m.logger).Debug("Session references unknown user",
					slog.String("user_id", userID.String()),
				)

				return next(c)
			}

			return errors.WithStack(err)
		}

		deliverycontext.SetCurrentUser(c, user)

		return next(c)
	}
}

// resolveUserID prefers an Authorization header over the session cookie.
// A bearer token that fails validation is rejected rather than ignored.
func (m *AuthMiddleware) resolveUserID(c echo.Context) (uuid.UUID, bool, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok || tokenString == "" {
			return uuid.Nil, false, domainerrors.ErrUnauthorized.WithDetails("authorization header must be a Bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return uuid.Nil, false, domainerrors.ErrUnauthorized.WrapMessage("validate access token")
		}

		return claims.UserID, true, nil
	}

	userID, ok := m.sessions.UserID(c)

	return userID, ok, nil
}

// RequireAuth rejects requests without a current user.
// It must be used AFTER the CurrentUser middleware.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := deliverycontext.GetCurrentUser(c); !ok {
			return domainerrors.ErrForbidden
		}

		return next(c)
	}
}

// RequireAdmin rejects requests whose current user is not an admin.
// It must be used AFTER the CurrentUser middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := deliverycontext.GetCurrentUser(c)
		if !ok || !user.Admin {
			return domainerrors.ErrForbidden
		}

		return next(c)
	}
}
