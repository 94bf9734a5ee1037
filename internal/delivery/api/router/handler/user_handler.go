// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"mycv/internal/delivery/api/response"
	"mycv/internal/delivery/api/session"
	deliverycontext "mycv/internal/delivery/context"
	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/service"
	"mycv/internal/errors"
	"mycv/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	AuthUC   usecase.AuthUsecase
	UserUC   usecase.UserUsecase
	TokenSvc service.TokenService
	Sessions *session.Manager
	Logger   *slog.Logger
}

// UserHandler serves signup, signin and account management.
type UserHandler struct {
	authUC   usecase.AuthUsecase
	userUC   usecase.UserUsecase
	tokenSvc service.TokenService
	sessions *session.Manager
	logger   *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		authUC:   params.AuthUC,
		userUC:   params.UserUC,
		tokenSvc: params.TokenSvc,
		sessions: params.Sessions,
		logger:   params.Logger,
	}
}

// CredentialRequest is the body of signup and signin
type CredentialRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the body of a user update
type UpdateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
}

// UserResponse is the public view of a user. It never carries the stored secret.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Admin bool      `json:"admin"`
}

// AuthResponse is returned by signup and signin
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
}

// Signup registers a new credential and signs the caller in.
func (h *UserHandler) Signup(c echo.Context) error {
	var req CredentialRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signup input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	identity, err := h.authUC.Signup(c.Request().Context(), &usecase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return h.startSession(c, http.StatusCreated, identity)
}

// Signin verifies a credential and signs the caller in.
func (h *UserHandler) Signin(c echo.Context) error {
	var req CredentialRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid signin input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	identity, err := h.authUC.Signin(c.Request().Context(), &usecase.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return h.startSession(c, http.StatusOK, identity)
}

func (h *UserHandler) startSession(c echo.Context, status int, identity *entity.Identity) error {
	if err := h.sessions.Set(c, identity.ID); err != nil {
		return errors.WithStack(err)
	}

	token, err := h.tokenSvc.GenerateAccessToken(identity.ID, identity.Admin)
	if err != nil {
		return errors.Wrap(err, "generate access token")
	}

	return response.Success(c, status, AuthResponse{
		User: UserResponse{
			ID:    identity.ID,
			Email: identity.Email,
			Admin: identity.Admin,
		},
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenSvc.AccessTokenDuration().Seconds()),
	})
}

// Signout drops the user from the session.
func (h *UserHandler) Signout(c echo.Context) error {
	if err := h.sessions.Clear(c); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Signed out"})
}

// WhoAmI returns the current user.
func (h *UserHandler) WhoAmI(c echo.Context) error {
	user, ok := deliverycontext.GetCurrentUser(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrForbidden)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user))
}

// FindUser returns one user by ID.
func (h *UserHandler) FindUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	user, err := h.userUC.FindUser(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user))
}

// FindUsers lists the users registered under an email.
func (h *UserHandler) FindUsers(c echo.Context) error {
	users, err := h.userUC.FindUsers(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}

	return response.Success(c, http.StatusOK, out)
}

// UpdateUser changes the email of a user.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.userUC.UpdateUser(c.Request().Context(), id, &usecase.UpdateUserInput{Email: req.Email})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user))
}

// RemoveUser deletes a user and returns the removed record.
func (h *UserHandler) RemoveUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	user, err := h.userUC.RemoveUser(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Admin: user.Admin,
	}
}
