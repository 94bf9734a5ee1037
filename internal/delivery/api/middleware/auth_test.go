package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"mycv/config"
	"mycv/internal/delivery/api/session"
	deliverycontext "mycv/internal/delivery/context"
	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/service"
	"mycv/internal/errors"
	servicemocks "mycv/internal/mocks/service"
	usecasemocks "mycv/internal/mocks/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	mw       *AuthMiddleware
	sessions *session.Manager
	tokens   *servicemocks.MockTokenService
	users    *usecasemocks.MockUserUsecase
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	sessions, err := session.NewManager(&config.Config{Session: &config.SessionConfig{
		Name:   "test-session",
		Secret: "0123456789abcdef0123456789abcdef",
		MaxAge: 3600,
	}})
	require.NoError(t, err)

	f := &authFixture{
		sessions: sessions,
		tokens:   servicemocks.NewMockTokenService(t),
		users:    usecasemocks.NewMockUserUsecase(t),
	}
	f.mw = NewAuthMiddleware(AuthMiddlewareParams{
		Sessions: f.sessions,
		TokenSvc: f.tokens,
		UserUC:   f.users,
		Logger:   slog.New(slog.DiscardHandler),
	})

	return f
}

// run passes the request through CurrentUser and reports what the handler saw.
func (f *authFixture) run(req *http.Request) (*entity.User, error) {
	var seen *entity.User
	handler := f.mw.CurrentUser(func(c echo.Context) error {
		seen, _ = deliverycontext.GetCurrentUser(c)

		return nil
	})

	err := handler(echo.New().NewContext(req, httptest.NewRecorder()))

	return seen, err
}

func TestCurrentUser_Anonymous(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.run(httptest.NewRequest(http.MethodGet, "/auth/whoami", nil))

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCurrentUser_FromSession(t *testing.T) {
	f := newAuthFixture(t)
	user := &entity.User{ID: uuid.New(), Email: "a@b.com"}

	rec := httptest.NewRecorder()
	require.NoError(t, f.sessions.Set(echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), user.ID))

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	for _, cookie := range (&http.Response{Header: rec.Header()}).Cookies() {
		req.AddCookie(cookie)
	}
	f.users.On("FindUser", mock.Anything, user.ID).Return(user, nil).Once()

	seen, err := f.run(req)

	require.NoError(t, err)
	assert.Equal(t, user, seen)
}

func TestCurrentUser_FromBearerToken(t *testing.T) {
	f := newAuthFixture(t)
	user := &entity.User{ID: uuid.New(), Email: "a@b.com", Admin: true}

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	f.tokens.On("ValidateAccessToken", "good-token").Return(&service.Claims{UserID: user.ID, Admin: true}, nil).Once()
	f.users.On("FindUser", mock.Anything, user.ID).Return(user, nil).Once()

	seen, err := f.run(req)

	require.NoError(t, err)
	assert.Equal(t, user, seen)
}

func TestCurrentUser_BadBearerToken(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer expired")
	f.tokens.On("ValidateAccessToken", "expired").Return(nil, errors.New("token is expired")).Once()

	_, err := f.run(req)

	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestCurrentUser_NonBearerHeader(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")

	_, err := f.run(req)

	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestCurrentUser_UnknownUserIsAnonymous(t *testing.T) {
	f := newAuthFixture(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer stale")
	f.tokens.On("ValidateAccessToken", "stale").Return(&service.Claims{UserID: id}, nil).Once()
	f.users.On("FindUser", mock.Anything, id).Return(nil, domainerrors.ErrUserNotFound.WrapMessage("find")).Once()

	seen, err := f.run(req)

	require.NoError(t, err)
	assert.Nil(t, seen)
}

func TestCurrentUser_LookupFailure(t *testing.T) {
	f := newAuthFixture(t)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer ok")
	f.tokens.On("ValidateAccessToken", "ok").Return(&service.Claims{UserID: id}, nil).Once()
	f.users.On("FindUser", mock.Anything, id).Return(nil, errors.New("db down")).Once()

	_, err := f.run(req)

	assert.EqualError(t, errors.Cause(err), "db down")
}

func TestGuards(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	tests := []struct {
		name      string
		user      *entity.User
		wantAuth  error
		wantAdmin error
	}{
		{name: "anonymous", user: nil, wantAuth: domainerrors.ErrForbidden, wantAdmin: domainerrors.ErrForbidden},
		{name: "regular user", user: &entity.User{ID: uuid.New()}, wantAuth: nil, wantAdmin: domainerrors.ErrForbidden},
		{name: "admin", user: &entity.User{ID: uuid.New(), Admin: true}, wantAuth: nil, wantAdmin: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			newCtx := func() echo.Context {
				c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
				if tt.user != nil {
					deliverycontext.SetCurrentUser(c, tt.user)
				}

				return c
			}

			errAuth := f.mw.RequireAuth(ok)(newCtx())
			errAdmin := f.mw.RequireAdmin(ok)(newCtx())

			if tt.wantAuth == nil {
				assert.NoError(t, errAuth)
			} else {
				assert.ErrorIs(t, errAuth, tt.wantAuth)
			}
			if tt.wantAdmin == nil {
				assert.NoError(t, errAdmin)
			} else {
				assert.ErrorIs(t, errAdmin, tt.wantAdmin)
			}
		})
	}
}
