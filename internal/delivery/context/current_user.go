package context

import (
	"log/slog"

	"mycv/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// SetCurrentUser stores the authenticated user in echo.Context and tags the
// request logger with the user's ID.
func SetCurrentUser(c echo.Context, user *entity.User) {
	c.Set(string(KeyCurrentUser), user)
	if user != nil {
		EnrichLogger(c, slog.String("user_id", user.ID.String()))
	}
}

// GetCurrentUser returns the authenticated user, if any.
func GetCurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(string(KeyCurrentUser)).(*entity.User)
	if !ok || user == nil {
		return nil, false
	}

	return user, true
}
