// Package session keeps the signed-in user ID in a signed cookie.
package session

import (
	"net/http"

	"mycv/config"
	"mycv/internal/errors"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const keyUserID = "userId"

// Manager reads and writes the session cookie.
type Manager struct {
	store *sessions.CookieStore
	name  string
}

// NewManager builds a cookie store from the session config.
func NewManager(cfg *config.Config) (*Manager, error) {
	if cfg.Session == nil || cfg.Session.Secret == "" {
		return nil, errors.New("session secret is not configured")
	}

	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{store: store, name: cfg.Session.Name}, nil
}

// Set attaches the user ID to the session and writes the cookie.
func (m *Manager) Set(c echo.Context, userID uuid.UUID) error {
	// A cookie that fails to decode still yields a fresh session to overwrite.
	sess, _ := m.store.Get(c.Request(), m.name)
	sess.Values[keyUserID] = userID.String()

	return errors.Wrap(sess.Save(c.Request(), c.Response().Writer), "save session")
}

// Clear removes the user ID from the session.
func (m *Manager) Clear(c echo.Context) error {
	sess, _ := m.store.Get(c.Request(), m.name)
	delete(sess.Values, keyUserID)

	return errors.Wrap(sess.Save(c.Request(), c.Response().Writer), "save session")
}

// UserID returns the user ID stored in the session, if present and valid.
func (m *Manager) UserID(c echo.Context) (uuid.UUID, bool) {
	sess, err := m.store.Get(c.Request(), m.name)
	if err != nil {
		return uuid.Nil, false
	}

	raw, ok := sess.Values[keyUserID].(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
