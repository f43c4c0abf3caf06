// Package session keeps the logged-in user id in the server-side session.
package session

import (
	"context"
	"fmt"

	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const userIDKey = "userId"

// revoker is implemented by server-side stores that can drop an entry by id.
type revoker interface {
	Revoke(ctx context.Context, id string) error
}

// Manager reads and writes the login state of one named session. It requires
// the echo-contrib session middleware on the route.
type Manager struct {
	name string
}

func NewManager(name string) *Manager {
	return &Manager{name: name}
}

func (m *Manager) Name() string { return m.name }

// UserID returns the user id stored by SetUser, or "" when the request has no
// logged-in session or no session store is configured.
func (m *Manager) UserID(c echo.Context) string {
	sess, err := echosession.Get(m.name, c)
	if err != nil {
		return ""
	}
	id, _ := sess.Values[userIDKey].(string)
	return id
}

// SetUser records userID in the session. The session id is rotated and the
// previous entry revoked, so a pre-login session cannot be reused after login.
func (m *Manager) SetUser(c echo.Context, userID string) error {
	sess, err := echosession.Get(m.name, c)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if r, ok := sess.Store().(revoker); ok && sess.ID != "" {
		if err := r.Revoke(c.Request().Context(), sess.ID); err != nil {
			return fmt.Errorf("session: %w", err)
		}
	}
	sess.ID = ""
	sess.Values[userIDKey] = userID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Clear removes the session and expires its cookie.
func (m *Manager) Clear(c echo.Context) error {
	sess, err := echosession.Get(m.name, c)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}
