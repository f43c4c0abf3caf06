package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/StaeyKay/blog-api/internal/api/metrics"
	"github.com/StaeyKay/blog-api/internal/core/auth"
	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// ContextKeyUser is the echo context key holding the authenticated *domain.User.
const ContextKeyUser = "user"

// Authenticator resolves an identity source to a stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, src auth.IdentitySource) (*domain.User, error)
}

// SessionReader returns the user id recorded in the request's session.
type SessionReader interface {
	UserID(c echo.Context) string
}

// Authenticate resolves the caller from the server-side session, falling back
// to the bearer token, and rejects the request when neither yields a stored
// user. On success the user is available through ContextKeyUser and
// auth.UserFromContext.
func Authenticate(a Authenticator, sessions SessionReader, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionUserID string
			if sessions != nil {
				sessionUserID = sessions.UserID(c)
			}
			src := auth.ResolveIdentitySource(sessionUserID, c.Request().Header.Get(echo.HeaderAuthorization))

			ctx := c.Request().Context()
			user, err := a.Authenticate(ctx, src)
			if err != nil {
				metrics.AuthenticationsTotal.WithLabelValues(src.Kind.String(), "rejected").Inc()
				log.Info().
					Err(err).
					Str("source", src.Kind.String()).
					Str("path", c.Path()).
					Msg("authentication rejected")
				return err
			}

			metrics.AuthenticationsTotal.WithLabelValues(src.Kind.String(), "ok").Inc()
			c.Set(ContextKeyUser, user)
			c.SetRequest(c.Request().WithContext(auth.WithUser(ctx, user)))
			return next(c)
		}
	}
}

// CurrentUser returns the user set by Authenticate.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(ContextKeyUser).(*domain.User)
	return user, ok && user != nil
}
