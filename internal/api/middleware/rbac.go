package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/StaeyKay/blog-api/internal/api/metrics"
	"github.com/StaeyKay/blog-api/internal/core/auth"
	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// RequirePermission lets the request through only if the authenticated
// user's role grants permission. It must run after Authenticate; without a
// user it fails as not authenticated.
func RequirePermission(roles *auth.Registry, permission string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domain.ErrNotAuthenticated
			}
			if !roles.Has(user.Role, permission) {
				metrics.AuthorizationDenialsTotal.WithLabelValues(permission).Inc()
				log.Warn().
					Str("user_id", user.ID).
					Str("role", user.Role).
					Str("permission", permission).
					Msg("authorization denied")
				return domain.ErrNotAuthorized
			}
			return next(c)
		}
	}
}
