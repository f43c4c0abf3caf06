package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/StaeyKay/blog-api/internal/api/middleware"
	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// currentUser returns the user resolved by the Authenticate middleware. A
// route registered without it fails fast as not authenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator registered on the echo instance.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("invalid payload")
	}
	return c.Validate(req)
}
