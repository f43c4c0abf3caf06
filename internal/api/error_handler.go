package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs infrastructure and unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// kindStatus lists the client-facing error kinds in match order.
var kindStatus = []struct {
	kind error
	code int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrAuthentication, http.StatusUnauthorized},
	{domain.ErrAuthorization, http.StatusForbidden},
	{domain.ErrExpired, http.StatusConflict},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrRateLimited, http.StatusTooManyRequests},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) {
			return ks.code, clientMessage(err, ks.kind)
		}
	}

	// Infrastructure and unexpected errors: log the real cause, return a
	// generic message.
	code, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		code, msg = http.StatusServiceUnavailable, "service unavailable"
	case errors.Is(err, domain.ErrMail):
		code, msg = http.StatusBadGateway, "failed to send email"
	}

	log.Error().
		Err(err).
		Int("status", code).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")

	return code, msg
}

// clientMessage prefers the message of the outermost *domain.Error and falls
// back to the kind's own text, so wrapping context never reaches the client.
func clientMessage(err, kind error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return kind.Error()
}
