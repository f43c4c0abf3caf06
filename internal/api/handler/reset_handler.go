package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/StaeyKay/blog-api/internal/api/metrics"
	"github.com/StaeyKay/blog-api/internal/core/domain"
	"github.com/StaeyKay/blog-api/internal/core/ports"
)

const resetMailSent = "Password reset email sent!"

type ResetHandler struct {
	resets ports.ResetService
	// conceal answers unknown emails exactly like known ones.
	conceal bool
	log     zerolog.Logger
}

func NewResetHandler(resets ports.ResetService, concealUnknownEmail bool, log zerolog.Logger) *ResetHandler {
	return &ResetHandler{resets: resets, conceal: concealUnknownEmail, log: log}
}

// ForgotPassword mails a reset link to the account registered under email.
// The token id is never part of the response.
func (h *ResetHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.resets.RequestReset(c.Request().Context(), req.Email)
	if err != nil {
		result := resetResult(err)
		metrics.PasswordResetsTotal.WithLabelValues("request", result).Inc()
		if errors.Is(err, domain.ErrMail) {
			metrics.MailFailuresTotal.WithLabelValues("reset_password").Inc()
		}
		if h.conceal && concealable(err) {
			h.log.Info().Str("result", result).Msg("reset request outcome concealed")
			return c.JSON(http.StatusOK, messageResponse{Message: resetMailSent})
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("request", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: resetMailSent})
}

func (h *ResetHandler) CheckResetToken(c echo.Context) error {
	if err := h.resets.CheckResetToken(c.Request().Context(), c.Param("id")); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("check", resetResult(err)).Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("check", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Reset token is valid!"})
}

func (h *ResetHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.resets.ResetPassword(c.Request().Context(), req.ResetToken, req.Password); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("consume", resetResult(err)).Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("consume", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successful!"})
}

func resetResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrExpired):
		return "expired"
	case errors.Is(err, domain.ErrRateLimited):
		return "throttled"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrMail):
		return "mail_failed"
	default:
		return "error"
	}
}

// concealable reports whether err reveals if the email is registered.
// Unknown emails never reach the throttle or the mailer.
func concealable(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrRateLimited) ||
		errors.Is(err, domain.ErrMail)
}
