package domain

import "errors"

// Error kinds. Every concrete domain error unwraps to exactly one of these,
// so callers can branch on the kind with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrAuthentication   = errors.New("authentication failed")
	ErrAuthorization    = errors.New("authorization failed")
	ErrExpired          = errors.New("expired")
	ErrConflict         = errors.New("conflict")
	ErrRateLimited      = errors.New("rate limited")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrMail             = errors.New("mail delivery failed")
)

// Error is a caller-facing domain error. Message is safe to render to the
// client; Kind decides the status code.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrNotAuthenticated   = newError(ErrAuthentication, "not authenticated")
	ErrUserDoesNotExist   = newError(ErrAuthentication, "user does not exist")
	ErrInvalidToken       = newError(ErrAuthentication, "invalid token")
	ErrInvalidCredentials = newError(ErrAuthentication, "invalid credentials")
	ErrNotAuthorized      = newError(ErrAuthorization, "not authorized")

	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrResetTokenNotFound = newError(ErrNotFound, "reset token not found")
	ErrArticleNotFound    = newError(ErrNotFound, "article not found")

	ErrResetTokenExpired = newError(ErrExpired, "invalid reset token")
	ErrUserExists        = newError(ErrConflict, "user already exists")
	ErrResetThrottled    = newError(ErrRateLimited, "password reset already requested, try again later")

	ErrEmptyPassword = newError(ErrValidation, "password must not be empty")
	ErrUnknownRole   = newError(ErrValidation, "unknown role")
)

// Validation builds an ErrValidation-kind error with a custom message.
func Validation(msg string) error {
	return newError(ErrValidation, msg)
}
