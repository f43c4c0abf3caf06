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

// SessionWriter records and clears the logged-in user of the request's session.
type SessionWriter interface {
	SetUser(c echo.Context, userID string) error
	Clear(c echo.Context) error
}

type AccountHandler struct {
	accounts ports.AccountService
	sessions SessionWriter
	log      zerolog.Logger
}

func NewAccountHandler(accounts ports.AccountService, sessions SessionWriter, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions, log: log}
}

// Register creates a self-service account with the default role.
func (h *AccountHandler) Register(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{Message: "Registration successful", User: user})
}

// Login checks the credentials, opens a server-side session and returns a
// bearer token for clients that do not keep cookies.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.accounts.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = "invalid_credentials"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	if h.sessions != nil {
		// The token alone is enough to authenticate, so a session failure
		// does not fail the login.
		if err := h.sessions.SetUser(c, res.User.ID); err != nil {
			h.log.Warn().Err(err).Str("user_id", res.User.ID).Msg("login session not saved")
		}
	}

	return c.JSON(http.StatusOK, loginResponse{
		Message:     "User logged in",
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
		User:        res.User,
	})
}

func (h *AccountHandler) Logout(c echo.Context) error {
	if h.sessions != nil {
		if err := h.sessions.Clear(c); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// LoggedInUser echoes the user resolved by the Authenticate middleware.
func (h *AccountHandler) LoggedInUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loggedInUserResponse{User: user})
}

// Profile reloads the caller's account from the store.
func (h *AccountHandler) Profile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.accounts.Profile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) ListUsers(c echo.Context) error {
	users, err := h.accounts.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser lets an administrator open an account with an explicit role.
// When only the notification mail fails the account exists, so the response
// is still 201 and carries a warning.
func (h *AccountHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.CreateUser(c.Request().Context(), ports.CreateUserInput{
		SignupInput: ports.SignupInput{
			Name:     req.Name,
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		},
		Role: req.Role,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, userResponse{Message: "User created", User: user})
	case user != nil && errors.Is(err, domain.ErrMail):
		metrics.MailFailuresTotal.WithLabelValues("account_created").Inc()
		return c.JSON(http.StatusCreated, userResponse{
			Message: "User created",
			Warning: "notification email could not be sent",
			User:    user,
		})
	default:
		return err
	}
}

func (h *AccountHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateUser(c.Request().Context(), c.Param("id"), domain.UserUpdate{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User updated", User: user})
}
