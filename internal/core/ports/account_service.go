package ports

import (
	"context"
	"time"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// SignupInput carries self-registration data.
type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// CreateUserInput carries admin-created account data.
type CreateUserInput struct {
	SignupInput
	Role string
}

// LoginInput identifies the account by email or username.
type LoginInput struct {
	Email    string
	Username string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

// AccountService covers registration, login and user administration.
type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Profile(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
}
