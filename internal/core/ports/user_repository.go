package ports

import (
	"context"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups that match nothing return
// domain.ErrUserNotFound; driver failures wrap domain.ErrStoreUnavailable.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsernameOrEmail matches either identifier; empty values are ignored.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Create assigns ID and timestamps. Duplicate email or username returns
	// domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateByID(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
