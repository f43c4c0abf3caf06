package ports

import (
	"context"
	"time"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// ResetTokenRepository persists password-reset tokens.
type ResetTokenRepository interface {
	// Create stores a fresh, unexpired token for userID valid until expiresAt.
	Create(ctx context.Context, userID string, expiresAt time.Time) (*domain.ResetToken, error)
	// FindByID returns domain.ErrResetTokenNotFound when no token matches.
	FindByID(ctx context.Context, id string) (*domain.ResetToken, error)
	// MarkExpired flips expired to true only if the token is still usable at
	// now, and returns the token as it was before the update. It is the
	// serialization point for concurrent resets: of two racing calls exactly
	// one succeeds; the other gets domain.ErrResetTokenExpired.
	MarkExpired(ctx context.Context, id string, now time.Time) (*domain.ResetToken, error)
}

// Transactor runs fn so that all store writes inside it commit or roll back
// together, when the backend supports it. Implementations without
// transactions simply call fn.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ResetThrottle limits how often a reset can be requested for one email.
type ResetThrottle interface {
	// Allow reports whether a new request for key may proceed and, if so,
	// starts its cooldown.
	Allow(ctx context.Context, key string) (bool, error)
}
