package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// UserFinder is the slice of the credential store authentication needs.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticator turns an IdentitySource into a user record.
type Authenticator struct {
	tokens *TokenIssuer
	users  UserFinder
}

func NewAuthenticator(tokens *TokenIssuer, users UserFinder) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate resolves src to a user without its password hash.
//
//   - SourceNone                     -> ErrNotAuthenticated
//   - bearer token fails Verify      -> ErrInvalidToken
//   - no user with the resolved id   -> ErrUserDoesNotExist
//   - store failure                  -> wrapped store error
func (a *Authenticator) Authenticate(ctx context.Context, src IdentitySource) (*domain.User, error) {
	var userID string
	switch src.Kind {
	case SourceSession:
		userID = src.UserID
	case SourceBearer:
		id, err := a.tokens.Verify(src.Token)
		if err != nil {
			return nil, err
		}
		userID = id
	default:
		return nil, domain.ErrNotAuthenticated
	}

	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserDoesNotExist
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user.Public(), nil
}
