package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/StaeyKay/blog-api/internal/core/auth"
	"github.com/StaeyKay/blog-api/internal/core/domain"
	"github.com/StaeyKay/blog-api/internal/core/ports"
)

// DefaultResetTTL bounds how long a reset link stays usable.
const DefaultResetTTL = time.Hour

// ResetDeps bundles the collaborators of ResetService. Throttle and Tx are
// optional.
type ResetDeps struct {
	Users       ports.UserRepository
	Tokens      ports.ResetTokenRepository
	Hasher      *auth.Hasher
	Mailer      ports.Mailer
	Throttle    ports.ResetThrottle
	Tx          ports.Transactor
	FrontendURL string
	TTL         time.Duration
	Now         func() time.Time
	Log         zerolog.Logger
}

// ResetService issues, validates and consumes password-reset tokens.
type ResetService struct {
	users       ports.UserRepository
	tokens      ports.ResetTokenRepository
	hasher      *auth.Hasher
	mailer      ports.Mailer
	throttle    ports.ResetThrottle
	tx          ports.Transactor
	frontendURL string
	ttl         time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

func NewResetService(deps ResetDeps) *ResetService {
	s := &ResetService{
		users:       deps.Users,
		tokens:      deps.Tokens,
		hasher:      deps.Hasher,
		mailer:      deps.Mailer,
		throttle:    deps.Throttle,
		tx:          deps.Tx,
		frontendURL: strings.TrimRight(deps.FrontendURL, "/"),
		ttl:         deps.TTL,
		now:         deps.Now,
		log:         deps.Log,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultResetTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.tx == nil {
		s.tx = noTx{}
	}
	return s
}

// RequestReset creates a reset token for the account registered under email
// and mails the reset link. An unknown email fails with
// domain.ErrUserNotFound and creates nothing. If the mail cannot be sent the
// token stays valid and the result is returned together with the mail error.
func (s *ResetService) RequestReset(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
	email = normalizeEmail(email)
	if email == "" || !validEmail(email) {
		return nil, domain.Validation("email must be a valid email")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("request reset: %w", err)
	}

	// 1. Cooldown per email; a broken throttle must not block resets.
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("reset throttle unavailable, allowing request")
		} else if !allowed {
			return nil, domain.ErrResetThrottled
		}
	}

	// 2. Persist the token.
	token, err := s.tokens.Create(ctx, user.ID, s.now().Add(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("request reset: %w", err)
	}

	result := &ports.ResetRequestResult{
		TokenID:   token.ID,
		ExpiresAt: token.ExpiresAt,
		Link:      s.resetLink(token.ID),
	}
	s.log.Info().Str("user_id", user.ID).Time("expires_at", token.ExpiresAt).Msg("password reset requested")

	// 3. Deliver the link. Failure is reported, the token is left untouched.
	err = s.mailer.Send(ctx, ports.Message{
		To:      user.Email,
		Subject: "Reset Your Password",
		HTML: fmt.Sprintf(
			"<h1>Hello %s</h1>\n<h1>Please follow the link below to reset your password.</h1>\n<a href=\"%s\">Click Here</a>\n",
			html.EscapeString(user.Name), html.EscapeString(result.Link),
		),
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("reset mail delivery failed")
		return result, fmt.Errorf("request reset: %w", err)
	}
	return result, nil
}

// CheckResetToken succeeds only for an existing, unexpired, unused token.
func (s *ResetService) CheckResetToken(ctx context.Context, tokenID string) error {
	_, err := s.usableToken(ctx, tokenID)
	return err
}

// ResetPassword consumes tokenID and sets the owner's password. The token is
// claimed with a conditional update before the password is written, so at
// most one call per token can succeed; with a transactional store both
// writes commit together.
func (s *ResetService) ResetPassword(ctx context.Context, tokenID, newPassword string) error {
	if _, err := s.usableToken(ctx, tokenID); err != nil {
		return err
	}
	if len(newPassword) < MinPasswordLength {
		return domain.Validation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	var userID string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		claimed, err := s.tokens.MarkExpired(ctx, tokenID, s.now())
		if err != nil {
			return err
		}
		userID = claimed.UserID
		return s.users.UpdatePassword(ctx, claimed.UserID, hash)
	})
	if err != nil {
		if errors.Is(err, domain.ErrExpired) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("password reset completed")
	return nil
}

func (s *ResetService) usableToken(ctx context.Context, tokenID string) (*domain.ResetToken, error) {
	if strings.TrimSpace(tokenID) == "" {
		return nil, domain.ErrResetTokenNotFound
	}
	token, err := s.tokens.FindByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrResetTokenNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("check reset token: %w", err)
	}
	if !token.Usable(s.now()) {
		return nil, domain.ErrResetTokenExpired
	}
	return token, nil
}

func (s *ResetService) resetLink(tokenID string) string {
	return s.frontendURL + "/reset-password/" + tokenID
}

type noTx struct{}

func (noTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
