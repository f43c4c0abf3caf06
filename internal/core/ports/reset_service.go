package ports

import (
	"context"
	"time"
)

// ResetRequestResult describes a created reset token.
type ResetRequestResult struct {
	TokenID   string
	ExpiresAt time.Time
	Link      string
}

// ResetService runs the forgot-password flow.
type ResetService interface {
	RequestReset(ctx context.Context, email string) (*ResetRequestResult, error)
	CheckResetToken(ctx context.Context, tokenID string) error
	ResetPassword(ctx context.Context, tokenID, newPassword string) error
}
