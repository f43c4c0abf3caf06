package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetThrottle enforces a cooldown between password-reset requests for the
// same email. Key format: reset:cooldown:<email>
type ResetThrottle struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewResetThrottle creates a ResetThrottle. A non-positive cooldown disables it.
func NewResetThrottle(client *redis.Client, cooldown time.Duration) *ResetThrottle {
	return &ResetThrottle{client: client, cooldown: cooldown}
}

// Allow starts the cooldown for key and reports whether none was running.
func (t *ResetThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t.cooldown <= 0 {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, t.key(key), "1", t.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle: %w", err)
	}
	return ok, nil
}

func (t *ResetThrottle) key(email string) string {
	return "reset:cooldown:" + email
}
