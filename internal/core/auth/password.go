package auth

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// DefaultBcryptCost matches the work factor the accounts were created with.
const DefaultBcryptCost = 10

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost    int
	observe func(op string, elapsed time.Duration)
}

type HasherOption func(*Hasher)

// WithHashObserver reports the duration of every bcrypt call. op is "hash"
// or "verify".
func WithHashObserver(observe func(op string, elapsed time.Duration)) HasherOption {
	return func(h *Hasher) { h.observe = observe }
}

// NewHasher returns a Hasher. Costs outside bcrypt's range fall back to
// DefaultBcryptCost.
func NewHasher(cost int, opts ...HasherOption) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	h := &Hasher{cost: cost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns a salted digest of plain. Two calls with the same input
// produce different digests; compare only through Verify.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", domain.ErrEmptyPassword
	}
	start := time.Now()
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	h.record("hash", start)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.Validation("password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest.
func (h *Hasher) Verify(plain, digest string) bool {
	if plain == "" || digest == "" {
		return false
	}
	start := time.Now()
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	h.record("verify", start)
	return err == nil
}

func (h *Hasher) record(op string, start time.Time) {
	if h.observe != nil {
		h.observe(op, time.Since(start))
	}
}
