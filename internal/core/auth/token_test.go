package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTokenIssuer_IssueThenVerify(t *testing.T) {
	clock := newClock()
	issuer := NewTokenIssuer("secret", 0, WithClock(clock.Now))

	token, exp, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if want := clock.Now().Add(3 * time.Hour); !exp.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, exp)
	}

	id, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id != "user-1" {
		t.Fatalf("expected user-1, got %q", id)
	}
}

func TestTokenIssuer_ExpiresAfterWindow(t *testing.T) {
	clock := newClock()
	issuer := NewTokenIssuer("secret", 3*time.Hour, WithClock(clock.Now))

	token, _, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	clock.Advance(3*time.Hour - time.Minute)
	if _, err := issuer.Verify(token); err != nil {
		t.Fatalf("expected token valid just before expiry, got %v", err)
	}

	clock.Advance(2 * time.Minute)
	if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestTokenIssuer_RejectsTampering(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, _, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	reversed := []rune(token)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}

	cases := map[string]string{
		"reversed":     string(reversed),
		"empty":        "",
		"garbage":      "not-a-token",
		"truncated":    token[:len(token)-4],
		"other secret": mustSign(t, "other", "user-1", time.Now().Add(time.Hour)),
	}
	for name, tok := range cases {
		if _, err := issuer.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	claims := &Claims{ID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := issuer.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}
}

func TestTokenIssuer_RequiresExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: "user-1"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := issuer.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}

func TestTokenIssuer_RejectsEmptyUserID(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	if _, _, err := issuer.Issue(""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func mustSign(t *testing.T, secret, id string, exp time.Time) string {
	t.Helper()
	claims := &Claims{ID: id, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}
