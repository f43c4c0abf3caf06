package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

func TestHasher_HashThenVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, pw := range []string{"abcd", "newpass123", "ünïcødé pässwörd", strings.Repeat("x", 72)} {
		digest, err := h.Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q) returned error: %v", pw, err)
		}
		if digest == pw {
			t.Fatalf("digest equals plaintext")
		}
		if !h.Verify(pw, digest) {
			t.Fatalf("Verify(%q, Hash(%q)) = false", pw, pw)
		}
	}
}

func TestHasher_WrongPasswordFails(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if h.Verify("battery staple", digest) {
		t.Fatalf("expected mismatch for different password")
	}
	if h.Verify("", digest) {
		t.Fatalf("expected empty password to fail verification")
	}
	if h.Verify("correct horse", "not-a-bcrypt-digest") {
		t.Fatalf("expected malformed digest to fail verification")
	}
}

func TestHasher_IsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected different digests for the same input")
	}
}

func TestHasher_Validation(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	if _, err := h.Hash(""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("x", 73)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for overlong password, got %v", err)
	}
}

func TestNewHasher_CostFallback(t *testing.T) {
	if got := NewHasher(0).cost; got != DefaultBcryptCost {
		t.Fatalf("expected default cost %d, got %d", DefaultBcryptCost, got)
	}
	if got := NewHasher(bcrypt.MaxCost + 1).cost; got != DefaultBcryptCost {
		t.Fatalf("expected default cost %d, got %d", DefaultBcryptCost, got)
	}
}

func TestHasher_ReportsDurations(t *testing.T) {
	var ops []string
	h := NewHasher(bcrypt.MinCost, WithHashObserver(func(op string, elapsed time.Duration) {
		if elapsed < 0 {
			t.Fatalf("%s: negative duration %v", op, elapsed)
		}
		ops = append(ops, op)
	}))

	digest, err := h.Hash("pass123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	h.Verify("pass123", digest)
	h.Verify("", digest)

	if len(ops) != 2 || ops[0] != "hash" || ops[1] != "verify" {
		t.Fatalf("expected [hash verify], got %v", ops)
	}
}
