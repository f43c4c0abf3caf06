package domain

import "time"

// ResetToken authorizes exactly one password change for UserID before
// ExpiresAt. Expired only ever moves from false to true.
type ResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Expired   bool      `json:"expired"`
}

// Usable reports whether the token may still be consumed at now.
func (t *ResetToken) Usable(now time.Time) bool {
	return !t.Expired && now.Before(t.ExpiresAt)
}
