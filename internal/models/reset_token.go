package models

import "time"

// ResetToken is one outstanding password-reset request.
type ResetToken struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"used"`
}

// IsExpired reports whether the token can no longer validate at now.
// A check made exactly at ExpiresAt already fails.
func (t *ResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsUsable reports whether the token may still be consumed at now.
func (t *ResetToken) IsUsable(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}
