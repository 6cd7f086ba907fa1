package domain

import "time"

// RefreshToken is a server-side session record. The Token value is an
// opaque random string, not a JWT; the row is the single source of truth
// for whether the session is still alive.
type RefreshToken struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Token      string    `json:"token"`
	ExpiryDate time.Time `json:"expiryDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsExpired reports whether the token's expiry instant has passed
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiryDate)
}
