package models

import "time"

// RefreshToken represents a refresh token stored in the database.
// Token is the opaque value handed to the client and doubles as the primary key.
type RefreshToken struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token can no longer mint access tokens at the given instant.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
