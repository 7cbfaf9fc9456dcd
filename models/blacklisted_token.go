package models

import "time"

// BlacklistedToken records an admin JWT revoked by logout. Rows past
// ExpiresAt can be purged since the token would be rejected anyway.
type BlacklistedToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// Expired reports whether the revoked token has passed its own expiry.
func (t *BlacklistedToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
