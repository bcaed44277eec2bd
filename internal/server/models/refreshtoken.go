package models

import "time"

// RefreshToken is a persisted refresh-token record. The token string is an
// opaque random capability; UserAgent and IPAddress are request-derived and
// non-authoritative. Revoked only ever flips false→true.
type RefreshToken struct {
	ID        int64
	UserID    string
	Token     string
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}

// IsExpired reports whether the record's expiry has passed at the given time.
func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(rt.ExpiresAt)
}

// IsValid reports whether the record can still satisfy a rotation:
// not revoked and not expired.
func (rt *RefreshToken) IsValid(now time.Time) bool {
	return !rt.Revoked && !rt.IsExpired(now)
}
