package models

import "time"

// Session is the locally cached copy of the remote auth session. The cache
// is a fallback, never authoritative: it is overwritten on every successful
// remote session fetch and consulted only when the remote is unreachable.
type Session struct {
	// AccessToken is the bearer token attached to authenticated remote
	// requests.
	AccessToken string `json:"access_token"`

	// RefreshToken can be exchanged for a fresh access token once the
	// client is back online.
	RefreshToken string `json:"refresh_token"`

	// UserID identifies the session owner.
	UserID string `json:"user_id"`

	// ExpiresAt is when the access token stops being valid. A cached
	// session past this instant is purged and treated as absent.
	ExpiresAt time.Time `json:"expires_at"`
}

// TableName returns the name of the local table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// Valid reports whether the session can still be trusted at the given
// moment. Sessions with no expiry are never trusted.
func (s Session) Valid(now time.Time) bool {
	return s.AccessToken != "" && !s.ExpiresAt.IsZero() && now.Before(s.ExpiresAt)
}
