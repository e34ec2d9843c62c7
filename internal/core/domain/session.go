package domain

import "time"

// Session binds an issued bearer token to the username it authenticates.
// A zero ExpiresAt means the session lives until it is revoked.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ExpiredAt reports whether the session is no longer valid at t.
func (s Session) ExpiredAt(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && !t.Before(s.ExpiresAt)
}
