package domain

import "time"

// Session is the server-side record behind the opaque cookie token. Once
// established it resolves to exactly one user for its lifetime.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its horizon at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
