// Package session holds the authenticated session passed explicitly through
// request handling.
package session

import (
	"time"

	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// Session is the result of a successful authentication.
type Session struct {
	Token     string
	UserID    string
	Username  string
	Role      user.Role
	ExpiresAt time.Time
}

// IsExpired reports whether the session is past its expiry at now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsAdmin reports whether the session belongs to an admin.
func (s Session) IsAdmin() bool {
	return s.Role == user.RoleAdmin
}
