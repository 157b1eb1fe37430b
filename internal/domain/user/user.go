// Package user holds the account aggregate.
package user

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/tastebud/internal/domain/preference"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Role is an account's authorization level.
type Role string

const (
	// RoleUser is a regular diner account.
	RoleUser Role = "user"
	// RoleAdmin can manage other accounts.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account (immutable value object).
type User struct {
	id           string
	username     string
	email        string
	role         Role
	passwordHash string
	createdAt    int64
	preferences  *preference.Profile
}

// New validates and creates a User with a fresh id.
// Username: 3-32 chars of letters, digits, '_', '.', '-'. Email must parse.
func New(username, email string, role Role, passwordHash string) (User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(username) < 3 || len(username) > 32 {
		return User{}, fmt.Errorf("username must be 3-32 characters")
	}
	if !usernameRegex.MatchString(username) {
		return User{}, fmt.Errorf("username may contain letters, digits, '_', '.' and '-' only")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("invalid email address")
	}
	if !role.IsValid() {
		return User{}, fmt.Errorf("invalid role: %q", role)
	}
	if passwordHash == "" {
		return User{}, fmt.Errorf("password hash is required")
	}

	return User{
		id:           uuid.NewString(),
		username:     username,
		email:        email,
		role:         role,
		passwordHash: passwordHash,
		createdAt:    time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(
	id, username, email string, role Role, passwordHash string,
	createdAt int64, preferences *preference.Profile,
) User {
	return User{
		id:           id,
		username:     username,
		email:        email,
		role:         role,
		passwordHash: passwordHash,
		createdAt:    createdAt,
		preferences:  preferences,
	}
}

// ID returns the account id.
func (u User) ID() string { return u.id }

// Username returns the login name.
func (u User) Username() string { return u.username }

// Email returns the normalized email.
func (u User) Email() string { return u.email }

// Role returns the authorization level.
func (u User) Role() Role { return u.role }

// IsAdmin reports whether the account has the admin role.
func (u User) IsAdmin() bool { return u.role == RoleAdmin }

// PasswordHash returns the stored bcrypt hash.
func (u User) PasswordHash() string { return u.passwordHash }

// CreatedAt returns the creation time in unix milliseconds.
func (u User) CreatedAt() int64 { return u.createdAt }

// Preferences returns the stored profile, or nil when none was saved.
func (u User) Preferences() *preference.Profile { return u.preferences }

// WithPreferences returns a copy of u carrying p.
func (u User) WithPreferences(p preference.Profile) User {
	u.preferences = &p
	return u
}
