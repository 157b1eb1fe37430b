package auth

import (
	"context"
	"time"

	"github.com/kailas-cloud/tastebud/internal/domain/session"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// UserRepository defines the account storage used for authentication.
type UserRepository interface {
	Create(ctx context.Context, u user.User) error
	Get(ctx context.Context, id string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

// SessionRepository records issued tokens so they can be revoked.
type SessionRepository interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Credentials is a username/password pair presented at login.
type Credentials struct {
	Username string
	Password string
}

// Authenticator turns credentials into a session. Fails with
// domain.ErrInvalidCredentials on a bad username or password.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (session.Session, error)
}
