package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kailas-cloud/tastebud/internal/domain"
	"github.com/kailas-cloud/tastebud/internal/domain/session"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// MinSecretLength is the minimum HMAC secret size in bytes.
const MinSecretLength = 32

type claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// tokenIssuer signs and verifies HS256 session tokens.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenIssuer(secret []byte, ttl time.Duration, now func() time.Time) (*tokenIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &tokenIssuer{secret: secret, ttl: ttl, now: now}, nil
}

func (t *tokenIssuer) issue(u user.User) (session.Session, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)
	c := &claims{
		UserID:   u.ID(),
		Username: u.Username(),
		Role:     string(u.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return session.Session{}, fmt.Errorf("sign token: %w", err)
	}
	return session.Session{
		Token:     signed,
		UserID:    u.ID(),
		Username:  u.Username(),
		Role:      u.Role(),
		ExpiresAt: expiresAt,
	}, nil
}

// parse verifies signature and expiry. Expired tokens yield
// domain.ErrSessionExpired, anything else domain.ErrUnauthorized.
func (t *tokenIssuer) parse(token string) (*claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, domain.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return c, nil
}
