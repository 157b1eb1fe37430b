package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/tastebud/internal/db"
	"github.com/kailas-cloud/tastebud/internal/domain"
)

// store is the consumer interface for session records (ISP).
type store interface {
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
}

// Repo keeps server-side session records so that issued tokens can be revoked.
// Tokens are never stored in clear; the key is the SHA-256 of the token.
type Repo struct {
	store store
}

// New creates a session repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save records token as belonging to userID until ttl elapses.
func (r *Repo) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive: %w", domain.ErrInvalidInput)
	}
	if err := r.store.SetWithTTL(ctx, sessionKey(token), []byte(userID), ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Lookup returns the user id bound to token, or ErrUnauthorized when the
// session was revoked or has expired.
func (r *Repo) Lookup(ctx context.Context, token string) (string, error) {
	v, err := r.store.Get(ctx, sessionKey(token))
	if errors.Is(err, db.ErrKeyNotFound) {
		return "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return string(v), nil
}

// Delete revokes token. Deleting an unknown token is not an error.
func (r *Repo) Delete(ctx context.Context, token string) error {
	if err := r.store.Del(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%ssession:%s", domain.KeyPrefix, hex.EncodeToString(sum[:]))
}
