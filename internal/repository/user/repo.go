package user

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/tastebud/internal/db"
	"github.com/kailas-cloud/tastebud/internal/domain"
	"github.com/kailas-cloud/tastebud/internal/domain/preference"
	domuser "github.com/kailas-cloud/tastebud/internal/domain/user"
)

// store is the consumer interface for accounts (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Repo implements the account repositories of the auth, account and
// preference use cases.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a new account. Username (case-insensitive) and email are
// claimed first through index keys; a taken claim yields ErrAlreadyExists.
// Claims are released if a later step fails.
func (r *Repo) Create(ctx context.Context, u domuser.User) error {
	uKey := usernameKey(u.Username())
	ok, err := r.store.SetNX(ctx, uKey, []byte(u.ID()))
	if err != nil {
		return fmt.Errorf("claim username: %w", err)
	}
	if !ok {
		return fmt.Errorf("username %q: %w", u.Username(), domain.ErrAlreadyExists)
	}

	eKey := emailKey(u.Email())
	ok, err = r.store.SetNX(ctx, eKey, []byte(u.ID()))
	if err != nil || !ok {
		cleanupErr := r.store.Del(ctx, uKey)
		if err != nil {
			return errors.Join(fmt.Errorf("claim email: %w", err), cleanupErr)
		}
		return errors.Join(fmt.Errorf("email %q: %w", u.Email(), domain.ErrAlreadyExists), cleanupErr)
	}

	if err := r.store.HSet(ctx, userKey(u.ID()), userToHash(u)); err != nil {
		cleanupErr := r.store.Del(ctx, uKey, eKey)
		return errors.Join(fmt.Errorf("hset user %s: %w", u.ID(), err), cleanupErr)
	}
	return nil
}

// Get retrieves an account by id.
func (r *Repo) Get(ctx context.Context, id string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, userKey(id))
	if err != nil {
		return domuser.User{}, fmt.Errorf("hgetall user %s: %w", id, err)
	}
	if !isComplete(m) {
		return domuser.User{}, domain.ErrNotFound
	}
	prefs, err := r.loadPreferences(ctx, id)
	if err != nil {
		return domuser.User{}, err
	}
	u, err := userFromHash(m, prefs)
	if err != nil {
		return domuser.User{}, fmt.Errorf("parse user %s: %w", id, err)
	}
	return u, nil
}

// GetByUsername resolves an account through the username index.
func (r *Repo) GetByUsername(ctx context.Context, username string) (domuser.User, error) {
	id, err := r.store.Get(ctx, usernameKey(username))
	if errors.Is(err, db.ErrKeyNotFound) {
		return domuser.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domuser.User{}, fmt.Errorf("get username index: %w", err)
	}
	return r.Get(ctx, string(id))
}

// List returns all accounts sorted by creation time. Hashes without the
// account fields are skipped.
func (r *Repo) List(ctx context.Context) ([]domuser.User, error) {
	keys, err := r.store.Scan(ctx, userKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	if len(keys) == 0 {
		return []domuser.User{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi users: %w", err)
	}

	users := make([]domuser.User, 0, len(results))
	for i, m := range results {
		if !isComplete(m) {
			continue
		}
		prefs, err := r.loadPreferences(ctx, m["id"])
		if err != nil {
			return nil, err
		}
		u, err := userFromHash(m, prefs)
		if err != nil {
			return nil, fmt.Errorf("parse user %s: %w", keys[i], err)
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt() != users[j].CreatedAt() {
			return users[i].CreatedAt() < users[j].CreatedAt()
		}
		return users[i].Username() < users[j].Username()
	})
	return users, nil
}

// Delete removes an account and its index keys.
func (r *Repo) Delete(ctx context.Context, id string) error {
	u, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	keys := []string{userKey(id), usernameKey(u.Username()), emailKey(u.Email()), prefsKey(id)}
	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("del user %s: %w", id, err)
	}
	return nil
}

// SavePreferences overwrites the stored preference profile of an account.
// The profile lives under its own key, so a concurrent Delete can never
// leave a partial account hash behind. If the account disappears while the
// profile is written, the profile is removed and ErrNotFound returned.
func (r *Repo) SavePreferences(ctx context.Context, id string, p preference.Profile) error {
	if err := r.requireUser(ctx, id); err != nil {
		return err
	}

	raw, err := preferencesToJSON(p)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, prefsKey(id), raw); err != nil {
		return fmt.Errorf("set preferences %s: %w", id, err)
	}

	if err := r.requireUser(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if delErr := r.store.Del(ctx, prefsKey(id)); delErr != nil {
				return errors.Join(err, fmt.Errorf("del orphaned preferences %s: %w", id, delErr))
			}
		}
		return err
	}
	return nil
}

func (r *Repo) requireUser(ctx context.Context, id string) error {
	exists, err := r.store.Exists(ctx, userKey(id))
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) loadPreferences(ctx context.Context, id string) (*preference.Profile, error) {
	raw, err := r.store.Get(ctx, prefsKey(id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences %s: %w", id, err)
	}
	return preferencesFromJSON(raw)
}

// Key patterns: tastebud:user:{id}, tastebud:prefs:{id},
// tastebud:username:{lower(name)}, tastebud:email:{email}

func userKey(id string) string {
	return fmt.Sprintf("%suser:%s", domain.KeyPrefix, id)
}

func usernameKey(name string) string {
	return fmt.Sprintf("%susername:%s", domain.KeyPrefix, strings.ToLower(name))
}

func emailKey(email string) string {
	return fmt.Sprintf("%semail:%s", domain.KeyPrefix, strings.ToLower(email))
}

func prefsKey(id string) string {
	return fmt.Sprintf("%sprefs:%s", domain.KeyPrefix, id)
}
