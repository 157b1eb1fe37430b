package user

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/tastebud/internal/db"
	domuser "github.com/kailas-cloud/tastebud/internal/domain/user"
)

// mockStore is an in-memory store implementing the consumer interface.
// Hooks, when set, replace the default behavior.
type mockStore struct {
	hashes map[string]map[string]string
	values map[string][]byte

	hsetFn   func(ctx context.Context, key string, fields map[string]string) error
	setNXFn  func(ctx context.Context, key string, value []byte) (bool, error)
	existsFn func(ctx context.Context, key string) (bool, error)
}

func newMockStore() *mockStore {
	return &mockStore{
		hashes: make(map[string]map[string]string),
		values: make(map[string][]byte),
	}
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if h, ok := m.hashes[key]; ok {
		return h, nil
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i], _ = m.HGetAll(ctx, k)
	}
	return out, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return m.exists(key), nil
}

func (m *mockStore) exists(key string) bool {
	_, h := m.hashes[key]
	_, v := m.values[key]
	return h || v
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func (m *mockStore) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	if m.setNXFn != nil {
		return m.setNXFn(ctx, key, value)
	}
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value
	return true, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.hashes, k)
		delete(m.values, k)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms), ms
}

func testUser(t *testing.T, username, email string, role domuser.Role) domuser.User {
	t.Helper()
	u, err := domuser.New(username, email, role, "$2a$10$hash")
	if err != nil {
		t.Fatalf("domuser.New: %v", err)
	}
	return u
}
