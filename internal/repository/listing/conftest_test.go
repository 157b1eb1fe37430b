package listing

import (
	"context"
	"strings"
	"testing"

	domlisting "github.com/kailas-cloud/tastebud/internal/domain/listing"
)

// mockStore is an in-memory hash store implementing the consumer interface.
type mockStore struct {
	hashes  map[string]map[string]string
	hsetErr error
	scanErr error
	deleted []string
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
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
	h, ok := m.hashes[key]
	if !ok {
		return map[string]string{}, nil
	}
	return h, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i], _ = m.HGetAll(ctx, k)
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.hashes, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms), ms
}

func testListing(t *testing.T, id, name string) domlisting.Listing {
	t.Helper()
	l, err := domlisting.New(domlisting.Attrs{
		ID:       id,
		Name:     name,
		Cuisines: []string{"italian"},
		Tier:     2,
		Rating:   4.5,
		Dietary:  []string{"vegetarian"},
		Dishes:   []string{"Pizza"},
	})
	if err != nil {
		t.Fatalf("domlisting.New: %v", err)
	}
	return l
}
