package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/tastebud/internal/domain"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// --- Mocks ---

type mockUsers struct {
	byID      map[string]user.User
	getErr    error
	lookupErr error
}

func newMockUsers() *mockUsers {
	return &mockUsers{byID: map[string]user.User{}}
}

func (m *mockUsers) Create(_ context.Context, u user.User) error {
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Username(), u.Username()) || existing.Email() == u.Email() {
			return domain.ErrAlreadyExists
		}
	}
	m.byID[u.ID()] = u
	return nil
}

func (m *mockUsers) Get(_ context.Context, id string) (user.User, error) {
	if m.getErr != nil {
		return user.User{}, m.getErr
	}
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUsers) GetByUsername(_ context.Context, username string) (user.User, error) {
	if m.lookupErr != nil {
		return user.User{}, m.lookupErr
	}
	for _, u := range m.byID {
		if strings.EqualFold(u.Username(), username) {
			return u, nil
		}
	}
	return user.User{}, domain.ErrNotFound
}

type mockSessions struct {
	tokens  map[string]string
	ttls    map[string]time.Duration
	saveErr error
}

func newMockSessions() *mockSessions {
	return &mockSessions{tokens: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockSessions) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tokens[token] = userID
	m.ttls[token] = ttl
	return nil
}

func (m *mockSessions) Lookup(_ context.Context, token string) (string, error) {
	id, ok := m.tokens[token]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}

func (m *mockSessions) Delete(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

// fakeClock is a settable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	svc      *Service
	users    *mockUsers
	sessions *mockSessions
	clock    *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    newMockUsers(),
		sessions: newMockSessions(),
		clock:    &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	svc, err := New(f.users, f.sessions, Config{
		Secret:     testSecret,
		TokenTTL:   24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, zap.NewNop(), WithClock(f.clock.Now))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) register(t *testing.T, username, password string) user.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), username, username+"@example.com", password)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}
