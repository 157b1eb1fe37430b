package chi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/tastebud/internal/db/badgerdb"
	"github.com/kailas-cloud/tastebud/internal/domain/match"
	listingrepo "github.com/kailas-cloud/tastebud/internal/repository/listing"
	sessionrepo "github.com/kailas-cloud/tastebud/internal/repository/session"
	userrepo "github.com/kailas-cloud/tastebud/internal/repository/user"
	"github.com/kailas-cloud/tastebud/internal/seed"
	accountuc "github.com/kailas-cloud/tastebud/internal/usecase/account"
	authuc "github.com/kailas-cloud/tastebud/internal/usecase/auth"
	cataloguc "github.com/kailas-cloud/tastebud/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/tastebud/internal/usecase/health"
	preferenceuc "github.com/kailas-cloud/tastebud/internal/usecase/preference"
	recommenduc "github.com/kailas-cloud/tastebud/internal/usecase/recommend"
)

const (
	adminUsername = "mvc"
	adminPassword = "adminpass1"
)

type testEnv struct {
	handler     http.Handler
	auth        *authuc.Service
	preferences *preferenceuc.Service
}

// newTestEnv wires the full stack over an in-memory badger store, seeded
// with the bundled catalog and a bootstrapped admin.
func newTestEnv(t *testing.T, opts RouterOptions) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := badgerdb.NewStore(badgerdb.Config{InMemory: true})
	if err != nil {
		t.Fatalf("badgerdb.NewStore: %v", err)
	}
	t.Cleanup(store.Close)

	users := userrepo.New(store)
	catalogSvc := cataloguc.New(listingrepo.New(store), zap.NewNop())

	listings, err := seed.LoadFile(filepath.Join("..", "..", "..", "config", "catalog.yaml"))
	if err != nil {
		t.Fatalf("seed.LoadFile: %v", err)
	}
	if err := catalogSvc.Seed(ctx, listings); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	authSvc, err := authuc.New(users, sessionrepo.New(store), authuc.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("auth.New: %v", err)
	}
	if _, err := authSvc.BootstrapAdmin(ctx, adminUsername, "mvc@example.com", adminPassword); err != nil {
		t.Fatalf("BootstrapAdmin: %v", err)
	}

	preferenceSvc := preferenceuc.New(users)
	server := NewServer(Services{
		Auth:          authSvc,
		Authenticator: authuc.NewInstrumentedAuthenticator(authSvc, zap.NewNop()),
		Catalog:       catalogSvc,
		Preferences:   preferenceSvc,
		Recommend:     recommenduc.New(users, catalogSvc, match.EmptyCuisineOpen),
		Accounts:      accountuc.New(users),
		Health:        healthuc.New(store, catalogSvc),
	}, zap.NewNop())

	return &testEnv{handler: NewRouter(server, opts), auth: authSvc, preferences: preferenceSvc}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) register(t *testing.T, username, password string) UserResponse {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: username, Email: username + "@example.com", Password: password,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: got %d: %s", rr.Code, rr.Body.String())
	}
	var u UserResponse
	decode(t, rr, &u)
	return u
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: username, Password: password})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: got %d: %s", rr.Code, rr.Body.String())
	}
	var resp LoginResponse
	decode(t, rr, &resp)
	return resp.Token
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorCode) ErrorResponse {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	var e ErrorResponse
	decode(t, rr, &e)
	if e.Code != code {
		t.Errorf("code = %q, want %q (message %q)", e.Code, code, e.Message)
	}
	return e
}

func restaurantNames(t *testing.T, rr *httptest.ResponseRecorder) []string {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var resp RestaurantListResponse
	decode(t, rr, &resp)
	names := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		names = append(names, it.Name)
	}
	if resp.Count != len(resp.Items) {
		t.Errorf("count %d != items %d", resp.Count, len(resp.Items))
	}
	return names
}
