package chi

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/tastebud/internal/seed"
)

// --- Health ---

func TestHealthCheck_Seeded(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	rr := env.do(t, http.MethodGet, "/health", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "ok" || resp.Checks["database"] != "ok" || resp.Checks["catalog"] != "ok" {
		t.Errorf("unexpected health %+v", resp)
	}
}

// --- Restaurants ---

func TestSearchRestaurants(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"unrestricted", "", []string{"Italiano Authentico", "Sushi Paradise", "Taco Town", "Veggie Delight", "Burger & Brew"}},
		{"dataset example", "?min_price=2&max_price=3&dietary=vegetarian",
			[]string{"Italiano Authentico", "Taco Town", "Veggie Delight", "Burger & Brew"}},
		{"text in description", "?q=AUTHENTIC", []string{"Italiano Authentico", "Taco Town"}},
		{"dietary AND", "?dietary=vegan,gluten-free", []string{"Veggie Delight"}},
		{"cuisine OR", "?cuisine=italian&cuisine=mexican", []string{"Italiano Authentico", "Taco Town"}},
		{"no match", "?q=ramen", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := restaurantNames(t, env.do(t, http.MethodGet, "/api/v1/restaurants"+tc.query, "", nil))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchRestaurants_InvalidPrice(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	for _, q := range []string{"?min_price=abc", "?min_price=3&max_price=2", "?max_price=5"} {
		rr := env.do(t, http.MethodGet, "/api/v1/restaurants"+q, "", nil)
		expectError(t, rr, http.StatusBadRequest, ErrorCodeValidationFailed)
	}
}

func TestGetRestaurant(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	rr := env.do(t, http.MethodGet, "/api/v1/restaurants/2", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var r RestaurantResponse
	decode(t, rr, &r)
	if r.Name != "Sushi Paradise" || r.PriceTier != 4 || len(r.PopularDishes) != 3 {
		t.Errorf("unexpected restaurant %+v", r)
	}

	expectError(t, env.do(t, http.MethodGet, "/api/v1/restaurants/99", "", nil), http.StatusNotFound, ErrorCodeNotFound)
}

func TestRestaurantFacets(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	rr := env.do(t, http.MethodGet, "/api/v1/restaurants/facets", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var f FacetsResponse
	decode(t, rr, &f)
	if len(f.Dietary) != 4 || len(f.Cuisines) != 6 || f.MinPrice != 1 || f.MaxPrice != 4 {
		t.Errorf("unexpected facets %+v", f)
	}
	wantTiers := []TierCountDTO{{Tier: 1, Count: 0}, {Tier: 2, Count: 2}, {Tier: 3, Count: 2}, {Tier: 4, Count: 1}}
	if !reflect.DeepEqual(f.PriceTiers, wantTiers) {
		t.Errorf("price tiers = %+v, want %+v", f.PriceTiers, wantTiers)
	}
	if len(f.CuisineCounts) != 6 || f.CuisineCounts[0] != (TagCountDTO{Tag: "italian", Count: 1}) {
		t.Errorf("cuisine counts = %+v", f.CuisineCounts)
	}
	if len(f.DietaryCounts) != 4 || f.DietaryCounts[0] != (TagCountDTO{Tag: "vegetarian", Count: 5}) {
		t.Errorf("dietary counts = %+v", f.DietaryCounts)
	}
}

// --- Auth ---

func TestRegister(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	u := env.register(t, "muser", "password123")
	if u.Role != "user" || u.Email != "muser@example.com" || u.ID == "" {
		t.Errorf("unexpected user %+v", u)
	}

	rr := env.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: "MUSER", Email: "other@example.com", Password: "password123",
	})
	expectError(t, rr, http.StatusConflict, ErrorCodeAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	rr := env.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: "muser", Email: "muser@example.com", Password: "short",
	})
	e := expectError(t, rr, http.StatusBadRequest, ErrorCodeValidationFailed)
	if !strings.Contains(e.Message, "password") {
		t.Errorf("message should name the json field: %q", e.Message)
	}

	rr = env.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"username":"muser","nope":1}`)
	expectError(t, rr, http.StatusBadRequest, ErrorCodeBadRequest)

	rr = env.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: "bad name!", Email: "muser@example.com", Password: "password123",
	})
	expectError(t, rr, http.StatusBadRequest, ErrorCodeValidationFailed)
}

func TestLoginMeLogout(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	u := env.register(t, "muser", "password123")
	token := env.login(t, "muser", "password123")

	rr := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: %d", rr.Code)
	}
	var me SessionResponse
	decode(t, rr, &me)
	if me.UserID != u.ID || me.Role != "user" || !me.ExpiresAt.After(time.Now()) {
		t.Errorf("unexpected session %+v", me)
	}

	if rr := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rr.Code)
	}
	expectError(t, env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil), http.StatusUnauthorized, ErrorCodeUnauthorized)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	env.register(t, "muser", "password123")

	rr := env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "muser", Password: "wrong-password"})
	expectError(t, rr, http.StatusUnauthorized, ErrorCodeInvalidCredentials)

	rr = env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "ghost", Password: "password123"})
	expectError(t, rr, http.StatusUnauthorized, ErrorCodeInvalidCredentials)
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t, RouterOptions{LoginRequests: 2, LoginWindow: time.Minute})

	for i := 0; i < 2; i++ {
		rr := env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "x", Password: "y"})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status %d", i+1, rr.Code)
		}
	}
	rr := env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "x", Password: "y"})
	expectError(t, rr, http.StatusTooManyRequests, ErrorCodeRateLimited)
}

func TestSessionMiddleware_Rejections(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})

	expectError(t, env.do(t, http.MethodGet, "/api/v1/me/preferences", "", nil),
		http.StatusUnauthorized, ErrorCodeUnauthorized)
	expectError(t, env.do(t, http.MethodGet, "/api/v1/me/preferences", "not-a-jwt", nil),
		http.StatusUnauthorized, ErrorCodeUnauthorized)

	if rr := env.do(t, http.MethodGet, "/api/v1/restaurants", "", nil); rr.Code != http.StatusOK {
		t.Errorf("public route should not require a token, got %d", rr.Code)
	}
}

// --- Preferences & recommendations ---

func TestPreferencesAndRecommendations(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	env.register(t, "muser", "password123")
	token := env.login(t, "muser", "password123")

	rr := env.do(t, http.MethodGet, "/api/v1/me/preferences", token, nil)
	var prefs PreferencesResponse
	decode(t, rr, &prefs)
	if prefs.Configured {
		t.Fatal("fresh account should have no preferences")
	}

	// no profile: full catalog
	if got := restaurantNames(t, env.do(t, http.MethodGet, "/api/v1/me/recommendations", token, nil)); len(got) != 5 {
		t.Errorf("expected full catalog, got %v", got)
	}

	rr = env.do(t, http.MethodPut, "/api/v1/me/preferences", token, PreferencesRequest{
		Dietary:    []string{"Vegetarian"},
		Cuisines:   []string{"italian", "japanese", "mexican"},
		PriceRange: &PriceRangeDTO{Min: 1, Max: 3},
		Allergies:  []string{"nuts"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("put preferences: %d %s", rr.Code, rr.Body.String())
	}
	var stored PreferencesResponse
	decode(t, rr, &stored)
	if !stored.Configured || len(stored.Dietary) != 1 || stored.Dietary[0] != "vegetarian" ||
		stored.PriceRange == nil || stored.PriceRange.Max != 3 {
		t.Errorf("unexpected stored preferences %+v", stored)
	}

	got := restaurantNames(t, env.do(t, http.MethodGet, "/api/v1/me/recommendations", token, nil))
	if want := []string{"Italiano Authentico", "Taco Town"}; !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %v, want %v", got, want)
	}

	got = restaurantNames(t, env.do(t, http.MethodGet, "/api/v1/me/recommendations?cuisine=mexican", token, nil))
	if want := []string{"Taco Town"}; !reflect.DeepEqual(got, want) {
		t.Errorf("mexican recommendations = %v, want %v", got, want)
	}
	got = restaurantNames(t, env.do(t, http.MethodGet, "/api/v1/me/recommendations?cuisine=all", token, nil))
	if len(got) != 2 {
		t.Errorf("cuisine=all should not narrow, got %v", got)
	}
}

func TestDemoUser_SeededProfile(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	created, err := seed.SeedDemoUser(context.Background(), env.auth, env.preferences, seed.DemoUser{
		Username:  "demo",
		Email:     "demo@example.com",
		Password:  "demopass1",
		Dietary:   []string{"vegetarian"},
		Cuisines:  []string{"italian", "japanese", "mexican"},
		PriceMin:  1,
		PriceMax:  3,
		Allergies: []string{"nuts"},
	})
	if err != nil || !created {
		t.Fatalf("SeedDemoUser = %v, %v", created, err)
	}

	token := env.login(t, "demo", "demopass1")
	rr := env.do(t, http.MethodGet, "/api/v1/me/preferences", token, nil)
	var prefs PreferencesResponse
	decode(t, rr, &prefs)
	if !prefs.Configured || len(prefs.Allergies) != 1 || prefs.PriceRange == nil || prefs.PriceRange.Min != 1 {
		t.Errorf("unexpected demo preferences %+v", prefs)
	}

	got := restaurantNames(t, env.do(t, http.MethodGet, "/api/v1/me/recommendations", token, nil))
	if want := []string{"Italiano Authentico", "Taco Town"}; !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %v, want %v", got, want)
	}
}

func TestUpdatePreferences_InvalidRange(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	env.register(t, "muser", "password123")
	token := env.login(t, "muser", "password123")

	rr := env.do(t, http.MethodPut, "/api/v1/me/preferences", token, PreferencesRequest{
		PriceRange: &PriceRangeDTO{Min: 3, Max: 2},
	})
	expectError(t, rr, http.StatusBadRequest, ErrorCodeValidationFailed)

	rr = env.do(t, http.MethodPut, "/api/v1/me/preferences", token, PreferencesRequest{
		PriceRange: &PriceRangeDTO{Min: 0, Max: 2},
	})
	expectError(t, rr, http.StatusBadRequest, ErrorCodeValidationFailed)
}

// --- Admin ---

func TestAdmin_RequiresRole(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	env.register(t, "muser", "password123")
	token := env.login(t, "muser", "password123")

	expectError(t, env.do(t, http.MethodGet, "/api/v1/admin/users", token, nil), http.StatusForbidden, ErrorCodeForbidden)
	expectError(t, env.do(t, http.MethodGet, "/api/v1/admin/users", "", nil), http.StatusUnauthorized, ErrorCodeUnauthorized)
}

func TestAdmin_ManageUsers(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	victim := env.register(t, "muser", "password123")
	env.register(t, "alice", "password123")
	victimToken := env.login(t, "muser", "password123")
	admin := env.login(t, adminUsername, adminPassword)

	rr := env.do(t, http.MethodGet, "/api/v1/admin/users", admin, nil)
	var list UserListResponse
	decode(t, rr, &list)
	if list.Count != 3 {
		t.Fatalf("expected 3 users, got %+v", list)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/admin/users?q=ALI", admin, nil)
	var filtered UserListResponse
	decode(t, rr, &filtered)
	if filtered.Count != 1 || filtered.Items[0].Username != "alice" {
		t.Fatalf("filtered list = %+v", filtered)
	}

	rr = env.do(t, http.MethodGet, "/api/v1/admin/stats", admin, nil)
	var stats StatsResponse
	decode(t, rr, &stats)
	if stats.Total != 3 || stats.ByRole["admin"] != 1 || stats.ByRole["user"] != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if rr := env.do(t, http.MethodDelete, "/api/v1/admin/users/"+victim.ID, admin, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", rr.Code, rr.Body.String())
	}
	expectError(t, env.do(t, http.MethodDelete, "/api/v1/admin/users/"+victim.ID, admin, nil),
		http.StatusNotFound, ErrorCodeNotFound)

	// the deleted account's token no longer authenticates
	expectError(t, env.do(t, http.MethodGet, "/api/v1/auth/me", victimToken, nil),
		http.StatusUnauthorized, ErrorCodeUnauthorized)
}

func TestAdmin_CannotDeleteSelf(t *testing.T) {
	env := newTestEnv(t, RouterOptions{})
	admin := env.login(t, adminUsername, adminPassword)

	rr := env.do(t, http.MethodGet, "/api/v1/auth/me", admin, nil)
	var me SessionResponse
	decode(t, rr, &me)

	expectError(t, env.do(t, http.MethodDelete, "/api/v1/admin/users/"+me.UserID, admin, nil),
		http.StatusForbidden, ErrorCodeForbidden)
}
