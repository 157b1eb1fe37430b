package chi

import (
	"time"

	"github.com/kailas-cloud/tastebud/internal/domain/listing"
	"github.com/kailas-cloud/tastebud/internal/domain/preference"
	"github.com/kailas-cloud/tastebud/internal/domain/price"
	"github.com/kailas-cloud/tastebud/internal/domain/session"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
	cataloguc "github.com/kailas-cloud/tastebud/internal/usecase/catalog"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeSessionExpired     ErrorCode = "session_expired"
	ErrorCodeInvalidCredentials ErrorCode = "invalid_credentials"
	ErrorCodeForbidden          ErrorCode = "forbidden"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeAlreadyExists      ErrorCode = "already_exists"
	ErrorCodeRateLimited        ErrorCode = "rate_limited"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	Session   SessionResponse `json:"session"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListResponse wraps a list of accounts.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Count int            `json:"count"`
}

// StatsResponse holds account counts.
type StatsResponse struct {
	Total  int            `json:"total"`
	ByRole map[string]int `json:"by_role"`
}

// RestaurantResponse is the public view of a listing.
type RestaurantResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Cuisine        []string `json:"cuisine"`
	PriceTier      int      `json:"price_tier"`
	Rating         float64  `json:"rating"`
	Address        string   `json:"address"`
	Image          string   `json:"image"`
	DietaryOptions []string `json:"dietary_options"`
	PopularDishes  []string `json:"popular_dishes"`
}

// RestaurantListResponse wraps a list of listings.
type RestaurantListResponse struct {
	Items []RestaurantResponse `json:"items"`
	Count int                  `json:"count"`
}

// FacetsResponse lists the tags available for filtering and how the
// catalog distributes over them.
type FacetsResponse struct {
	Dietary       []string       `json:"dietary"`
	Cuisines      []string       `json:"cuisines"`
	MinPrice      int            `json:"min_price"`
	MaxPrice      int            `json:"max_price"`
	DietaryCounts []TagCountDTO  `json:"dietary_counts"`
	CuisineCounts []TagCountDTO  `json:"cuisine_counts"`
	PriceTiers    []TierCountDTO `json:"price_tiers"`
}

// TagCountDTO is the number of listings carrying a tag.
type TagCountDTO struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TierCountDTO is the number of listings at a price tier.
type TierCountDTO struct {
	Tier  int `json:"tier"`
	Count int `json:"count"`
}

// PriceRangeDTO is an inclusive price tier range.
type PriceRangeDTO struct {
	Min int `json:"min" validate:"min=1,max=4"`
	Max int `json:"max" validate:"min=1,max=4,gtefield=Min"`
}

// PreferencesRequest is the body of PUT /me/preferences.
type PreferencesRequest struct {
	Dietary    []string       `json:"dietary" validate:"max=32,dive,required,max=64"`
	Cuisines   []string       `json:"cuisines" validate:"max=32,dive,required,max=64"`
	PriceRange *PriceRangeDTO `json:"price_range"`
	Allergies  []string       `json:"allergies" validate:"max=32,dive,required,max=64"`
}

// PreferencesResponse is the stored profile. Configured is false when the
// user has never saved preferences.
type PreferencesResponse struct {
	Configured bool           `json:"configured"`
	Dietary    []string       `json:"dietary"`
	Cuisines   []string       `json:"cuisines"`
	PriceRange *PriceRangeDTO `json:"price_range"`
	Allergies  []string       `json:"allergies"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func sessionToResponse(s session.Session) SessionResponse {
	return SessionResponse{
		UserID:    s.UserID,
		Username:  s.Username,
		Role:      string(s.Role),
		ExpiresAt: s.ExpiresAt.UTC(),
	}
}

func userToResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID(),
		Username:  u.Username(),
		Email:     u.Email(),
		Role:      string(u.Role()),
		CreatedAt: time.UnixMilli(u.CreatedAt()).UTC(),
	}
}

func usersToResponse(users []user.User) UserListResponse {
	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = userToResponse(u)
	}
	return UserListResponse{Items: items, Count: len(items)}
}

func listingToResponse(l listing.Listing) RestaurantResponse {
	return RestaurantResponse{
		ID:             l.ID(),
		Name:           l.Name(),
		Description:    l.Description(),
		Cuisine:        l.Cuisines().Values(),
		PriceTier:      l.Tier(),
		Rating:         l.Rating(),
		Address:        l.Address(),
		Image:          l.Image(),
		DietaryOptions: l.Dietary().Values(),
		PopularDishes:  l.Dishes(),
	}
}

func listingsToResponse(ls []listing.Listing) RestaurantListResponse {
	items := make([]RestaurantResponse, len(ls))
	for i, l := range ls {
		items[i] = listingToResponse(l)
	}
	return RestaurantListResponse{Items: items, Count: len(items)}
}

func facetsToResponse(f cataloguc.Facets) FacetsResponse {
	resp := FacetsResponse{
		Dietary:       f.Dietary,
		Cuisines:      f.Cuisines,
		MinPrice:      price.MinTier,
		MaxPrice:      price.MaxTier,
		DietaryCounts: tagCountsToResponse(f.DietaryCounts),
		CuisineCounts: tagCountsToResponse(f.CuisineCounts),
		PriceTiers:    make([]TierCountDTO, len(f.TierCounts)),
	}
	for i, tc := range f.TierCounts {
		resp.PriceTiers[i] = TierCountDTO{Tier: tc.Tier, Count: tc.Count}
	}
	return resp
}

func tagCountsToResponse(counts []cataloguc.TagCount) []TagCountDTO {
	out := make([]TagCountDTO, len(counts))
	for i, tc := range counts {
		out[i] = TagCountDTO{Tag: tc.Tag, Count: tc.Count}
	}
	return out
}

func profileToResponse(p *preference.Profile) PreferencesResponse {
	if p == nil {
		return PreferencesResponse{
			Dietary:   []string{},
			Cuisines:  []string{},
			Allergies: []string{},
		}
	}
	resp := PreferencesResponse{
		Configured: true,
		Dietary:    p.Dietary().Values(),
		Cuisines:   p.Cuisines().Values(),
		Allergies:  p.Allergies().Values(),
	}
	if r, ok := p.PriceRange(); ok {
		resp.PriceRange = &PriceRangeDTO{Min: r.Low(), Max: r.High()}
	}
	return resp
}

func profileFromRequest(req PreferencesRequest) (preference.Profile, error) {
	var pr *price.Range
	if req.PriceRange != nil {
		r, err := price.NewRange(req.PriceRange.Min, req.PriceRange.Max)
		if err != nil {
			return preference.Profile{}, err
		}
		pr = &r
	}
	return preference.New(req.Dietary, req.Cuisines, pr, req.Allergies), nil
}
