package recommend

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/tastebud/internal/domain/listing"
	"github.com/kailas-cloud/tastebud/internal/domain/match"
	"github.com/kailas-cloud/tastebud/internal/domain/tag"
	"github.com/kailas-cloud/tastebud/internal/metrics"
)

// Service produces personalized recommendations from stored profiles.
type Service struct {
	users   UserRepository
	catalog Catalog
	policy  match.EmptyCuisinePolicy
}

// New creates a recommendation service applying policy to profiles with no
// preferred cuisines.
func New(users UserRepository, catalog Catalog, policy match.EmptyCuisinePolicy) *Service {
	return &Service{users: users, catalog: catalog, policy: policy}
}

// AllCuisines disables cuisine narrowing in For.
const AllCuisines = "all"

// For returns the catalog listings matching the user's profile. A non-empty
// cuisine other than AllCuisines narrows the result to listings tagged with it.
func (s *Service) For(ctx context.Context, userID, cuisine string) ([]listing.Listing, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	listings, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	out := match.Recommend(listings, u.Preferences(), match.WithEmptyCuisinePolicy(s.policy))
	if c := tag.Normalize(cuisine); c != "" && c != AllCuisines {
		out = match.Filter(out, match.CuisineMatch(tag.NewSet(c)))
	}
	metrics.ObserveMatch("recommend", len(out))
	return out, nil
}
