package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tastebud/internal/domain/criteria"
	"github.com/kailas-cloud/tastebud/internal/domain/listing"
	"github.com/kailas-cloud/tastebud/internal/domain/match"
	"github.com/kailas-cloud/tastebud/internal/domain/price"
	"github.com/kailas-cloud/tastebud/internal/metrics"
)

// ErrEmptyCatalog is reported by HealthCheck when nothing has been seeded.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Facets lists the distinct tags present in the catalog, in catalog order.
type Facets struct {
	Dietary  []string
	Cuisines []string

	DietaryCounts []TagCount
	CuisineCounts []TagCount
	// TierCounts holds one entry per price tier, lowest first.
	TierCounts []TierCount
}

// TagCount is the number of listings carrying a tag.
type TagCount struct {
	Tag   string
	Count int
}

// TierCount is the number of listings at a price tier.
type TierCount struct {
	Tier  int
	Count int
}

// Service serves the restaurant catalog and evaluates filter criteria over it.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a catalog service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Seed replaces the catalog with listings, keeping their order.
func (s *Service) Seed(ctx context.Context, listings []listing.Listing) error {
	if err := s.repo.Replace(ctx, listings); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	metrics.CatalogListings.Set(float64(len(listings)))
	s.logger.Info("Catalog seeded", zap.Int("listings", len(listings)))
	return nil
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]listing.Listing, error) {
	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return listings, nil
}

// Get retrieves one listing.
func (s *Service) Get(ctx context.Context, id string) (listing.Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// Search returns the listings satisfying c, in catalog order.
func (s *Service) Search(ctx context.Context, c criteria.Criteria) ([]listing.Listing, error) {
	listings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := match.Match(listings, c)
	metrics.ObserveMatch("search", len(out))
	return out, nil
}

// Facets collects the dietary and cuisine tags used across the catalog,
// with listing counts per tag and per price tier.
func (s *Service) Facets(ctx context.Context) (Facets, error) {
	listings, err := s.List(ctx)
	if err != nil {
		return Facets{}, err
	}

	dietary := newTagCounter()
	cuisines := newTagCounter()
	tiers := make([]TierCount, 0, price.MaxTier-price.MinTier+1)
	for t := price.MinTier; t <= price.MaxTier; t++ {
		tiers = append(tiers, TierCount{Tier: t})
	}
	for _, l := range listings {
		dietary.add(l.Dietary().Values())
		cuisines.add(l.Cuisines().Values())
		if price.ValidTier(l.Tier()) {
			tiers[l.Tier()-price.MinTier].Count++
		}
	}

	return Facets{
		Dietary:       dietary.tags(),
		Cuisines:      cuisines.tags(),
		DietaryCounts: dietary.counts,
		CuisineCounts: cuisines.counts,
		TierCounts:    tiers,
	}, nil
}

// HealthCheck fails when the catalog cannot be read or is empty.
func (s *Service) HealthCheck(ctx context.Context) error {
	listings, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

// tagCounter counts tags in first-seen order.
type tagCounter struct {
	index  map[string]int
	counts []TagCount
}

func newTagCounter() *tagCounter {
	return &tagCounter{index: make(map[string]int), counts: []TagCount{}}
}

func (c *tagCounter) add(values []string) {
	for _, v := range values {
		if i, ok := c.index[v]; ok {
			c.counts[i].Count++
			continue
		}
		c.index[v] = len(c.counts)
		c.counts = append(c.counts, TagCount{Tag: v, Count: 1})
	}
}

func (c *tagCounter) tags() []string {
	out := make([]string, len(c.counts))
	for i, tc := range c.counts {
		out[i] = tc.Tag
	}
	return out
}
