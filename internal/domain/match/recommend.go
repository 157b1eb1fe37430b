package match

import (
	"fmt"

	"github.com/kailas-cloud/tastebud/internal/domain/listing"
	"github.com/kailas-cloud/tastebud/internal/domain/preference"
)

// EmptyCuisinePolicy decides how a profile with preferences but no preferred
// cuisines is treated.
type EmptyCuisinePolicy string

const (
	// EmptyCuisineOpen treats an empty cuisine set as no restriction,
	// the same rule that applies to filter criteria.
	EmptyCuisineOpen EmptyCuisinePolicy = "open"
	// EmptyCuisineClosed treats an empty cuisine set as matching nothing.
	EmptyCuisineClosed EmptyCuisinePolicy = "closed"
)

// ParseEmptyCuisinePolicy parses a configured policy name. Empty means open.
func ParseEmptyCuisinePolicy(s string) (EmptyCuisinePolicy, error) {
	switch EmptyCuisinePolicy(s) {
	case "", EmptyCuisineOpen:
		return EmptyCuisineOpen, nil
	case EmptyCuisineClosed:
		return EmptyCuisineClosed, nil
	default:
		return "", fmt.Errorf("unknown empty cuisine policy %q", s)
	}
}

type recommendOptions struct {
	emptyCuisine EmptyCuisinePolicy
}

// Option configures Recommend.
type Option func(*recommendOptions)

// WithEmptyCuisinePolicy selects the empty preferred-cuisine behavior.
func WithEmptyCuisinePolicy(p EmptyCuisinePolicy) Option {
	return func(o *recommendOptions) {
		o.emptyCuisine = p
	}
}

// Recommend returns the catalog listings that suit a preference profile.
//
// A nil profile, or one that records nothing, yields the full catalog.
// Otherwise a listing must serve a preferred cuisine, accommodate every
// required dietary tag and fall within the stored price range.
func Recommend(catalog []listing.Listing, profile *preference.Profile, opts ...Option) []listing.Listing {
	o := recommendOptions{emptyCuisine: EmptyCuisineOpen}
	for _, opt := range opts {
		opt(&o)
	}

	if profile == nil || profile.IsEmpty() {
		return Filter(catalog, pass)
	}
	return Filter(catalog, ForProfile(*profile, o.emptyCuisine))
}

// ForProfile composes the recommendation predicates for a non-empty profile.
func ForProfile(p preference.Profile, policy EmptyCuisinePolicy) Predicate {
	cuisine := CuisineMatch(p.Cuisines())
	if p.Cuisines().IsEmpty() && policy == EmptyCuisineClosed {
		cuisine = reject
	}
	r, _ := p.PriceRange()
	return All(
		cuisine,
		DietaryMatch(p.Dietary()),
		PriceMatch(r),
	)
}
