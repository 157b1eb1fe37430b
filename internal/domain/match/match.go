// Package match implements the preference matcher: pure filter predicates
// over a restaurant catalog.
//
// Every function here is order-preserving and never mutates its inputs.
package match

import (
	"strings"

	"github.com/kailas-cloud/tastebud/internal/domain/criteria"
	"github.com/kailas-cloud/tastebud/internal/domain/listing"
	"github.com/kailas-cloud/tastebud/internal/domain/price"
	"github.com/kailas-cloud/tastebud/internal/domain/tag"
)

// Predicate decides whether a listing is included.
type Predicate func(l listing.Listing) bool

// All combines predicates with logical AND. No predicates admit everything.
func All(ps ...Predicate) Predicate {
	return func(l listing.Listing) bool {
		for _, p := range ps {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

// TextMatch passes when query is empty or is a case-insensitive substring
// of the listing name or description.
func TextMatch(query string) Predicate {
	q := strings.ToLower(query)
	if q == "" {
		return pass
	}
	return func(l listing.Listing) bool {
		return strings.Contains(strings.ToLower(l.Name()), q) ||
			strings.Contains(strings.ToLower(l.Description()), q)
	}
}

// PriceMatch passes when the listing tier lies within r, bounds included.
func PriceMatch(r price.Range) Predicate {
	return func(l listing.Listing) bool {
		return r.Contains(l.Tier())
	}
}

// DietaryMatch passes when the listing accommodates every required tag.
// An empty requirement passes.
func DietaryMatch(required tag.Set) Predicate {
	if required.IsEmpty() {
		return pass
	}
	return func(l listing.Listing) bool {
		return l.Dietary().ContainsAll(required)
	}
}

// CuisineMatch passes when the listing serves at least one wanted cuisine.
// An empty selection passes.
func CuisineMatch(wanted tag.Set) Predicate {
	if wanted.IsEmpty() {
		return pass
	}
	return func(l listing.Listing) bool {
		return l.Cuisines().Intersects(wanted)
	}
}

func pass(listing.Listing) bool { return true }

func reject(listing.Listing) bool { return false }

// Filter returns the listings satisfying p, in catalog order.
// The result is never nil.
func Filter(catalog []listing.Listing, p Predicate) []listing.Listing {
	out := make([]listing.Listing, 0, len(catalog))
	for _, l := range catalog {
		if p(l) {
			out = append(out, l)
		}
	}
	return out
}

// ForCriteria composes the four criteria predicates.
func ForCriteria(c criteria.Criteria) Predicate {
	return All(
		TextMatch(c.Query()),
		PriceMatch(c.PriceRange()),
		DietaryMatch(c.Dietary()),
		CuisineMatch(c.Cuisines()),
	)
}

// Match returns the catalog listings that satisfy all criteria.
func Match(catalog []listing.Listing, c criteria.Criteria) []listing.Listing {
	if c.IsUnrestricted() {
		return Filter(catalog, pass)
	}
	return Filter(catalog, ForCriteria(c))
}
