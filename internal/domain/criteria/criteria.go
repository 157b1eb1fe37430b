// Package criteria models the ephemeral filter state of a catalog search.
package criteria

import (
	"strings"

	"github.com/kailas-cloud/tastebud/internal/domain/price"
	"github.com/kailas-cloud/tastebud/internal/domain/tag"
)

// Criteria is a catalog filter (immutable value object).
// The zero value is equivalent to Default.
type Criteria struct {
	query      string
	priceRange price.Range
	dietary    tag.Set
	cuisines   tag.Set
}

// New creates Criteria. Tags are normalized. The query is trimmed, so a
// whitespace-only query is empty and matches every listing rather than
// acting as a literal " " substring.
func New(query string, priceRange price.Range, dietary, cuisines []string) Criteria {
	return Criteria{
		query:      strings.TrimSpace(query),
		priceRange: priceRange,
		dietary:    tag.NewSet(dietary...),
		cuisines:   tag.NewSet(cuisines...),
	}
}

// Default returns the cleared filter: empty query, full price range, no tags.
func Default() Criteria {
	return Criteria{priceRange: price.Full()}
}

// Query returns the free-text query.
func (c Criteria) Query() string { return c.query }

// PriceRange returns the inclusive tier range.
func (c Criteria) PriceRange() price.Range {
	if c.priceRange.IsZero() {
		return price.Full()
	}
	return c.priceRange
}

// Dietary returns the selected dietary tags (all must hold).
func (c Criteria) Dietary() tag.Set { return c.dietary }

// Cuisines returns the selected cuisine tags (any may hold).
func (c Criteria) Cuisines() tag.Set { return c.cuisines }

// IsUnrestricted reports whether the criteria admit every listing.
func (c Criteria) IsUnrestricted() bool {
	return c.query == "" && c.PriceRange().IsFull() && c.dietary.IsEmpty() && c.cuisines.IsEmpty()
}
