// Package preference holds a user's stored dining preferences.
package preference

import (
	"github.com/kailas-cloud/tastebud/internal/domain/price"
	"github.com/kailas-cloud/tastebud/internal/domain/tag"
)

// Profile is a user's preference profile (immutable value object).
// Allergies are recorded for display only and never restrict matching.
type Profile struct {
	dietary    tag.Set
	cuisines   tag.Set
	priceRange *price.Range
	allergies  tag.Set
}

// New creates a Profile. A nil priceRange means no stored range.
func New(dietary, cuisines []string, priceRange *price.Range, allergies []string) Profile {
	var pr *price.Range
	if priceRange != nil {
		r := *priceRange
		pr = &r
	}
	return Profile{
		dietary:    tag.NewSet(dietary...),
		cuisines:   tag.NewSet(cuisines...),
		priceRange: pr,
		allergies:  tag.NewSet(allergies...),
	}
}

// Dietary returns the required dietary tags.
func (p Profile) Dietary() tag.Set { return p.dietary }

// Cuisines returns the preferred cuisine tags.
func (p Profile) Cuisines() tag.Set { return p.cuisines }

// Allergies returns the recorded allergy tags.
func (p Profile) Allergies() tag.Set { return p.allergies }

// PriceRange returns the stored range and whether one was recorded.
func (p Profile) PriceRange() (price.Range, bool) {
	if p.priceRange == nil {
		return price.Full(), false
	}
	return *p.priceRange, true
}

// IsEmpty reports whether the profile records nothing that affects matching.
func (p Profile) IsEmpty() bool {
	return p.dietary.IsEmpty() && p.cuisines.IsEmpty() && p.priceRange == nil
}
