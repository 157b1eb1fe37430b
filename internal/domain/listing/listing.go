// Package listing holds the restaurant catalog entry aggregate.
package listing

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/tastebud/internal/domain/price"
	"github.com/kailas-cloud/tastebud/internal/domain/tag"
)

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Attrs carries the raw attributes of a listing.
type Attrs struct {
	ID          string
	Name        string
	Description string
	Cuisines    []string
	Tier        int
	Rating      float64
	Address     string
	Image       string
	Dietary     []string
	Dishes      []string
}

// Listing is a restaurant catalog entry (immutable value object).
type Listing struct {
	id          string
	name        string
	description string
	cuisines    tag.Set
	tier        int
	rating      float64
	address     string
	image       string
	dietary     tag.Set
	dishes      []string
}

// New validates and creates a Listing.
// ID and name are required, tier is 1..4, rating 0..5, cuisine and dietary sets non-empty.
func New(a Attrs) (Listing, error) {
	l := build(a)

	if l.id == "" {
		return Listing{}, fmt.Errorf("listing id is required")
	}
	if l.name == "" {
		return Listing{}, fmt.Errorf("listing %s: name is required", l.id)
	}
	if !price.ValidTier(l.tier) {
		return Listing{}, fmt.Errorf("listing %s: price tier %d outside %d..%d",
			l.id, l.tier, price.MinTier, price.MaxTier)
	}
	if math.IsNaN(l.rating) || l.rating < MinRating || l.rating > MaxRating {
		return Listing{}, fmt.Errorf("listing %s: rating %.2f outside %.0f..%.0f",
			l.id, l.rating, MinRating, MaxRating)
	}
	if l.cuisines.IsEmpty() {
		return Listing{}, fmt.Errorf("listing %s: at least one cuisine tag is required", l.id)
	}
	if l.dietary.IsEmpty() {
		return Listing{}, fmt.Errorf("listing %s: at least one dietary tag is required", l.id)
	}

	return l, nil
}

// Reconstruct creates a Listing without validation (storage hydration).
func Reconstruct(a Attrs) Listing {
	return build(a)
}

func build(a Attrs) Listing {
	dishes := make([]string, 0, len(a.Dishes))
	for _, d := range a.Dishes {
		if d = strings.TrimSpace(d); d != "" {
			dishes = append(dishes, d)
		}
	}
	return Listing{
		id:          strings.TrimSpace(a.ID),
		name:        strings.TrimSpace(a.Name),
		description: strings.TrimSpace(a.Description),
		cuisines:    tag.NewSet(a.Cuisines...),
		tier:        a.Tier,
		rating:      a.Rating,
		address:     a.Address,
		image:       a.Image,
		dietary:     tag.NewSet(a.Dietary...),
		dishes:      dishes,
	}
}

// ID returns the listing identifier.
func (l Listing) ID() string { return l.id }

// Name returns the display name.
func (l Listing) Name() string { return l.name }

// Description returns the free-text description.
func (l Listing) Description() string { return l.description }

// Cuisines returns the cuisine tags.
func (l Listing) Cuisines() tag.Set { return l.cuisines }

// Tier returns the price tier (1..4).
func (l Listing) Tier() int { return l.tier }

// Rating returns the average rating (0..5).
func (l Listing) Rating() float64 { return l.rating }

// Address returns the street address.
func (l Listing) Address() string { return l.address }

// Image returns the image reference.
func (l Listing) Image() string { return l.image }

// Dietary returns the dietary tags the restaurant accommodates.
func (l Listing) Dietary() tag.Set { return l.dietary }

// Dishes returns a copy of the popular dish names in display order.
func (l Listing) Dishes() []string {
	out := make([]string, len(l.dishes))
	copy(out, l.dishes)
	return out
}

// Attrs returns the listing's attributes, the inverse of New.
func (l Listing) Attrs() Attrs {
	return Attrs{
		ID:          l.id,
		Name:        l.name,
		Description: l.description,
		Cuisines:    l.cuisines.Values(),
		Tier:        l.tier,
		Rating:      l.rating,
		Address:     l.address,
		Image:       l.image,
		Dietary:     l.dietary.Values(),
		Dishes:      l.Dishes(),
	}
}
