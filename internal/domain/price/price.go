// Package price models the four-step restaurant price tier scale.
package price

import "fmt"

// Tier bounds: 1 is the cheapest, 4 the most expensive.
const (
	MinTier = 1
	MaxTier = 4
)

// ValidTier reports whether t is on the tier scale.
func ValidTier(t int) bool {
	return t >= MinTier && t <= MaxTier
}

// Range is an inclusive [Low, High] tier range (immutable value object).
type Range struct {
	low  int
	high int
}

// NewRange validates and creates a Range. Requires MinTier <= low <= high <= MaxTier.
func NewRange(low, high int) (Range, error) {
	if !ValidTier(low) || !ValidTier(high) {
		return Range{}, fmt.Errorf("price range [%d,%d] outside tiers %d..%d", low, high, MinTier, MaxTier)
	}
	if low > high {
		return Range{}, fmt.Errorf("price range low %d exceeds high %d", low, high)
	}
	return Range{low: low, high: high}, nil
}

// Full returns the unrestricted range [MinTier, MaxTier].
func Full() Range {
	return Range{low: MinTier, high: MaxTier}
}

// Low returns the lower bound.
func (r Range) Low() int { return r.low }

// High returns the upper bound.
func (r Range) High() int { return r.high }

// Contains reports whether tier lies within the range, bounds included.
func (r Range) Contains(tier int) bool {
	return tier >= r.low && tier <= r.high
}

// IsZero reports whether r is the uninitialized zero value.
func (r Range) IsZero() bool { return r.low == 0 && r.high == 0 }

// IsFull reports whether the range spans every tier.
func (r Range) IsFull() bool {
	return r.low == MinTier && r.high == MaxTier
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.low, r.high)
}
