// Package tag implements normalized tag sets used for dietary and cuisine labels.
package tag

import "strings"

// Set is an ordered collection of distinct normalized tags (immutable value object).
// The zero value is an empty set.
type Set struct {
	values []string
	index  map[string]struct{}
}

// Normalize trims and lower-cases a tag.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewSet builds a Set from raw values. Blank values are dropped, duplicates
// collapse onto their first occurrence.
func NewSet(raw ...string) Set {
	if len(raw) == 0 {
		return Set{}
	}
	s := Set{
		values: make([]string, 0, len(raw)),
		index:  make(map[string]struct{}, len(raw)),
	}
	for _, r := range raw {
		t := Normalize(r)
		if t == "" {
			continue
		}
		if _, dup := s.index[t]; dup {
			continue
		}
		s.index[t] = struct{}{}
		s.values = append(s.values, t)
	}
	return s
}

// Values returns a copy of the tags in insertion order.
func (s Set) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of tags.
func (s Set) Len() int { return len(s.values) }

// IsEmpty reports whether the set has no tags.
func (s Set) IsEmpty() bool { return len(s.values) == 0 }

// Contains reports whether t (normalized) is in the set.
func (s Set) Contains(t string) bool {
	_, ok := s.index[Normalize(t)]
	return ok
}

// ContainsAll reports whether every tag of other is in s.
// An empty other is trivially contained.
func (s Set) ContainsAll(other Set) bool {
	for _, t := range other.values {
		if _, ok := s.index[t]; !ok {
			return false
		}
	}
	return true
}

// Intersects reports whether s and other share at least one tag.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	for _, t := range small.values {
		if _, ok := large.index[t]; ok {
			return true
		}
	}
	return false
}
