// Package seed loads the restaurant catalog from a YAML document.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/tastebud/internal/domain/listing"
)

type document struct {
	Restaurants []restaurant `yaml:"restaurants"`
}

type restaurant struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Cuisine     []string `yaml:"cuisine"`
	PriceTier   int      `yaml:"price_tier"`
	Rating      float64  `yaml:"rating"`
	Address     string   `yaml:"address"`
	Image       string   `yaml:"image"`
	Dietary     []string `yaml:"dietary"`
	Dishes      []string `yaml:"dishes"`
}

// LoadFile reads a catalog file.
func LoadFile(path string) ([]listing.Listing, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Load decodes and validates a catalog. Listing order follows the document.
// Unknown keys and duplicate ids are rejected.
func Load(r io.Reader) ([]listing.Listing, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []listing.Listing{}, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	out := make([]listing.Listing, 0, len(doc.Restaurants))
	seen := make(map[string]struct{}, len(doc.Restaurants))
	for i, rr := range doc.Restaurants {
		l, err := listing.New(listing.Attrs{
			ID:          rr.ID,
			Name:        rr.Name,
			Description: rr.Description,
			Cuisines:    rr.Cuisine,
			Tier:        rr.PriceTier,
			Rating:      rr.Rating,
			Address:     rr.Address,
			Image:       rr.Image,
			Dietary:     rr.Dietary,
			Dishes:      rr.Dishes,
		})
		if err != nil {
			return nil, fmt.Errorf("restaurant #%d: %w", i+1, err)
		}
		if _, dup := seen[l.ID()]; dup {
			return nil, fmt.Errorf("restaurant #%d: duplicate id %q", i+1, l.ID())
		}
		seen[l.ID()] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}
