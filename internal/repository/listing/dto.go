package listing

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	domlisting "github.com/kailas-cloud/tastebud/internal/domain/listing"
)

// listingRow is the JSON body stored under the "body" hash field.
type listingRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cuisines    []string `json:"cuisines"`
	Tier        int      `json:"tier"`
	Rating      float64  `json:"rating"`
	Address     string   `json:"address"`
	Image       string   `json:"image"`
	Dietary     []string `json:"dietary"`
	Dishes      []string `json:"dishes"`
}

// listingToHash converts a Listing and its catalog position to HSET fields.
func listingToHash(l domlisting.Listing, position int) (map[string]string, error) {
	a := l.Attrs()
	body, err := json.Marshal(listingRow{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Cuisines:    a.Cuisines,
		Tier:        a.Tier,
		Rating:      a.Rating,
		Address:     a.Address,
		Image:       a.Image,
		Dietary:     a.Dietary,
		Dishes:      a.Dishes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal listing %s: %w", a.ID, err)
	}
	return map[string]string{
		"id":       a.ID,
		"position": strconv.Itoa(position),
		"body":     string(body),
	}, nil
}

// listingFromHash hydrates a Listing and its position from an HGETALL result.
func listingFromHash(m map[string]string) (domlisting.Listing, int, error) {
	position, err := strconv.Atoi(m["position"])
	if err != nil {
		return domlisting.Listing{}, 0, fmt.Errorf("invalid position: %w", err)
	}

	var row listingRow
	if err := json.Unmarshal([]byte(m["body"]), &row); err != nil {
		return domlisting.Listing{}, 0, fmt.Errorf("unmarshal listing: %w", err)
	}

	return domlisting.Reconstruct(domlisting.Attrs{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Cuisines:    row.Cuisines,
		Tier:        row.Tier,
		Rating:      row.Rating,
		Address:     row.Address,
		Image:       row.Image,
		Dietary:     row.Dietary,
		Dishes:      row.Dishes,
	}), position, nil
}
