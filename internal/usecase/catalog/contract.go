package catalog

import (
	"context"

	"github.com/kailas-cloud/tastebud/internal/domain/listing"
)

// Repository defines the storage contract for the restaurant catalog.
type Repository interface {
	Replace(ctx context.Context, listings []listing.Listing) error
	Get(ctx context.Context, id string) (listing.Listing, error)
	List(ctx context.Context) ([]listing.Listing, error)
}
