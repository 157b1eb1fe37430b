package recommend

import (
	"context"

	"github.com/kailas-cloud/tastebud/internal/domain/listing"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// UserRepository loads the account holding the preference profile.
type UserRepository interface {
	Get(ctx context.Context, id string) (user.User, error)
}

// Catalog provides the listings to recommend from.
type Catalog interface {
	List(ctx context.Context) ([]listing.Listing, error)
}
