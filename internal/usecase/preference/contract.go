package preference

import (
	"context"

	"github.com/kailas-cloud/tastebud/internal/domain/preference"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// Repository defines the storage contract for preference profiles.
type Repository interface {
	Get(ctx context.Context, id string) (user.User, error)
	SavePreferences(ctx context.Context, id string, p preference.Profile) error
}
