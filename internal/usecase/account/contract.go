package account

import (
	"context"

	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// Repository defines the storage contract for account administration.
type Repository interface {
	List(ctx context.Context) ([]user.User, error)
	Delete(ctx context.Context, id string) error
}
