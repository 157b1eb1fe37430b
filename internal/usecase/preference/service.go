package preference

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/tastebud/internal/domain/preference"
)

// Service reads and writes a user's preference profile.
type Service struct {
	repo Repository
}

// New creates a preference service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored profile, or nil when the user has none.
func (s *Service) Get(ctx context.Context, userID string) (*preference.Profile, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u.Preferences(), nil
}

// Update replaces the user's profile.
func (s *Service) Update(ctx context.Context, userID string, p preference.Profile) error {
	if err := s.repo.SavePreferences(ctx, userID, p); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
