package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/tastebud/internal/domain"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// Stats summarizes registered accounts.
type Stats struct {
	Total  int
	ByRole map[user.Role]int
}

// Service implements admin account management.
type Service struct {
	repo Repository
}

// New creates an account service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns accounts whose username or email contains query
// (case-insensitive). An empty query lists everyone.
func (s *Service) List(ctx context.Context, query string) ([]user.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users, nil
	}
	out := make([]user.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username()), q) || strings.Contains(u.Email(), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

// Delete removes account id on behalf of actorID. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return fmt.Errorf("delete own account: %w", domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Stats counts accounts per role.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list users: %w", err)
	}
	st := Stats{Total: len(users), ByRole: map[user.Role]int{user.RoleUser: 0, user.RoleAdmin: 0}}
	for _, u := range users {
		st.ByRole[u.Role()]++
	}
	return st, nil
}
