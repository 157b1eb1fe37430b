package seed

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/tastebud/internal/domain/preference"
	"github.com/kailas-cloud/tastebud/internal/domain/price"
	"github.com/kailas-cloud/tastebud/internal/domain/user"
)

// AccountBootstrapper creates an account unless the username is taken.
type AccountBootstrapper interface {
	BootstrapUser(ctx context.Context, username, email, password string) (user.User, bool, error)
}

// ProfileWriter stores a user's preference profile.
type ProfileWriter interface {
	Update(ctx context.Context, userID string, p preference.Profile) error
}

// DemoUser describes a diner account created at startup with a ready-made
// profile. A zero PriceMin and PriceMax leaves the price range unset.
type DemoUser struct {
	Username  string
	Email     string
	Password  string
	Dietary   []string
	Cuisines  []string
	PriceMin  int
	PriceMax  int
	Allergies []string
}

// Profile builds the demo user's preference profile.
func (d DemoUser) Profile() (preference.Profile, error) {
	var pr *price.Range
	if d.PriceMin != 0 || d.PriceMax != 0 {
		r, err := price.NewRange(d.PriceMin, d.PriceMax)
		if err != nil {
			return preference.Profile{}, fmt.Errorf("demo price range: %w", err)
		}
		pr = &r
	}
	return preference.New(d.Dietary, d.Cuisines, pr, d.Allergies), nil
}

// SeedDemoUser creates the demo account and stores its profile. An account
// that already exists keeps its current profile. Reports whether the account
// was created.
func SeedDemoUser(ctx context.Context, accounts AccountBootstrapper, profiles ProfileWriter, d DemoUser) (bool, error) {
	if d.Username == "" {
		return false, nil
	}
	p, err := d.Profile()
	if err != nil {
		return false, err
	}

	u, created, err := accounts.BootstrapUser(ctx, d.Username, d.Email, d.Password)
	if err != nil {
		return false, fmt.Errorf("bootstrap demo user: %w", err)
	}
	if !created {
		return false, nil
	}
	if err := profiles.Update(ctx, u.ID(), p); err != nil {
		return true, fmt.Errorf("store demo profile: %w", err)
	}
	return true, nil
}
