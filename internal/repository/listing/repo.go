package listing

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/tastebud/internal/domain"
	domlisting "github.com/kailas-cloud/tastebud/internal/domain/listing"
)

// store is the consumer interface for listings (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/catalog.Repository.
type Repo struct {
	store store
}

// New creates a listing repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Replace swaps the stored catalog for listings, keeping their order.
func (r *Repo) Replace(ctx context.Context, listings []domlisting.Listing) error {
	existing, err := r.store.Scan(ctx, listingKey("*"))
	if err != nil {
		return fmt.Errorf("scan listings: %w", err)
	}

	keep := make(map[string]struct{}, len(listings))
	for i, l := range listings {
		fields, err := listingToHash(l, i)
		if err != nil {
			return err
		}
		key := listingKey(l.ID())
		if err := r.store.HSet(ctx, key, fields); err != nil {
			return fmt.Errorf("hset listing %s: %w", l.ID(), err)
		}
		keep[key] = struct{}{}
	}

	var stale []string
	for _, k := range existing {
		if _, ok := keep[k]; !ok {
			stale = append(stale, k)
		}
	}
	if err := r.store.Del(ctx, stale...); err != nil {
		return fmt.Errorf("del stale listings: %w", err)
	}
	return nil
}

// Get retrieves a listing by id.
func (r *Repo) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	m, err := r.store.HGetAll(ctx, listingKey(id))
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("hgetall listing %s: %w", id, err)
	}
	if len(m) == 0 {
		return domlisting.Listing{}, domain.ErrNotFound
	}
	l, _, err := listingFromHash(m)
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("parse listing %s: %w", id, err)
	}
	return l, nil
}

// List returns the whole catalog in seed order.
func (r *Repo) List(ctx context.Context) ([]domlisting.Listing, error) {
	keys, err := r.store.Scan(ctx, listingKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan listings: %w", err)
	}
	if len(keys) == 0 {
		return []domlisting.Listing{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi listings: %w", err)
	}

	type positioned struct {
		listing  domlisting.Listing
		position int
	}
	rows := make([]positioned, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		l, pos, err := listingFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse listing %s: %w", keys[i], err)
		}
		rows = append(rows, positioned{listing: l, position: pos})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].position < rows[j].position
	})

	out := make([]domlisting.Listing, len(rows))
	for i, row := range rows {
		out[i] = row.listing
	}
	return out, nil
}

func listingKey(id string) string {
	return fmt.Sprintf("%slisting:%s", domain.KeyPrefix, id)
}
