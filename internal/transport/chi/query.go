package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tastebud/internal/domain"
	"github.com/kailas-cloud/tastebud/internal/domain/criteria"
	"github.com/kailas-cloud/tastebud/internal/domain/price"
)

// criteriaFromQuery builds filter criteria from
// ?q=&min_price=&max_price=&dietary=a,b&cuisine=c. Missing bounds default to
// the full tier scale. List parameters may be repeated or comma-separated.
func criteriaFromQuery(v url.Values) (criteria.Criteria, error) {
	low, err := intParam(v, "min_price", price.MinTier)
	if err != nil {
		return criteria.Criteria{}, err
	}
	high, err := intParam(v, "max_price", price.MaxTier)
	if err != nil {
		return criteria.Criteria{}, err
	}
	r, err := price.NewRange(low, high)
	if err != nil {
		return criteria.Criteria{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	return criteria.New(v.Get("q"), r, listParam(v, "dietary"), listParam(v, "cuisine")), nil
}

func intParam(v url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return n, nil
}

func listParam(v url.Values, name string) []string {
	var out []string
	for _, raw := range v[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
