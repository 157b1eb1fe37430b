package user

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/tastebud/internal/domain/preference"
	"github.com/kailas-cloud/tastebud/internal/domain/price"
	domuser "github.com/kailas-cloud/tastebud/internal/domain/user"
)

// preferencesRow is the JSON form of a preference profile.
type preferencesRow struct {
	Dietary    []string `json:"dietary"`
	Cuisines   []string `json:"cuisines"`
	PriceRange []int    `json:"price_range,omitempty"`
	Allergies  []string `json:"allergies"`
}

func preferencesToJSON(p preference.Profile) ([]byte, error) {
	row := preferencesRow{
		Dietary:   p.Dietary().Values(),
		Cuisines:  p.Cuisines().Values(),
		Allergies: p.Allergies().Values(),
	}
	if r, ok := p.PriceRange(); ok {
		row.PriceRange = []int{r.Low(), r.High()}
	}
	b, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	return b, nil
}

func preferencesFromJSON(b []byte) (*preference.Profile, error) {
	var row preferencesRow
	if err := json.Unmarshal(b, &row); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	var pr *price.Range
	if len(row.PriceRange) == 2 {
		r, err := price.NewRange(row.PriceRange[0], row.PriceRange[1])
		if err != nil {
			return nil, fmt.Errorf("stored price range: %w", err)
		}
		pr = &r
	}
	p := preference.New(row.Dietary, row.Cuisines, pr, row.Allergies)
	return &p, nil
}

// userToHash converts a User to HSET fields. Preferences live under their own key.
func userToHash(u domuser.User) map[string]string {
	return map[string]string{
		"id":            u.ID(),
		"username":      u.Username(),
		"email":         u.Email(),
		"role":          string(u.Role()),
		"password_hash": u.PasswordHash(),
		"created_at":    strconv.FormatInt(u.CreatedAt(), 10),
	}
}

// isComplete reports whether an HGETALL result carries the account fields.
func isComplete(m map[string]string) bool {
	return m["id"] != "" && m["created_at"] != ""
}

// userFromHash hydrates a User from an HGETALL result and its stored profile.
func userFromHash(m map[string]string, prefs *preference.Profile) (domuser.User, error) {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domuser.User{}, fmt.Errorf("invalid created_at: %w", err)
	}

	return domuser.Reconstruct(
		m["id"], m["username"], m["email"], domuser.Role(m["role"]),
		m["password_hash"], createdAt, prefs,
	), nil
}
