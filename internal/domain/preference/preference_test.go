package preference

import (
	"testing"

	"github.com/kailas-cloud/tastebud/internal/domain/price"
)

func TestNew_Normalizes(t *testing.T) {
	r, _ := price.NewRange(1, 3)
	p := New([]string{"Vegetarian"}, []string{"Italian", "japanese", "Mexican"}, &r, []string{"Nuts"})

	if !p.Dietary().Contains("vegetarian") {
		t.Error("dietary not normalized")
	}
	if p.Cuisines().Len() != 3 {
		t.Errorf("Cuisines().Len() = %d, want 3", p.Cuisines().Len())
	}
	if !p.Allergies().Contains("nuts") {
		t.Error("allergies not recorded")
	}
	got, ok := p.PriceRange()
	if !ok || got != r {
		t.Errorf("PriceRange() = %s, %v; want %s, true", got, ok, r)
	}
}

func TestPriceRange_Absent(t *testing.T) {
	p := New(nil, []string{"thai"}, nil, nil)
	got, ok := p.PriceRange()
	if ok {
		t.Error("expected no stored range")
	}
	if !got.IsFull() {
		t.Errorf("absent range should default to full, got %s", got)
	}
}

func TestNew_CopiesRange(t *testing.T) {
	r, _ := price.NewRange(2, 2)
	p := New(nil, nil, &r, nil)
	r, _ = price.NewRange(4, 4)

	got, _ := p.PriceRange()
	if got.Low() != 2 {
		t.Errorf("profile range changed after caller mutation: %s", got)
	}
}

func TestIsEmpty(t *testing.T) {
	r := price.Full()
	tests := []struct {
		name string
		p    Profile
		want bool
	}{
		{"zero value", Profile{}, true},
		{"allergies only", New(nil, nil, nil, []string{"nuts"}), true},
		{"dietary", New([]string{"vegan"}, nil, nil, nil), false},
		{"cuisines", New(nil, []string{"thai"}, nil, nil), false},
		{"range", New(nil, nil, &r, nil), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.IsEmpty(); got != tc.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tc.want)
			}
		})
	}
}
