package equity

import (
	"testing"

	"github.com/etnz/equity/date"
)

func TestPriceRange(t *testing.T) {
	index := testIndex(t)

	rng := index.PriceRange()
	if want := date.New(2024, 1, 10); rng.From != want {
		t.Errorf("PriceRange().From = %s, want %s", rng.From, want)
	}
	if want := date.New(2024, 1, 17); rng.To != want {
		t.Errorf("PriceRange().To = %s, want %s", rng.To, want)
	}

	empty := NewPriceIndex().PriceRange()
	if !empty.From.IsZero() || !empty.To.IsZero() {
		t.Errorf("empty index PriceRange() = %v, want zero range", empty)
	}
}
