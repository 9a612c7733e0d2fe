package equity

import (
	"testing"

	"github.com/etnz/equity/date"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// GBP is a helper for test to create gbp money from const
func GBP(v float64) Money { return M(v, "GBP") }

// January 2024: 13th and 14th are a weekend, the 15th is a holiday
// (Martin Luther King Jr. Day), the 1st is a holiday too.
var (
	newYear = date.New(2024, 1, 1)
	mlkDay  = date.New(2024, 1, 15)
)

// testCalendar returns a calendar with the January 2024 holidays.
func testCalendar(t *testing.T) *date.Calendar {
	t.Helper()
	return date.NewCalendar(newYear, mlkDay)
}

// testIndex returns a price index covering the trading days around the
// mid-January 2024 weekend.
func testIndex(t *testing.T) *PriceIndex {
	t.Helper()
	index := NewPriceIndex()
	index.AppendUSD(date.New(2024, 1, 10), 184.0)
	index.AppendUSD(date.New(2024, 1, 11), 185.0)
	index.AppendUSD(date.New(2024, 1, 12), 186.0)
	index.AppendUSD(date.New(2024, 1, 16), 188.0)
	index.AppendUSD(date.New(2024, 1, 17), 189.0)

	index.AppendRate(date.New(2024, 1, 10), 1.27)
	index.AppendRate(date.New(2024, 1, 11), 1.272)
	index.AppendRate(date.New(2024, 1, 12), 1.274)
	index.AppendRate(date.New(2024, 1, 16), 1.25)
	// no rate on the 17th, deliberately
	return index
}

// testResolver returns a resolver over the test calendar and index.
func testResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(testCalendar(t), testIndex(t))
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return r
}
