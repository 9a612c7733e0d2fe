package equity

import (
	"github.com/etnz/equity/date"
)

// PriceIndex holds the pre-fetched USD closing price series and the USD/GBP
// exchange rate series for the engine run.
//
// Both series are built once from externally supplied data and never refetched
// or mutated afterwards; lookups are pure and a missing day is a legitimate
// miss, not an error.
type PriceIndex struct {
	prices date.History[float64]
	rates  date.History[float64]
}

// NewPriceIndex returns an empty price index.
func NewPriceIndex() *PriceIndex { return &PriceIndex{} }

// AppendUSD records the USD closing price for a day.
func (x *PriceIndex) AppendUSD(on date.Date, close float64) { x.prices.Append(on, close) }

// AppendRate records the USD/GBP exchange rate for a day. The rate is defined
// so that GBP price = USD price / rate.
func (x *PriceIndex) AppendRate(on date.Date, rate float64) { x.rates.Append(on, rate) }

// USD returns the USD closing price for a day.
func (x *PriceIndex) USD(on date.Date) (float64, bool) { return x.prices.Get(on) }

// Rate returns the USD/GBP exchange rate for a day.
func (x *PriceIndex) Rate(on date.Date) (float64, bool) { return x.rates.Get(on) }

// Prices returns the number of days with a USD price.
func (x *PriceIndex) Prices() int { return x.prices.Len() }

// Rates returns the number of days with an exchange rate.
func (x *PriceIndex) Rates() int { return x.rates.Len() }

// PriceRange returns the date range covered by the USD price series.
func (x *PriceIndex) PriceRange() date.Range {
	from, _ := x.prices.First()
	to, _ := x.prices.Latest()
	return date.Range{From: from, To: to}
}
