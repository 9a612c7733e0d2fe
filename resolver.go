package equity

import (
	"errors"

	"github.com/etnz/equity/date"
	"github.com/shopspring/decimal"
)

// Quote is the outcome of resolving a nominal event date against the calendar
// and the price index.
//
// Day is always set. The price fields degrade in three tiers: no USD price
// means no rate and no GBP price either; a USD price without a rate leaves
// the GBP price absent; only when both are present is the GBP price computed.
// Callers branch on the Has fields to decide whether a transaction is priced,
// partially priced, or unresolved.
type Quote struct {
	Day date.Date // resolved business day, never a weekend or holiday

	USD     Money
	Rate    decimal.Decimal
	GBP     Money
	HasUSD  bool
	HasRate bool
	HasGBP  bool
}

// Resolver maps nominal event dates to business days and prices them from the
// index. It is stateless beyond its two read-only collaborators and safe to
// share.
type Resolver struct {
	cal   *date.Calendar
	index *PriceIndex
}

// NewResolver returns a resolver over the given calendar and price index.
//
// An empty calendar or an empty price series indicates a misconfigured
// environment (no holiday file, no fetched prices) and fails immediately:
// resolving against them would silently produce an unpriced ledger.
func NewResolver(cal *date.Calendar, index *PriceIndex) (*Resolver, error) {
	if cal == nil || cal.Len() == 0 {
		return nil, errors.New("holiday calendar is empty")
	}
	if index == nil || index.Prices() == 0 {
		return nil, errors.New("price index has no USD prices")
	}
	return &Resolver{cal: cal, index: index}, nil
}

// Resolve shifts the nominal date to the next business day and looks up the
// USD price and exchange rate for that day.
func (r *Resolver) Resolve(nominal date.Date) Quote {
	q := Quote{Day: r.cal.NextBusinessDay(nominal)}

	usd, ok := r.index.USD(q.Day)
	if !ok {
		return q
	}
	q.USD, q.HasUSD = M(usd, "USD"), true

	rate, ok := r.index.Rate(q.Day)
	if !ok {
		return q
	}
	q.Rate, q.HasRate = decimal.NewFromFloat(rate), true

	q.GBP, q.HasGBP = q.USD.Convert(q.Rate, "GBP"), true
	return q
}
