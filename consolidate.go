package equity

import (
	"log"
	"slices"
	"strings"

	"github.com/etnz/equity/date"
	"github.com/shopspring/decimal"
)

// DefaultTolerance is the relative price band within which same-day sell lots
// are considered the same trade (1%).
const DefaultTolerance = 0.01

// groupKey identifies sell records that may be merged: only same-day records
// of the same order and security type are candidates.
type groupKey struct {
	day          date.Date
	orderType    string
	securityType string
}

// Consolidate merges sell records that represent effectively the same trade
// split across multiple lots. Buy records are never consolidated: vesting
// lots pass through unchanged even when priced identically.
//
// Within a group, bucketing is greedy: the first remaining record's price is
// the pivot, and every remaining record within tolerance of it joins the
// bucket. Which record becomes a pivot depends on input order; bucket
// membership does not. This is a defined, reproducible tie-break.
func Consolidate(records []Record, tolerance float64) ([]Record, Stats) {
	out := make([]Record, 0, len(records))
	var stats Stats
	done := make(map[groupKey]bool)

	for i, r := range records {
		if r.Type == Buy {
			out = append(out, r)
			continue
		}
		k := groupKey{day: r.Date, orderType: r.OrderType, securityType: r.SecurityType}
		if done[k] {
			continue
		}
		done[k] = true

		var group []Record
		for _, s := range records[i:] {
			if s.Type == Sell && s.Date == k.day && s.OrderType == k.orderType && s.SecurityType == k.securityType {
				group = append(group, s)
			}
		}

		merged, gstats := mergeGroup(group, tolerance)
		out = append(out, merged...)
		stats.Merge(gstats)
	}
	return out, stats
}

// mergeGroup applies greedy pivot bucketing to one group of sell records.
func mergeGroup(group []Record, tolerance float64) ([]Record, Stats) {
	var out []Record
	var stats Stats
	tol := decimal.NewFromFloat(tolerance)
	one := decimal.NewFromInt(1)

	for len(group) > 0 {
		pivot := group[0].PriceUSD.Decimal()
		lo := pivot.Mul(one.Sub(tol))
		hi := pivot.Mul(one.Add(tol))

		// The pivot is a member of its own bucket unconditionally. A zero
		// or negative pivot price inverts the band, and the bounds check
		// would otherwise exclude the pivot itself and never drain it.
		bucket := []Record{group[0]}
		var rest []Record
		for _, r := range group[1:] {
			p := r.PriceUSD.Decimal()
			if p.GreaterThanOrEqual(lo) && p.LessThanOrEqual(hi) {
				bucket = append(bucket, r)
			} else {
				rest = append(rest, r)
			}
		}
		group = rest

		if len(bucket) == 1 {
			out = append(out, bucket[0])
			continue
		}
		stats.ConsolidatedRecords += len(bucket)
		stats.ConsolidatedGroups++
		out = append(out, merge(bucket))
	}
	return out, stats
}

// merge combines a multi-member bucket into one weighted-average record.
func merge(bucket []Record) Record {
	rec := Record{
		Type:         Sell,
		Date:         bucket[0].Date,
		OrderType:    bucket[0].OrderType,
		SecurityType: bucket[0].SecurityType,
		Grant:        mergeGrants(bucket),
	}

	var total Quantity
	for _, r := range bucket {
		total = total.Add(r.Quantity)
	}
	rec.Quantity = total

	usd := make([]Money, 0, len(bucket))
	qty := make([]Quantity, 0, len(bucket))
	for _, r := range bucket {
		usd = append(usd, r.PriceUSD)
		qty = append(qty, r.Quantity)
	}
	rec.PriceUSD = weightedAverage(usd, qty)

	// GBP weighted average only over members that carry one.
	var gbp []Money
	var gbpQty []Quantity
	for _, r := range bucket {
		if r.HasGBP {
			gbp = append(gbp, r.PriceGBP)
			gbpQty = append(gbpQty, r.Quantity)
		}
	}
	if len(gbp) > 0 {
		rec.PriceGBP, rec.HasGBP = weightedAverage(gbp, gbpQty), true
		rec.Rate, rec.HasRate = rateMode(bucket), true
	}
	return rec
}

// weightedAverage computes sum(price*qty)/sum(qty) rounded to price
// precision. A zero total quantity would divide by zero: the average is
// defined as 0 in that case and logged as anomalous.
func weightedAverage(prices []Money, quantities []Quantity) Money {
	var sum Money
	var total Quantity
	for i := range prices {
		sum = sum.Add(prices[i].Mul(quantities[i]))
		total = total.Add(quantities[i])
	}
	if total.IsZero() {
		log.Printf("weighted average over zero total quantity, defaulting to 0")
		return M(0, sum.Currency())
	}
	return sum.Div(total).Round(pricePlaces)
}

// rateMode returns the most frequent exchange rate among bucket members that
// have one, ties broken by first occurrence.
func rateMode(bucket []Record) decimal.Decimal {
	counts := make(map[string]int)
	var order []string
	values := make(map[string]decimal.Decimal)
	for _, r := range bucket {
		if !r.HasRate {
			continue
		}
		k := r.Rate.String()
		if counts[k] == 0 {
			order = append(order, k)
			values[k] = r.Rate
		}
		counts[k]++
	}
	best := ""
	for _, k := range order {
		if best == "" || counts[k] > counts[best] {
			best = k
		}
	}
	return values[best]
}

// mergeGrants joins the deduplicated, sorted union of all grant tokens across
// members. Members' grant fields may themselves be hyphen-joined multi-grant
// strings.
func mergeGrants(bucket []Record) string {
	var tokens []string
	for _, r := range bucket {
		for _, g := range strings.Split(r.Grant, "-") {
			if g != "" && !slices.Contains(tokens, g) {
				tokens = append(tokens, g)
			}
		}
	}
	slices.Sort(tokens)
	return strings.Join(tokens, "-")
}
