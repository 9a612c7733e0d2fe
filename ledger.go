package equity

import (
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/equity/date"
)

// Ledger is the final chronological sequence of canonical records, together
// with the validation statistics accumulated while producing it.
//
// In a Ledger records are always in chronological order.
type Ledger struct {
	records []Record
	stats   Stats
}

// Reconcile runs the full engine: it normalizes vest/exercise and sale events
// into canonical records, consolidates near-duplicate same-day sell lots, and
// assembles the chronological ledger.
//
// The sort is stable: same-day records keep their relative order, buys from
// vests first, then consolidated sells, each in input order.
func Reconcile(cal *date.Calendar, index *PriceIndex, vests []VestEvent, sales []SaleEvent, tolerance float64) (*Ledger, error) {
	resolver, err := NewResolver(cal, index)
	if err != nil {
		return nil, fmt.Errorf("cannot reconcile: %w", err)
	}
	normalizer := NewNormalizer(resolver)

	buys, stats := normalizer.Vests(vests)
	sells, sstats := normalizer.Sales(sales)
	stats.Merge(sstats)

	all := make([]Record, 0, len(buys)+len(sells))
	all = append(all, buys...)
	all = append(all, sells...)

	records, cstats := Consolidate(all, tolerance)
	stats.Merge(cstats)

	slices.SortStableFunc(records, func(a, b Record) int { return a.Date.Compare(b.Date) })

	return &Ledger{records: records, stats: stats}, nil
}

// Len returns the number of records in the ledger.
func (l *Ledger) Len() int { return len(l.records) }

// Records returns an iterator over the records in chronological order.
func (l *Ledger) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range l.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Stats returns the validation statistics snapshot for the run.
func (l *Ledger) Stats() Stats { return l.stats }
