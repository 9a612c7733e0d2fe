package equity

import (
	"log"
)

// Normalizer converts raw vest/exercise and sale events into canonical
// records, attaching USD/GBP pricing through the resolver.
type Normalizer struct {
	resolver *Resolver
}

// NewNormalizer returns a normalizer using the given resolver.
func NewNormalizer(r *Resolver) *Normalizer { return &Normalizer{resolver: r} }

// Vests converts vesting and exercise events to Buy records.
//
// An event with a known FMV keeps it as the USD price and only picks up the
// exchange rate from the resolver; without one, the resolver supplies the
// full price. Events that end up with no USD price at all are excluded from
// the output and counted, never silently dropped.
func (n *Normalizer) Vests(events []VestEvent) ([]Record, Stats) {
	var out []Record
	var stats Stats
	for _, ev := range events {
		q := n.resolver.Resolve(ev.Date)
		if q.Day != ev.Date {
			log.Printf("grant %s: vest date adjusted %s -> %s", ev.Grant, ev.Date, q.Day)
		}

		rec := Record{
			Type:         Buy,
			Date:         q.Day, // always the resolved business day, never the nominal date
			Quantity:     ev.Quantity,
			OrderType:    ev.OrderType,
			SecurityType: ev.SecurityType,
			Grant:        ev.Grant,
		}
		if rec.OrderType == "" {
			rec.OrderType = OrderVest
		}
		if rec.SecurityType == "" {
			rec.SecurityType = TypeRSU
		}

		if ev.HasFMV {
			rec.PriceUSD = ev.KnownFMV
		} else {
			if !q.HasUSD {
				log.Printf("no price found for vest on %s (grant %s), record excluded", ev.Date, ev.Grant)
				stats.MissingFMV++
				stats.UnmatchedVests++
				continue
			}
			rec.PriceUSD = q.USD
			stats.CalculatedPrices++
		}
		if q.HasRate {
			rec = rec.WithRate(q.Rate)
		}

		n.count(rec, &stats)
		out = append(out, rec)
	}
	return out, stats
}

// Sales converts sale events to Sell records. The USD price is the sale's own
// proceeds per share; only the exchange rate comes from the resolver. The
// record date stays the sale date: sales are transacted on actual trading
// days and are never shifted.
func (n *Normalizer) Sales(events []SaleEvent) ([]Record, Stats) {
	var out []Record
	var stats Stats
	for _, ev := range events {
		rec := Record{
			Type:         Sell,
			Date:         ev.Date,
			Quantity:     ev.Quantity,
			PriceUSD:     ev.ProceedsPerShare,
			OrderType:    ev.OrderType,
			SecurityType: ev.SecurityType,
			Grant:        ev.Grant,
		}

		if q := n.resolver.Resolve(ev.Date); q.HasRate {
			rec = rec.WithRate(q.Rate)
		} else {
			log.Printf("no exchange rate found for sale on %s (grant %s)", ev.Date, ev.Grant)
		}

		n.count(rec, &stats)
		out = append(out, rec)
	}
	return out, stats
}

// count records sign and price anomalies. Anomalous records are still
// emitted: the sign is preserved, not corrected.
func (n *Normalizer) count(rec Record, stats *Stats) {
	if rec.Quantity.IsNegative() {
		log.Printf("negative quantity %s on %s (grant %s)", rec.Quantity, rec.Date, rec.Grant)
		stats.NegativeQuantities++
	}
	if !rec.PriceUSD.IsPositive() {
		log.Printf("zero or negative price %s on %s (grant %s)", rec.PriceUSD.PlainString(), rec.Date, rec.Grant)
		stats.ZeroOrNegativePrices++
	}
}
