package equity

import (
	"fmt"

	"github.com/etnz/equity/date"
	"github.com/shopspring/decimal"
)

// RecordType identifies the side of a canonical transaction record.
type RecordType string

const (
	Buy  RecordType = "Buy"
	Sell RecordType = "Sell"
)

// Order types and security types as they appear in broker exports.
const (
	OrderVest     = "Vest"
	OrderExercise = "Exercise"

	TypeRSU = "Restricted Stock Unit"
	TypeNSO = "Non-Qualified Stock Option"
)

// Record is a canonical buy or sell transaction, priced in USD and, when an
// exchange rate could be resolved, in GBP.
//
// Records are immutable once created: the consolidator replaces merged
// records with new ones rather than mutating members in place.
type Record struct {
	Type     RecordType
	Date     date.Date // always a resolved business day for buys
	Quantity Quantity
	PriceUSD Money

	// Optional pricing tier: present only when an exchange rate was
	// resolved for the record's day.
	PriceGBP Money
	Rate     decimal.Decimal
	HasGBP   bool
	HasRate  bool

	OrderType    string
	SecurityType string
	Grant        string
}

// WithRate returns a copy of the record carrying the GBP conversion.
func (r Record) WithRate(rate decimal.Decimal) Record {
	r.Rate, r.HasRate = rate, true
	r.PriceGBP, r.HasGBP = r.PriceUSD.Convert(rate, "GBP"), true
	return r
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s x %s (%s)", r.Type, r.Date, r.Quantity, r.PriceUSD, r.Grant)
}

// VestEvent is one vesting or option-exercise lot, dated by its nominal vest
// date which may fall on a weekend or holiday.
type VestEvent struct {
	Grant    string
	Date     date.Date
	Quantity Quantity

	// OrderType and SecurityType default to Vest / Restricted Stock Unit;
	// option exercises carry Exercise / Non-Qualified Stock Option.
	OrderType    string
	SecurityType string

	// KnownFMV is the fair-market value reported by the broker for this
	// lot, when available. HasFMV distinguishes an absent FMV from a zero
	// one.
	KnownFMV Money
	HasFMV   bool
}

// SaleEvent is one open-market sale lot. Its date is an actual trading day
// already (sales are transacted, not nominal) so it is never shifted.
type SaleEvent struct {
	Grant            string
	Date             date.Date
	Quantity         Quantity
	ProceedsPerShare Money
	OrderType        string
	SecurityType     string
}
