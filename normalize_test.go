package equity

import (
	"testing"

	"github.com/etnz/equity/date"
)

func TestVestsKnownFMV(t *testing.T) {
	n := NewNormalizer(testResolver(t))

	// Vest on the weekend with a broker-reported FMV: the date moves to the
	// next business day but the FMV is kept over the market close.
	records, stats := n.Vests([]VestEvent{{
		Grant:    "N1",
		Date:     date.New(2024, 1, 13),
		Quantity: Q(100),
		KnownFMV: USD(187.5),
		HasFMV:   true,
	}})
	if len(records) != 1 {
		t.Fatalf("Vests() returned %d records, want 1", len(records))
	}
	rec := records[0]
	if want := date.New(2024, 1, 16); rec.Date != want {
		t.Errorf("record date = %s, want %s", rec.Date, want)
	}
	if !rec.PriceUSD.Equal(USD(187.5)) {
		t.Errorf("record price = %s, want the known FMV 187.5", rec.PriceUSD.PlainString())
	}
	if !rec.HasGBP {
		t.Error("record has no GBP price, the rate of the resolved day should apply")
	}
	if rec.OrderType != OrderVest || rec.SecurityType != TypeRSU {
		t.Errorf("record typing = %q/%q, want defaults %q/%q", rec.OrderType, rec.SecurityType, OrderVest, TypeRSU)
	}
	if stats.CalculatedPrices != 0 {
		t.Errorf("stats.CalculatedPrices = %d, want 0 for a known FMV", stats.CalculatedPrices)
	}
}

func TestVestsCalculatedPrice(t *testing.T) {
	n := NewNormalizer(testResolver(t))

	records, stats := n.Vests([]VestEvent{{
		Grant:    "N1",
		Date:     date.New(2024, 1, 12),
		Quantity: Q(10),
	}})
	if len(records) != 1 {
		t.Fatalf("Vests() returned %d records, want 1", len(records))
	}
	if !records[0].PriceUSD.Equal(USD(186.0)) {
		t.Errorf("record price = %s, want the market close 186", records[0].PriceUSD.PlainString())
	}
	if stats.CalculatedPrices != 1 {
		t.Errorf("stats.CalculatedPrices = %d, want 1", stats.CalculatedPrices)
	}
}

func TestVestsUnresolvable(t *testing.T) {
	n := NewNormalizer(testResolver(t))

	// No FMV and no price for the resolved day: the vest is excluded and
	// counted on both counters.
	records, stats := n.Vests([]VestEvent{{
		Grant:    "N2",
		Date:     date.New(2024, 2, 1),
		Quantity: Q(10),
	}})
	if len(records) != 0 {
		t.Fatalf("Vests() returned %d records, want 0", len(records))
	}
	if stats.MissingFMV != 1 || stats.UnmatchedVests != 1 {
		t.Errorf("stats = %+v, want MissingFMV=1 and UnmatchedVests=1", stats)
	}
}

func TestSalesKeepTheirDate(t *testing.T) {
	n := NewNormalizer(testResolver(t))

	// A sale dated on a day with no rate keeps its date and its USD price,
	// with the GBP columns absent.
	records, _ := n.Sales([]SaleEvent{{
		Grant:            "N1",
		Date:             date.New(2024, 1, 17),
		Quantity:         Q(25),
		ProceedsPerShare: USD(190.0),
		OrderType:        OrderVest,
		SecurityType:     TypeRSU,
	}})
	if len(records) != 1 {
		t.Fatalf("Sales() returned %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Type != Sell {
		t.Errorf("record type = %q, want %q", rec.Type, Sell)
	}
	if want := date.New(2024, 1, 17); rec.Date != want {
		t.Errorf("record date = %s, want the unshifted sale date %s", rec.Date, want)
	}
	if !rec.PriceUSD.Equal(USD(190.0)) {
		t.Errorf("record price = %s, want the proceeds 190", rec.PriceUSD.PlainString())
	}
	if rec.HasGBP || rec.HasRate {
		t.Error("record carries a GBP tier, want none for a day with no rate")
	}
}

func TestSalesRate(t *testing.T) {
	n := NewNormalizer(testResolver(t))

	records, _ := n.Sales([]SaleEvent{{
		Grant:            "N1",
		Date:             date.New(2024, 1, 16),
		Quantity:         Q(25),
		ProceedsPerShare: USD(190.0),
	}})
	if len(records) != 1 {
		t.Fatalf("Sales() returned %d records, want 1", len(records))
	}
	rec := records[0]
	if !rec.HasGBP {
		t.Fatal("record has no GBP price")
	}
	// 190 USD at 1.25 is exactly 152 GBP.
	if !rec.PriceGBP.Equal(GBP(152.0)) {
		t.Errorf("record GBP price = %s, want 152", rec.PriceGBP.PlainString())
	}
}

func TestAnomalyCounters(t *testing.T) {
	n := NewNormalizer(testResolver(t))

	records, stats := n.Sales([]SaleEvent{
		{Grant: "N1", Date: date.New(2024, 1, 16), Quantity: Q(-5), ProceedsPerShare: USD(190.0)},
		{Grant: "N1", Date: date.New(2024, 1, 16), Quantity: Q(5), ProceedsPerShare: USD(0)},
	})
	// Anomalous records are counted but still emitted, sign preserved.
	if len(records) != 2 {
		t.Fatalf("Sales() returned %d records, want 2", len(records))
	}
	if !records[0].Quantity.IsNegative() {
		t.Error("negative quantity was not preserved")
	}
	if stats.NegativeQuantities != 1 {
		t.Errorf("stats.NegativeQuantities = %d, want 1", stats.NegativeQuantities)
	}
	if stats.ZeroOrNegativePrices != 1 {
		t.Errorf("stats.ZeroOrNegativePrices = %d, want 1", stats.ZeroOrNegativePrices)
	}
}
