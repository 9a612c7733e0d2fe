package equity

import (
	"testing"

	"github.com/etnz/equity/date"
	"github.com/shopspring/decimal"
)

// sell is a terse constructor for consolidation tests.
func sell(day date.Date, qty float64, price float64, grant string) Record {
	return Record{
		Type:         Sell,
		Date:         day,
		Quantity:     Q(qty),
		PriceUSD:     USD(price),
		OrderType:    OrderVest,
		SecurityType: TypeRSU,
		Grant:        grant,
	}
}

func TestConsolidateMergesCloseLots(t *testing.T) {
	day := date.New(2024, 1, 16)
	records, stats := Consolidate([]Record{
		sell(day, 100, 10.00, "N1"),
		sell(day, 50, 10.05, "N1"),
	}, DefaultTolerance)

	if len(records) != 1 {
		t.Fatalf("Consolidate() returned %d records, want 1", len(records))
	}
	rec := records[0]
	if !rec.Quantity.Equal(Q(150)) {
		t.Errorf("merged quantity = %s, want 150", rec.Quantity)
	}
	// (10.00*100 + 10.05*50) / 150 = 10.016666..., rounded to 10.016667.
	if want := USD(10.016667); !rec.PriceUSD.Equal(want) {
		t.Errorf("merged price = %s, want %s", rec.PriceUSD.PlainString(), want.PlainString())
	}
	if stats.ConsolidatedRecords != 2 || stats.ConsolidatedGroups != 1 {
		t.Errorf("stats = %+v, want 2 consolidated records in 1 group", stats)
	}
}

func TestConsolidateKeepsDistantLots(t *testing.T) {
	day := date.New(2024, 1, 16)
	records, stats := Consolidate([]Record{
		sell(day, 100, 10.00, "N1"),
		sell(day, 50, 11.00, "N1"),
	}, DefaultTolerance)

	if len(records) != 2 {
		t.Fatalf("Consolidate() returned %d records, want 2", len(records))
	}
	if stats.ConsolidatedGroups != 0 {
		t.Errorf("stats.ConsolidatedGroups = %d, want 0", stats.ConsolidatedGroups)
	}
}

func TestConsolidateScope(t *testing.T) {
	day := date.New(2024, 1, 16)
	next := date.New(2024, 1, 17)

	buy := Record{
		Type: Buy, Date: day, Quantity: Q(10), PriceUSD: USD(10.00),
		OrderType: OrderVest, SecurityType: TypeRSU, Grant: "N1",
	}

	tests := []struct {
		name  string
		input []Record
		want  int
	}{
		{
			name:  "identical buys are never merged",
			input: []Record{buy, buy},
			want:  2,
		},
		{
			name: "different days are never merged",
			input: []Record{
				sell(day, 100, 10.00, "N1"),
				sell(next, 50, 10.00, "N1"),
			},
			want: 2,
		},
		{
			name: "different order types are never merged",
			input: []Record{
				sell(day, 100, 10.00, "N1"),
				func() Record {
					r := sell(day, 50, 10.00, "N1")
					r.OrderType = OrderExercise
					return r
				}(),
			},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _ := Consolidate(tt.input, DefaultTolerance)
			if len(records) != tt.want {
				t.Errorf("Consolidate() returned %d records, want %d", len(records), tt.want)
			}
		})
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	day := date.New(2024, 1, 16)
	once, _ := Consolidate([]Record{
		sell(day, 100, 10.00, "N1"),
		sell(day, 50, 10.05, "N2"),
		sell(day, 50, 11.00, "N3"),
	}, DefaultTolerance)
	twice, _ := Consolidate(once, DefaultTolerance)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed the record count: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].PriceUSD.Equal(twice[i].PriceUSD) || !once[i].Quantity.Equal(twice[i].Quantity) {
			t.Errorf("second pass changed record %d: %s then %s", i, once[i], twice[i])
		}
	}
}

func TestMergeGrants(t *testing.T) {
	day := date.New(2024, 1, 16)
	records, _ := Consolidate([]Record{
		sell(day, 100, 10.00, "A1-A2"),
		sell(day, 50, 10.05, "A2-A3"),
	}, DefaultTolerance)

	if len(records) != 1 {
		t.Fatalf("Consolidate() returned %d records, want 1", len(records))
	}
	if records[0].Grant != "A1-A2-A3" {
		t.Errorf("merged grant = %q, want %q", records[0].Grant, "A1-A2-A3")
	}
}

func TestMergeRateMode(t *testing.T) {
	day := date.New(2024, 1, 16)
	r127 := decimal.NewFromFloat(1.27)
	r125 := decimal.NewFromFloat(1.25)

	records, _ := Consolidate([]Record{
		sell(day, 100, 10.00, "N1").WithRate(r127),
		sell(day, 50, 10.05, "N1").WithRate(r125),
		sell(day, 50, 10.02, "N1").WithRate(r127),
	}, DefaultTolerance)

	if len(records) != 1 {
		t.Fatalf("Consolidate() returned %d records, want 1", len(records))
	}
	rec := records[0]
	if !rec.HasRate || !rec.Rate.Equal(r127) {
		t.Errorf("merged rate = %s, want the most frequent 1.27", rec.Rate)
	}
}

func TestMergeRateModeTie(t *testing.T) {
	day := date.New(2024, 1, 16)
	r127 := decimal.NewFromFloat(1.27)
	r125 := decimal.NewFromFloat(1.25)

	// On a tie the first encountered rate wins.
	records, _ := Consolidate([]Record{
		sell(day, 100, 10.00, "N1").WithRate(r125),
		sell(day, 50, 10.05, "N1").WithRate(r127),
	}, DefaultTolerance)

	if len(records) != 1 {
		t.Fatalf("Consolidate() returned %d records, want 1", len(records))
	}
	if !records[0].Rate.Equal(r125) {
		t.Errorf("merged rate = %s, want the first encountered 1.25", records[0].Rate)
	}
}

func TestMergePartialGBP(t *testing.T) {
	day := date.New(2024, 1, 16)
	r125 := decimal.NewFromFloat(1.25)

	// Only one member carries a GBP price: the merged GBP average covers
	// that member alone, while the USD average covers both.
	records, _ := Consolidate([]Record{
		sell(day, 100, 10.00, "N1").WithRate(r125),
		sell(day, 100, 10.10, "N1"),
	}, DefaultTolerance)

	if len(records) != 1 {
		t.Fatalf("Consolidate() returned %d records, want 1", len(records))
	}
	rec := records[0]
	if want := USD(10.05); !rec.PriceUSD.Equal(want) {
		t.Errorf("merged USD price = %s, want %s", rec.PriceUSD.PlainString(), want.PlainString())
	}
	if !rec.HasGBP {
		t.Fatal("merged record has no GBP price")
	}
	// 10.00 / 1.25 = 8 GBP, the only GBP member.
	if want := GBP(8); !rec.PriceGBP.Equal(want) {
		t.Errorf("merged GBP price = %s, want %s", rec.PriceGBP.PlainString(), want.PlainString())
	}
}

func TestConsolidateAnomalousPrices(t *testing.T) {
	// The normalizer deliberately emits records with zero or negative
	// prices. Such a pivot has an empty or inverted tolerance band, it
	// must still pass through rather than crash the run.
	day := date.New(2024, 1, 16)

	tests := []struct {
		name  string
		input []Record
		want  int
	}{
		{
			name:  "lone negative price passes through",
			input: []Record{sell(day, 10, -5.00, "N1")},
			want:  1,
		},
		{
			name:  "lone zero price passes through",
			input: []Record{sell(day, 10, 0, "N1")},
			want:  1,
		},
		{
			name: "negative price never absorbs a normal lot",
			input: []Record{
				sell(day, 10, -5.00, "N1"),
				sell(day, 100, 10.00, "N2"),
			},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, stats := Consolidate(tt.input, DefaultTolerance)
			if len(records) != tt.want {
				t.Fatalf("Consolidate() returned %d records, want %d", len(records), tt.want)
			}
			if !records[0].PriceUSD.Equal(tt.input[0].PriceUSD) {
				t.Errorf("record price = %s, want %s unchanged", records[0].PriceUSD.PlainString(), tt.input[0].PriceUSD.PlainString())
			}
			if stats.ConsolidatedGroups != 0 {
				t.Errorf("stats.ConsolidatedGroups = %d, want 0", stats.ConsolidatedGroups)
			}
		})
	}
}

func TestWeightedAverageZeroTotal(t *testing.T) {
	got := weightedAverage([]Money{USD(10), USD(12)}, []Quantity{Q(5), Q(-5)})
	if !got.IsZero() {
		t.Errorf("weightedAverage() over zero total = %s, want 0", got.PlainString())
	}
}
