package equity

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/etnz/equity/date"
)

// chartJSON is a trimmed-down Yahoo chart response: three trading days, the
// middle one with a null close.
const chartJSON = `{
  "chart": {
    "result": [
      {
        "timestamp": [1705017600, 1705363200, 1705449600],
        "indicators": {
          "quote": [
            {
              "close": [186.0, null, 188.0],
              "high": [186.5, null, 188.5],
              "low": [185.5, null, 187.5]
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

func parseChart(t *testing.T) any {
	t.Helper()
	var jobj any
	if err := json.Unmarshal([]byte(chartJSON), &jobj); err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	return jobj
}

func TestChartDays(t *testing.T) {
	days, err := chartDays(parseChart(t), "TEST")
	if err != nil {
		t.Fatalf("chartDays() error = %v", err)
	}
	want := []date.Date{
		date.New(2024, 1, 12),
		date.New(2024, 1, 16),
		date.New(2024, 1, 17),
	}
	if len(days) != len(want) {
		t.Fatalf("chartDays() returned %d days, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %s, want %s", i, days[i], want[i])
		}
	}
}

func TestChartSeries(t *testing.T) {
	closes, err := chartSeries(parseChart(t), "TEST", "close")
	if err != nil {
		t.Fatalf("chartSeries() error = %v", err)
	}
	if len(closes) != 3 {
		t.Fatalf("chartSeries() returned %d values, want 3", len(closes))
	}
	if closes[0] != 186.0 || closes[2] != 188.0 {
		t.Errorf("closes = %v, want 186 and 188 around the gap", closes)
	}
	// null comes back as NaN so the caller can skip the day.
	if !math.IsNaN(closes[1]) {
		t.Errorf("closes[1] = %v, want NaN", closes[1])
	}
}

func TestChartSeriesMissing(t *testing.T) {
	if _, err := chartSeries(parseChart(t), "TEST", "volume"); err == nil {
		t.Error("chartSeries() for an absent series: want error, got nil")
	}
}

func TestExportSeriesRoundTrip(t *testing.T) {
	h := new(date.History[float64])
	h.Append(date.New(2024, 1, 12), 186.0)
	h.Append(date.New(2024, 1, 16), 188.25)

	var buf bytes.Buffer
	if err := ExportSeries(&buf, h, "Close_Price"); err != nil {
		t.Fatalf("ExportSeries() error = %v", err)
	}

	want := "Date,Close_Price\n2024-01-12,186\n2024-01-16,188.25\n"
	if buf.String() != want {
		t.Errorf("ExportSeries() = %q, want %q", buf.String(), want)
	}

	index := NewPriceIndex()
	if err := ImportPrices(strings.NewReader(buf.String()), index); err != nil {
		t.Fatalf("ImportPrices() error = %v", err)
	}
	if v, ok := index.USD(date.New(2024, 1, 16)); !ok || v != 188.25 {
		t.Errorf("USD(2024-01-16) = %v,%t, want 188.25,true", v, ok)
	}
}
