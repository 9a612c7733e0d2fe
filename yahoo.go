package equity

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/equity/date"
)

// this file fetches daily price series from the Yahoo Finance chart API. The
// engine itself never fetches anything: these helpers materialize the static
// tables that the engine later imports.

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d"

// FetchDailyClose retrieves the daily closing prices for a stock symbol over
// the given range.
func FetchDailyClose(symbol string, rng date.Range) (*date.History[float64], error) {
	jobj, err := fetchChart(symbol, rng)
	if err != nil {
		return nil, err
	}
	days, err := chartDays(jobj, symbol)
	if err != nil {
		return nil, err
	}
	closes, err := chartSeries(jobj, symbol, "close")
	if err != nil {
		return nil, err
	}

	h := new(date.History[float64])
	for i, day := range days {
		if i >= len(closes) || math.IsNaN(closes[i]) {
			continue
		}
		h.Append(day, round6(closes[i]))
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("no data returned for %q between %s and %s", symbol, rng.From, rng.To)
	}
	return h, nil
}

// FetchUSDGBP retrieves the daily USD/GBP rate over the given range, as the
// average of the day's high and low of the GBPUSD=X pair.
func FetchUSDGBP(rng date.Range) (*date.History[float64], error) {
	const pair = "GBPUSD=X"
	jobj, err := fetchChart(pair, rng)
	if err != nil {
		return nil, err
	}
	days, err := chartDays(jobj, pair)
	if err != nil {
		return nil, err
	}
	highs, err := chartSeries(jobj, pair, "high")
	if err != nil {
		return nil, err
	}
	lows, err := chartSeries(jobj, pair, "low")
	if err != nil {
		return nil, err
	}

	h := new(date.History[float64])
	for i, day := range days {
		if i >= len(highs) || i >= len(lows) || math.IsNaN(highs[i]) || math.IsNaN(lows[i]) {
			continue
		}
		h.Append(day, round6((highs[i]+lows[i])/2))
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("no data returned for %q between %s and %s", pair, rng.From, rng.To)
	}
	return h, nil
}

func fetchChart(symbol string, rng date.Range) (any, error) {
	from := time.Date(rng.From.Year(), rng.From.Month(), rng.From.Day(), 0, 0, 0, 0, time.UTC)
	// one extra day so the end of the range is included
	to := time.Date(rng.To.Year(), rng.To.Month(), rng.To.Day()+1, 0, 0, 0, 0, time.UTC)

	addr := fmt.Sprintf(yahooChartURL, symbol, from.Unix(), to.Unix())
	var jobj any
	if err := jwget(daily(), addr, &jobj); err != nil {
		return nil, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	return jobj, nil
}

// chartDays extracts the timestamp axis of a chart response as dates.
func chartDays(jobj any, symbol string) ([]date.Date, error) {
	path := "$.chart.result[0].timestamp"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %q %w", symbol, path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: %q is not a list", symbol, path)
	}
	days := make([]date.Date, 0, len(jlist))
	for _, jts := range jlist {
		ts, ok := jts.(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing %q: timestamp %v is not a number", symbol, jts)
		}
		days = append(days, date.New(time.Unix(int64(ts), 0).UTC().Date()))
	}
	return days, nil
}

// chartSeries extracts one of the quote series (close, high, low) of a chart
// response. Days without a quote come back as NaN.
func chartSeries(jobj any, symbol, name string) ([]float64, error) {
	path := fmt.Sprintf("$.chart.result[0].indicators.quote[0].%s", name)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %q %w", symbol, path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: %q is not a list", symbol, path)
	}
	values := make([]float64, 0, len(jlist))
	for _, jv := range jlist {
		v, ok := jv.(float64)
		if !ok {
			// the API returns null for days without a quote
			v = math.NaN()
		}
		values = append(values, v)
	}
	return values, nil
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// ExportSeries writes a fetched series in the CSV format that ImportPrices
// and ImportRates read back.
func ExportSeries(w io.Writer, h *date.History[float64], valueColumn string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", valueColumn}); err != nil {
		return err
	}
	for day, v := range h.Values() {
		if err := cw.Write([]string{day.String(), strconv.FormatFloat(v, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
