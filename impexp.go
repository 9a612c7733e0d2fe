package equity

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"time"

	"github.com/etnz/equity/date"
)

// this file contains functions to handle the import/export formats: the
// fetched price/rate/holiday tables and the broker exports on the way in, the
// consolidated ledger CSV on the way out.

// ledgerColumns is the fixed column order of the exported ledger.
var ledgerColumns = []string{
	"Record Type",
	"Date",
	"Qty.",
	"Price Per Share",
	"Price Per Share GBP",
	"Exchange Rate",
	"Order Type",
	"Type",
	"Grant Number",
}

// parseEventDate reads a date as either ISO (2024-01-13) or US broker format
// (1/13/2024).
func parseEventDate(s string) (date.Date, error) {
	if d, err := date.Parse(s); err == nil {
		return d, nil
	}
	on, err := time.Parse("1/2/2006", s)
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid date %q: want %q or %q", s, date.DateFormat, "1/2/2006")
	}
	return date.New(on.Date()), nil
}

// header gives column positions by name and validates required columns.
type header map[string]int

func newHeader(row []string, required []string, context string) (header, error) {
	h := make(header, len(row))
	for i, name := range row {
		h[name] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := h[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns in %s: %v", context, missing)
	}
	return h, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ImportPrices reads a USD closing price series in CSV format with columns
// "Date,Close_Price" into the index.
func ImportPrices(r io.Reader, index *PriceIndex) error {
	return importSeries(r, "Close_Price", "price series", index.AppendUSD)
}

// ImportRates reads a USD/GBP rate series in CSV format with columns
// "Date,Average" into the index.
func ImportRates(r io.Reader, index *PriceIndex) error {
	return importSeries(r, "Average", "rate series", index.AppendRate)
}

func importSeries(r io.Reader, valueColumn, context string, append func(date.Date, float64)) error {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", context, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s is empty", context)
	}
	h, err := newHeader(rows[0], []string{"Date", valueColumn}, context)
	if err != nil {
		return err
	}
	for _, row := range rows[1:] {
		on, err := date.Parse(h.get(row, "Date"))
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", context, err)
		}
		v, err := strconv.ParseFloat(h.get(row, valueColumn), 64)
		if err != nil {
			return fmt.Errorf("cannot read %s on %s: %w", context, on, err)
		}
		append(on, v)
	}
	return nil
}

// ImportHolidays reads a holiday calendar from the JSON format produced by
// the nager.at API: a list of objects with "date", "global" and "types"
// fields. A holiday is kept only when it is global or not tagged "Optional".
func ImportHolidays(r io.Reader) (*date.Calendar, error) {
	type jholiday struct {
		Date   date.Date `json:"date"`
		Name   string    `json:"name"`
		Global bool      `json:"global"`
		Types  []string  `json:"types"`
	}
	var jholidays []jholiday
	if err := json.NewDecoder(r).Decode(&jholidays); err != nil {
		return nil, fmt.Errorf("cannot parse holiday calendar: %w", err)
	}

	var days []date.Date
	for _, jh := range jholidays {
		if jh.Global || !slices.Contains(jh.Types, "Optional") {
			days = append(days, jh.Date)
		}
	}
	return date.NewCalendar(days...), nil
}

// FMVTable maps (grant, vest date) to the fair-market value reported in the
// gains/losses export. Vest events pick up a known FMV from it when they
// match.
type FMVTable map[fmvKey]Money

type fmvKey struct {
	grant string
	day   date.Date
}

// Get returns the known FMV for a grant and vest date.
func (t FMVTable) Get(grant string, day date.Date) (Money, bool) {
	fmv, ok := t[fmvKey{grant: grant, day: day}]
	return fmv, ok
}

// ImportGains reads the broker gains/losses CSV export. It returns the sale
// events and the FMV table derived from the export's vest-date columns.
// Conflicting FMV values for the same grant and vest date are logged; the
// first one wins.
func ImportGains(r io.Reader) ([]SaleEvent, FMVTable, error) {
	required := []string{
		"Record Type", "Date Sold", "Qty.", "Proceeds Per Share",
		"Vest Date", "Vest Date FMV", "Grant Number", "Order Type", "Type",
	}
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read gains/losses file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("gains/losses file is empty")
	}
	h, err := newHeader(rows[0], required, "gains/losses file")
	if err != nil {
		return nil, nil, err
	}

	var sales []SaleEvent
	fmv := make(FMVTable)
	for _, row := range rows[1:] {
		grant := h.get(row, "Grant Number")

		sold, err := parseEventDate(h.get(row, "Date Sold"))
		if err != nil {
			return nil, nil, fmt.Errorf("gains/losses file, grant %s: %w", grant, err)
		}
		qty, err := strconv.ParseFloat(h.get(row, "Qty."), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("gains/losses file, grant %s: invalid quantity: %w", grant, err)
		}
		proceeds, err := strconv.ParseFloat(h.get(row, "Proceeds Per Share"), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("gains/losses file, grant %s: invalid proceeds: %w", grant, err)
		}

		sales = append(sales, SaleEvent{
			Grant:            grant,
			Date:             sold,
			Quantity:         Q(qty),
			ProceedsPerShare: M(proceeds, "USD"),
			OrderType:        h.get(row, "Order Type"),
			SecurityType:     h.get(row, "Type"),
		})

		// Derive the FMV table from the vest-date columns of the same rows.
		if s := h.get(row, "Vest Date FMV"); s != "" {
			day, err := parseEventDate(h.get(row, "Vest Date"))
			if err != nil {
				return nil, nil, fmt.Errorf("gains/losses file, grant %s: %w", grant, err)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("gains/losses file, grant %s: invalid FMV: %w", grant, err)
			}
			k := fmvKey{grant: grant, day: day}
			if prev, ok := fmv[k]; ok && !prev.Equal(M(v, "USD")) {
				log.Printf("multiple FMV values for grant %s vest %s: keeping %s, ignoring %v", grant, day, prev.PlainString(), v)
				continue
			}
			fmv[k] = M(v, "USD")
		}
	}
	return sales, fmv, nil
}

// ImportBenefits reads the broker benefits CSV export and returns the vest
// events: the "Shares released" rows, with a known FMV filled in when the
// table has a matching grant and date.
func ImportBenefits(r io.Reader, fmv FMVTable) ([]VestEvent, error) {
	required := []string{"Grant Number", "Date", "Event Type", "Qty. or Amount"}
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read benefits file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("benefits file is empty")
	}
	h, err := newHeader(rows[0], required, "benefits file")
	if err != nil {
		return nil, err
	}

	var vests []VestEvent
	for _, row := range rows[1:] {
		if h.get(row, "Event Type") != "Shares released" {
			continue
		}
		grant := h.get(row, "Grant Number")
		day, err := parseEventDate(h.get(row, "Date"))
		if err != nil {
			return nil, fmt.Errorf("benefits file, grant %s: %w", grant, err)
		}
		qty, err := strconv.ParseFloat(h.get(row, "Qty. or Amount"), 64)
		if err != nil {
			return nil, fmt.Errorf("benefits file, grant %s: invalid quantity: %w", grant, err)
		}

		ev := VestEvent{Grant: grant, Date: day, Quantity: Q(qty)}
		if known, ok := fmv.Get(grant, day); ok {
			ev.KnownFMV, ev.HasFMV = known, true
		}
		vests = append(vests, ev)
	}
	if len(vests) == 0 {
		log.Printf("no 'Shares released' events found in benefits file")
	}
	return vests, nil
}

// ExportLedger writes the ledger in CSV format with the fixed column order.
func ExportLedger(w io.Writer, ledger *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerColumns); err != nil {
		return err
	}
	for rec := range ledger.Records() {
		gbp, rate := "", ""
		if rec.HasGBP {
			gbp = rec.PriceGBP.PlainString()
		}
		if rec.HasRate {
			rate = rec.Rate.String()
		}
		row := []string{
			string(rec.Type),
			rec.Date.String(),
			rec.Quantity.String(),
			rec.PriceUSD.PlainString(),
			gbp,
			rate,
			rec.OrderType,
			rec.SecurityType,
			rec.Grant,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
