package equity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/etnz/equity/date"
)

// Holiday is one public holiday as served by the date.nager.at API. The
// fetcher keeps entries unfiltered; ImportHolidays applies the
// global-or-not-Optional policy when the calendar is built.
type Holiday struct {
	Date   date.Date `json:"date"`
	Name   string    `json:"name"`
	Global bool      `json:"global"`
	Types  []string  `json:"types"`
}

const nagerURL = "https://date.nager.at/api/v3/PublicHolidays/%d/%s"

// FetchHolidays retrieves the public holidays of a country for a range of
// years (inclusive). Years that fail to download do not abort the whole
// fetch; their errors are joined and reported together.
func FetchHolidays(country string, fromYear, toYear int) ([]Holiday, error) {
	var holidays []Holiday
	var errs error
	client := daily()

	for year := fromYear; year <= toYear; year++ {
		var page []Holiday
		addr := fmt.Sprintf(nagerURL, year, country)
		if err := jwget(client, addr, &page); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to get holidays for %s %d: %w", country, year, err))
			continue
		}
		holidays = append(holidays, page...)
	}

	slices.SortFunc(holidays, func(a, b Holiday) int { return a.Date.Compare(b.Date) })
	return holidays, errs
}

// ExportHolidays writes holidays in the JSON format that ImportHolidays
// reads back.
func ExportHolidays(w io.Writer, holidays []Holiday) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(holidays)
}
