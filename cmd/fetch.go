package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/equity"
	"github.com/etnz/equity/date"
	"github.com/google/subcommands"
)

type fetchPricesCmd struct {
	symbol string
	start  string
	output string
}

func (*fetchPricesCmd) Name() string     { return "fetch-prices" }
func (*fetchPricesCmd) Synopsis() string { return "download a daily closing price series" }
func (*fetchPricesCmd) Usage() string {
	return `eqr fetch-prices -symbol <symbol> -s <start_date> [-o <file>]

  Downloads the daily closing prices of a stock from the given start date up
  to today, and saves them in the CSV format that reconcile reads.
`
}

func (c *fetchPricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Stock symbol (required, e.g. AAPL)")
	f.StringVar(&c.start, "s", "", "Start date in YYYY-MM-DD format (required)")
	f.StringVar(&c.output, "o", "", "Output file, defaults to <symbol>_stock_prices.csv")
}

func (c *fetchPricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.start == "" {
		fmt.Fprintln(os.Stderr, "Error: -symbol and -s flags are required.")
		return subcommands.ExitUsageError
	}
	from, err := date.Parse(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}

	series, err := equity.FetchDailyClose(c.symbol, date.Range{From: from, To: date.Today()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading stock data: %v\n", err)
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		output = c.symbol + "_stock_prices.csv"
	}
	if err := saveSeries(output, series, "Close_Price"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	r := date.Range{}
	r.From, _ = series.First()
	r.To, _ = series.Latest()
	fmt.Printf("Saved %d trading days (%s to %s) to %s\n", series.Len(), r.From, r.To, output)
	return subcommands.ExitSuccess
}

type fetchFxCmd struct {
	start  string
	output string
}

func (*fetchFxCmd) Name() string     { return "fetch-fx" }
func (*fetchFxCmd) Synopsis() string { return "download the daily USD/GBP exchange rate series" }
func (*fetchFxCmd) Usage() string {
	return `eqr fetch-fx [-s <start_date>] [-o <file>]

  Downloads the daily USD/GBP rate (average of the day's high and low) from
  the given start date up to today. The start date defaults to eight years
  ago, enough to cover typical vesting schedules.
`
}

func (c *fetchFxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date in YYYY-MM-DD format (default: 8 years ago)")
	f.StringVar(&c.output, "o", "gbpusd_rates.csv", "Output file")
}

func (c *fetchFxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from := date.Today().Add(-8 * 365)
	if c.start != "" {
		var err error
		from, err = date.Parse(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	series, err := equity.FetchUSDGBP(date.Range{From: from, To: date.Today()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading forex data: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveSeries(c.output, series, "Average"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Saved %d trading days to %s\n", series.Len(), c.output)
	return subcommands.ExitSuccess
}

type fetchHolidaysCmd struct {
	country string
	from    int
	to      int
	output  string
}

func (*fetchHolidaysCmd) Name() string     { return "fetch-holidays" }
func (*fetchHolidaysCmd) Synopsis() string { return "download the public-holiday calendar" }
func (*fetchHolidaysCmd) Usage() string {
	return `eqr fetch-holidays [-country <code>] [-from <year>] [-to <year>] [-o <file>]

  Downloads public holidays from the nager.at API for an inclusive range of
  years and saves them as JSON. The range defaults to 2017 through next year.
`
}

func (c *fetchHolidaysCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.country, "country", "US", "Two-letter country code")
	f.IntVar(&c.from, "from", 2017, "First year to download")
	f.IntVar(&c.to, "to", time.Now().Year()+1, "Last year to download (inclusive)")
	f.StringVar(&c.output, "o", "us_holidays.json", "Output file")
}

func (c *fetchHolidaysCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	holidays, err := equity.FetchHolidays(c.country, c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading holiday data: %v\n", err)
		if len(holidays) == 0 {
			return subcommands.ExitFailure
		}
		// partial result, keep going
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := equity.ExportHolidays(out, holidays); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing holidays: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Saved %d holidays to %s\n", len(holidays), c.output)
	return subcommands.ExitSuccess
}

// saveSeries writes a fetched series to a CSV file.
func saveSeries(filename string, series *date.History[float64], valueColumn string) error {
	out, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer out.Close()
	if err := equity.ExportSeries(out, series, valueColumn); err != nil {
		return fmt.Errorf("error writing series: %w", err)
	}
	return nil
}
