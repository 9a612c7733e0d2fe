// Package cmd implements the CLI application to reconcile equity-compensation
// events into a transaction ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity"
	"github.com/etnz/equity/date"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fetchPricesCmd{}, "market data")
	c.Register(&fetchFxCmd{}, "market data")
	c.Register(&fetchHolidaysCmd{}, "market data")

	c.Register(&reconcileCmd{}, "ledger")
	c.Register(&exerciseCmd{}, "ledger")

	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var pricesFile = flag.String("prices-file", "stock_prices.csv", "Path to the stock price series (CSV, Date/Close_Price)")
var ratesFile = flag.String("rates-file", "gbpusd_rates.csv", "Path to the USD/GBP rate series (CSV, Date/Average)")
var holidaysFile = flag.String("holidays-file", "us_holidays.json", "Path to the holiday calendar (JSON)")

// LoadPriceIndex reads the price and rate series from the app files.
func LoadPriceIndex() (*equity.PriceIndex, error) {
	index := equity.NewPriceIndex()

	f, err := os.Open(*pricesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open price series %q: %w", *pricesFile, err)
	}
	defer f.Close()
	if err := equity.ImportPrices(f, index); err != nil {
		return nil, err
	}

	g, err := os.Open(*ratesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open rate series %q: %w", *ratesFile, err)
	}
	defer g.Close()
	if err := equity.ImportRates(g, index); err != nil {
		return nil, err
	}
	return index, nil
}

// LoadCalendar reads the holiday calendar from the app file.
func LoadCalendar() (*date.Calendar, error) {
	f, err := os.Open(*holidaysFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open holiday calendar %q: %w", *holidaysFile, err)
	}
	defer f.Close()
	return equity.ImportHolidays(f)
}
