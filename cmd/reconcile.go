package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity"
	"github.com/google/subcommands"
)

type reconcileCmd struct {
	gainsFile    string
	benefitsFile string
	outputFile   string
	tolerance    float64
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "reconcile vesting, exercise and sale events into a consolidated transaction ledger"
}
func (*reconcileCmd) Usage() string {
	return `eqr reconcile -gains <file> -benefits <file> [-o <file>] [-tolerance <pct>]

  Reads the broker gains/losses and benefits exports, resolves USD and GBP
  prices for every event against the fetched price, rate and holiday tables,
  merges same-day sell lots with similar prices, and writes the consolidated
  ledger in CSV format. A validation report is printed at the end.

Usage Examples:
# Reconcile with the default data files in the current directory.
$ eqr reconcile -gains gainloss.csv -benefits benefit.csv -o consolidated.csv

`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.gainsFile, "gains", "gainloss.csv", "Broker gains/losses export (CSV)")
	f.StringVar(&c.benefitsFile, "benefits", "benefit.csv", "Broker benefits export (CSV)")
	f.StringVar(&c.outputFile, "o", "consolidated_transactions.csv", "Output ledger file (CSV)")
	f.Float64Var(&c.tolerance, "tolerance", equity.DefaultTolerance, "Relative price tolerance for merging same-day sell lots")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cal, err := LoadCalendar()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holiday calendar: %v\n", err)
		return subcommands.ExitFailure
	}
	index, err := LoadPriceIndex()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading price series: %v\n", err)
		return subcommands.ExitFailure
	}
	rng := index.PriceRange()
	fmt.Printf("Loaded %d closing prices (%s to %s) and %d exchange rates\n",
		index.Prices(), rng.From, rng.To, index.Rates())

	gains, err := os.Open(c.gainsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening gains/losses file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer gains.Close()
	sales, fmv, err := equity.ImportGains(gains)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading gains/losses file: %v\n", err)
		return subcommands.ExitFailure
	}

	benefits, err := os.Open(c.benefitsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening benefits file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer benefits.Close()
	vests, err := equity.ImportBenefits(benefits, fmv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading benefits file: %v\n", err)
		return subcommands.ExitFailure
	}

	ledger, err := equity.Reconcile(cal, index, vests, sales, c.tolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(c.outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := equity.ExportLedger(out, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Wrote %d records to %s\n", ledger.Len(), c.outputFile)
	printMarkdown(ledger.Stats().Markdown())
	return subcommands.ExitSuccess
}
