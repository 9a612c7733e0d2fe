package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/equity"
	"github.com/etnz/equity/date"
	"github.com/google/subcommands"
)

type exerciseCmd struct {
	outputFile string
}

func (*exerciseCmd) Name() string { return "exercise" }
func (*exerciseCmd) Synopsis() string {
	return "record option exercises interactively and price them in GBP"
}
func (*exerciseCmd) Usage() string {
	return `eqr exercise [-o <file>]

  Prompts for option-exercise details (grant, date, exercise price, net
  quantity), resolves the exchange rate for each exercise date, and writes the
  resulting Buy records as a ledger CSV that can be combined with the
  reconciled transactions.
`
}

func (c *exerciseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "option_exercises.csv", "Output file (CSV)")
}

func (c *exerciseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	events := prompt(bufio.NewReader(os.Stdin))
	if len(events) == 0 {
		fmt.Println("No records were created.")
		return subcommands.ExitSuccess
	}

	ledger, err := equity.Reconcile(cal, index, events, nil, equity.DefaultTolerance)
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
		fmt.Fprintf(os.Stderr, "Error writing records: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Saved %d records to %s\n", ledger.Len(), c.outputFile)
	return subcommands.ExitSuccess
}

// prompt collects exercise events interactively, several per grant.
func prompt(in *bufio.Reader) []equity.VestEvent {
	var events []equity.VestEvent
	grant := ""
	for {
		if grant == "" {
			grant = ask(in, "Enter Grant ID (e.g., N1234): ")
		} else {
			fmt.Printf("Using Grant ID: %s\n", grant)
		}

		var day date.Date
		for {
			var err error
			day, err = date.Parse(ask(in, "Enter exercise date (YYYY-MM-DD): "))
			if err == nil {
				break
			}
			fmt.Println("Invalid date format. Please use YYYY-MM-DD")
		}

		var price float64
		for {
			var err error
			price, err = strconv.ParseFloat(ask(in, "Enter exercise price in USD: "), 64)
			if err == nil {
				break
			}
			fmt.Println("Invalid price. Please enter a number")
		}

		var quantity int
		for {
			var err error
			quantity, err = strconv.Atoi(ask(in, "Enter number of options exercised (net): "))
			if err == nil {
				break
			}
			fmt.Println("Invalid quantity. Please enter a whole number")
		}

		events = append(events, equity.VestEvent{
			Grant:        grant,
			Date:         day,
			Quantity:     equity.Q(quantity),
			KnownFMV:     equity.M(price, "USD"),
			HasFMV:       true,
			OrderType:    equity.OrderExercise,
			SecurityType: equity.TypeNSO,
		})

		if !confirm(in, "Add another exercise for the same grant?") {
			if !confirm(in, "Add exercises for a different grant?") {
				return events
			}
			grant = ""
		}
	}
}

func ask(in *bufio.Reader, question string) string {
	fmt.Print(question)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func confirm(in *bufio.Reader, question string) bool {
	for {
		switch ask(in, question+" (y/n): ") {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Println("Please answer 'y' or 'n'")
	}
}
