package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/equity/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, a no-op outside of completion mode.
	completion().Complete("eqr")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	csv := predict.Files("*.csv")
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"fetch-prices": {Flags: map[string]complete.Predictor{
				"symbol": predict.Something,
				"s":      predict.Something,
				"o":      csv,
			}},
			"fetch-fx": {Flags: map[string]complete.Predictor{
				"s": predict.Something,
				"o": csv,
			}},
			"fetch-holidays": {Flags: map[string]complete.Predictor{
				"country": predict.Set{"US", "GB"},
				"from":    predict.Something,
				"to":      predict.Something,
				"o":       predict.Files("*.json"),
			}},
			"reconcile": {Flags: map[string]complete.Predictor{
				"gains":     csv,
				"benefits":  csv,
				"o":         csv,
				"tolerance": predict.Something,
			}},
			"exercise": {Flags: map[string]complete.Predictor{
				"o": csv,
			}},
			"topic":  {Args: predict.Set{"readme", "calendar", "consolidation", "fetching", "reconcile", "exercise"}},
			"assist": {Flags: map[string]complete.Predictor{"ledger": csv}},
			"help":   {},
		},
		Flags: map[string]complete.Predictor{
			"prices-file":   csv,
			"rates-file":    csv,
			"holidays-file": predict.Files("*.json"),
		},
	}
}
