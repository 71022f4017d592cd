// ALPINE Explorer summarizes results from one or many ALPINE
// genomic-surveillance runs: it walks a results root, tallies per-geography
// candidate statistics into a spreadsheet, and consolidates flagged-sequence
// metadata into compressed Arrow tables.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nrminor/alpine-explorer/internal/runs"
	"github.com/nrminor/alpine-explorer/internal/summarize"
	"github.com/nrminor/alpine-explorer/models"
	"github.com/nrminor/alpine-explorer/pkg/outputs"
)

func main() {
	app := &cli.App{
		Name:  "alpine-explorer",
		Usage: "summarize ALPINE run results across geographies",
		Commands: []*cli.Command{
			{
				Name:    "summarize",
				Aliases: []string{"s"},
				Usage:   "scan a results root and build the run summary artifacts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "results-dir",
						Aliases: []string{"d"},
						Value:   ".",
						Usage:   "the directory to search within",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Value:   outputs.DefaultBaseDir,
						Usage:   "where run artifacts are written",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: 4,
						Usage: "concurrent per-geography readers",
					},
					&cli.IntFlag{
						Name:  "lookahead",
						Value: models.MinLookahead,
						Usage: "rows scanned when inferring consolidated column types",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "log errors only",
					},
				},
				Action: summarize.SummarizeAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded summarize runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Value:   outputs.DefaultBaseDir,
						Usage:   "output directory holding the run-history database",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "max runs to list",
					},
				},
				Action: runs.RunsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
