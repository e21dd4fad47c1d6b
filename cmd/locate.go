package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/yamato-research/kessan-cli/internal/locator"
	"github.com/yamato-research/kessan-cli/pkg/edinet"
)

var locateVerbose bool

var locateCmd = &cobra.Command{
	Use:   "locate <ticker>",
	Short: "Find the latest disclosure document without analyzing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ec := edinet.NewClient(cfg.Edinet.APIKey, edinet.WithBaseURL(cfg.Edinet.BaseURL))
		loc := locator.New(ec, locator.WithLookback(cfg.Edinet.LookbackDays))

		secCode := locator.NormalizeSecCode(args[0])
		if secCode == "" {
			return eris.Errorf("invalid ticker %q", args[0])
		}

		doc, diag, err := loc.Locate(ctx, secCode, time.Now())
		if err != nil {
			if diag != nil && locateVerbose {
				printScan(diag)
			}
			return eris.Wrapf(err, "locate %s", args[0])
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "DocID:\t%s\n", doc.DocID)
		fmt.Fprintf(w, "Filer:\t%s\n", doc.FilerName)
		fmt.Fprintf(w, "Description:\t%s\n", doc.DocDescription)
		fmt.Fprintf(w, "Form:\t%s/%s (%s)\n", doc.OrdinanceCode, doc.FormCode, diag.MatchTier)
		fmt.Fprintf(w, "Submitted:\t%s\n", doc.SubmitDateTime)
		fmt.Fprintf(w, "Period end:\t%s\n", doc.PeriodEnd)
		fmt.Fprintf(w, "Days scanned:\t%d\n", diag.DaysScanned)
		w.Flush()

		if locateVerbose {
			printScan(diag)
		}
		return nil
	},
}

func printScan(diag *locator.Diagnostics) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nDATE\tDOCUMENTS\tSTATUS")
	for _, d := range diag.Days {
		status := "ok"
		if d.Failed {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", d.Date, d.Count, status)
	}
	w.Flush()
}

func init() {
	locateCmd.Flags().BoolVarP(&locateVerbose, "verbose", "v", false, "print the per-day scan results")
	rootCmd.AddCommand(locateCmd)
}
