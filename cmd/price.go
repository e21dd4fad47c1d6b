package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/yamato-research/kessan-cli/internal/pipeline"
	"github.com/yamato-research/kessan-cli/pkg/yahoo"
)

var priceYears int

var priceCmd = &cobra.Command{
	Use:   "price <ticker>",
	Short: "Show recent price history for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ticker := pipeline.NormalizeTicker(args[0])

		years := priceYears
		if years == 0 {
			years = cfg.Yahoo.Years
		}

		yc := yahoo.NewClient(yahoo.WithBaseURL(cfg.Yahoo.BaseURL))
		candles, err := yc.History(ctx, ticker, years)
		if err != nil {
			return eris.Wrapf(err, "price %s", ticker)
		}
		if len(candles) == 0 {
			return eris.Errorf("no price history for %s", ticker)
		}

		first, last := candles[0], candles[len(candles)-1]
		change := 0.0
		if first.Close != 0 {
			change = (last.Close - first.Close) / first.Close * 100
		}

		fmt.Printf("%s: %.1f (%s)\n", ticker, last.Close, last.Date.Format("2006-01-02"))
		fmt.Printf("%d candles since %s, %+.1f%% over the range\n",
			len(candles), first.Date.Format("2006-01-02"), change)
		return nil
	},
}

func init() {
	priceCmd.Flags().IntVar(&priceYears, "years", 0, "history length in years (default from config)")
	rootCmd.AddCommand(priceCmd)
}
