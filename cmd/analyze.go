package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yamato-research/kessan-cli/internal/report"
)

var (
	analyzeJSON  bool
	analyzeXLSX  string
	analyzeNotes string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <ticker>",
	Short: "Run the full analysis for one ticker",
	Long:  "Locates the latest EDINET disclosure, extracts its XBRL financials, and prints the metric tables.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Analyzer.Analyze(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "analyze %s", args[0])
		}

		if analyzeXLSX != "" {
			if err := report.WriteWorkbook(result, analyzeXLSX); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", analyzeXLSX))
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Print(report.MarkdownWithNotes(result, analyzeNotes))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw result as JSON")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "also write an Excel workbook to this path")
	analyzeCmd.Flags().StringVar(&analyzeNotes, "notes", "", "free-text notes appended to the markdown report")
	rootCmd.AddCommand(analyzeCmd)
}
