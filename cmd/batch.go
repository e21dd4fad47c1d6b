package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yamato-research/kessan-cli/internal/model"
	"github.com/yamato-research/kessan-cli/internal/pipeline"
	"github.com/yamato-research/kessan-cli/internal/report"
)

var (
	batchFile   string
	batchOutDir string
)

var batchCmd = &cobra.Command{
	Use:   "batch [tickers...]",
	Short: "Analyze several tickers concurrently",
	Long:  "Runs the full analysis for each ticker, from arguments or a file with one ticker per line.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tickers := args
		if batchFile != "" {
			fromFile, err := readTickerFile(batchFile)
			if err != nil {
				return err
			}
			tickers = append(tickers, fromFile...)
		}
		if len(tickers) == 0 {
			return eris.New("no tickers given: pass them as arguments or via --file")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		return processBatch(ctx, tickers, cfg.Batch.MaxConcurrentTickers, func(ctx context.Context, ticker string) (*model.AnalysisResult, error) {
			return env.Analyzer.Analyze(ctx, ticker)
		})
	},
}

// analyzeFunc is the callback signature for running one ticker's analysis.
type analyzeFunc func(ctx context.Context, ticker string) (*model.AnalysisResult, error)

// processBatch analyzes tickers concurrently. Individual failures are logged
// and counted, never abort the batch.
func processBatch(ctx context.Context, tickers []string, concurrency int, analyze analyzeFunc) error {
	if concurrency < 1 {
		concurrency = 1
	}
	zap.L().Info("processing batch",
		zap.Int("tickers", len(tickers)),
		zap.Int("concurrency", concurrency))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, ticker := range tickers {
		g.Go(func() error {
			log := zap.L().With(zap.String("ticker", ticker))

			result, err := analyze(gctx, ticker)
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("analysis complete",
				zap.String("doc_id", result.DocID),
				zap.Int("days_scanned", result.DaysScanned))

			if batchOutDir != "" {
				path := filepath.Join(batchOutDir, pipeline.NormalizeTicker(ticker)+".md")
				if writeErr := os.WriteFile(path, []byte(report.Markdown(result)), 0o644); writeErr != nil {
					log.Warn("failed to write report", zap.Error(writeErr))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()))
	return nil
}

// readTickerFile reads one ticker per line, skipping blanks and # comments.
func readTickerFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open ticker file %s", path)
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "read ticker file %s", path)
	}
	return tickers, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one ticker per line")
	batchCmd.Flags().StringVar(&batchOutDir, "out", "", "directory to write per-ticker markdown reports")
	rootCmd.AddCommand(batchCmd)
}
