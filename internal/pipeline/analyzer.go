// Package pipeline wires the full analysis flow: locate the latest
// disclosure, download and parse its XBRL archive, select the comparison
// periods, and compute the metric tables.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yamato-research/kessan-cli/internal/config"
	"github.com/yamato-research/kessan-cli/internal/locator"
	"github.com/yamato-research/kessan-cli/internal/metrics"
	"github.com/yamato-research/kessan-cli/internal/model"
	"github.com/yamato-research/kessan-cli/internal/series"
	"github.com/yamato-research/kessan-cli/internal/store"
	"github.com/yamato-research/kessan-cli/internal/taxonomy"
	"github.com/yamato-research/kessan-cli/internal/xbrl"
	"github.com/yamato-research/kessan-cli/pkg/edinet"
	"github.com/yamato-research/kessan-cli/pkg/yahoo"
)

// archiveTTL bounds how long a downloaded disclosure archive stays cached.
const archiveTTL = 7 * 24 * time.Hour

// Analyzer runs the end-to-end analysis for one ticker.
type Analyzer struct {
	cfg    *config.Config
	edinet edinet.Client
	yahoo  yahoo.Client
	loc    *locator.Locator
	reg    *taxonomy.Registry
	store  store.Store // optional; nil disables run recording and caching
}

// New creates an Analyzer with all dependencies. st may be nil.
func New(cfg *config.Config, ec edinet.Client, yc yahoo.Client, reg *taxonomy.Registry, st store.Store) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		edinet: ec,
		yahoo:  yc,
		loc:    locator.New(ec, locator.WithLookback(cfg.Edinet.LookbackDays)),
		reg:    reg,
		store:  st,
	}
}

// Analyze executes the full pipeline for a single ticker.
func (a *Analyzer) Analyze(ctx context.Context, ticker string) (*model.AnalysisResult, error) {
	ticker = NormalizeTicker(ticker)
	secCode := locator.NormalizeSecCode(ticker)
	if secCode == "" {
		return nil, eris.Errorf("pipeline: invalid ticker %q", ticker)
	}

	log := zap.L().With(zap.String("ticker", ticker), zap.String("sec_code", secCode))
	log.Info("pipeline: starting analysis")

	var runID string
	if a.store != nil {
		run, err := a.store.CreateRun(ctx, ticker)
		if err != nil {
			log.Warn("pipeline: failed to create run record", zap.Error(err))
		} else {
			runID = run.ID
			a.setStatus(ctx, runID, model.RunStatusRunning)
		}
	}

	result, err := a.analyze(ctx, log, ticker, secCode)
	if a.store != nil && runID != "" {
		if err != nil {
			if failErr := a.store.FailRun(ctx, runID, err.Error()); failErr != nil {
				log.Warn("pipeline: failed to record failure", zap.Error(failErr))
			}
		} else if completeErr := a.store.CompleteRun(ctx, runID, result); completeErr != nil {
			log.Warn("pipeline: failed to record result", zap.Error(completeErr))
		}
	}
	return result, err
}

func (a *Analyzer) analyze(ctx context.Context, log *zap.Logger, ticker, secCode string) (*model.AnalysisResult, error) {
	// Phase timing helper.
	phase := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		duration := time.Since(start).Milliseconds()
		if err != nil {
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(err))
			return err
		}
		log.Info("pipeline: phase complete",
			zap.String("phase", name),
			zap.Int64("duration_ms", duration))
		return nil
	}

	var (
		doc  *edinet.Document
		diag *locator.Diagnostics
	)
	if err := phase("1_locate", func() error {
		var err error
		doc, diag, err = a.loc.Locate(ctx, secCode, time.Now())
		return err
	}); err != nil {
		return nil, err
	}

	var archive []byte
	if err := phase("2_download", func() error {
		var err error
		archive, err = a.fetchArchive(ctx, log, doc.DocID)
		return err
	}); err != nil {
		return nil, err
	}

	var bundle series.Bundle
	if err := phase("3_extract", func() error {
		var err error
		bundle, err = xbrl.ExtractSeries(archive, a.reg)
		if err != nil {
			return err
		}
		series.Synthesize(bundle)
		if a.store != nil {
			if _, saveErr := a.store.SaveFacts(ctx, doc.DocID, secCode, bundle); saveErr != nil {
				log.Warn("pipeline: failed to persist facts", zap.Error(saveErr))
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var (
		cur, prev         model.Snapshot
		curDate, prevDate *time.Time
	)
	if err := phase("4_select", func() error {
		keys := append(a.reg.Keys(), series.SynthKeys()...)
		var err error
		cur, prev, curDate, prevDate, err = series.SelectPeriods(bundle, keys)
		return eris.Wrapf(err, "pipeline: select periods for %s", doc.DocID)
	}); err != nil {
		return nil, err
	}

	// Price is best-effort: metrics degrade to blank cells without it.
	if err := phase("5_price", func() error {
		price, err := a.latestClose(ctx, ticker)
		if err != nil {
			log.Warn("pipeline: price lookup failed", zap.Error(err))
			return nil
		}
		if price > 0 {
			cur.Set(model.KeyPrice, price)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	cur.Set(model.KeyTax, a.cfg.Analysis.TaxRate)
	cur.Set(model.KeyWACC, a.cfg.Analysis.WACC)

	var tables model.MetricTables
	if err := phase("6_metrics", func() error {
		tables = metrics.Tables(cur, prev, metrics.Assumptions{
			WACC:         a.cfg.Analysis.WACC,
			BullGrowth:   a.cfg.Analysis.BullGrowth,
			HorizonYears: a.cfg.Analysis.HorizonYears,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return &model.AnalysisResult{
		Ticker:       ticker,
		SecCode:      secCode,
		DocID:        doc.DocID,
		DocDesc:      doc.DocDescription,
		CurrentDate:  curDate,
		PreviousDate: prevDate,
		Current:      cur,
		Previous:     prev,
		Tables:       tables,
		DaysScanned:  diag.DaysScanned,
	}, nil
}

// fetchArchive returns the disclosure ZIP, via the store cache unless
// caching is disabled or no store is configured.
func (a *Analyzer) fetchArchive(ctx context.Context, log *zap.Logger, docID string) ([]byte, error) {
	useCache := a.store != nil && !a.cfg.Edinet.DisableArchiveCache

	if useCache {
		cached, err := a.store.GetCachedArchive(ctx, docID)
		if err != nil {
			log.Warn("pipeline: archive cache read failed", zap.Error(err))
		} else if cached != nil {
			log.Debug("pipeline: archive cache hit", zap.String("doc_id", docID))
			return cached, nil
		}
	}

	archive, err := a.edinet.FetchArchive(ctx, docID)
	if err != nil {
		return nil, err
	}
	if useCache {
		if err := a.store.SetCachedArchive(ctx, docID, archive, archiveTTL); err != nil {
			log.Warn("pipeline: archive cache write failed", zap.Error(err))
		}
	}
	return archive, nil
}

// latestClose returns the most recent daily close, 0 when no history exists.
func (a *Analyzer) latestClose(ctx context.Context, ticker string) (float64, error) {
	candles, err := a.yahoo.History(ctx, ticker, a.cfg.Yahoo.Years)
	if err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, nil
	}
	return candles[len(candles)-1].Close, nil
}

func (a *Analyzer) setStatus(ctx context.Context, runID string, status model.RunStatus) {
	if err := a.store.UpdateRunStatus(ctx, runID, status); err != nil {
		zap.L().Warn("pipeline: failed to update status", zap.Error(err))
	}
}

// NormalizeTicker maps a bare 4-digit code to its Tokyo listing, so "7203"
// and "7203.T" are equivalent inputs.
func NormalizeTicker(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) == 4 && !strings.Contains(s, ".") {
		return s + ".T"
	}
	return strings.ToUpper(s)
}
