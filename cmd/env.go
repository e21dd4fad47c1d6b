package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yamato-research/kessan-cli/internal/pipeline"
	"github.com/yamato-research/kessan-cli/internal/store"
	"github.com/yamato-research/kessan-cli/internal/taxonomy"
	"github.com/yamato-research/kessan-cli/pkg/edinet"
	"github.com/yamato-research/kessan-cli/pkg/yahoo"
)

// analyzerEnv holds the initialized clients and pipeline shared by the
// analyze/batch/serve commands.
type analyzerEnv struct {
	Store    store.Store
	Edinet   edinet.Client
	Yahoo    yahoo.Client
	Analyzer *pipeline.Analyzer
}

// Close releases resources held by the environment.
func (e *analyzerEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv sets up the store, the API clients, and the analyzer. Callers
// should defer env.Close().
func initEnv(ctx context.Context) (*analyzerEnv, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	reg, err := taxonomy.Load()
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "load taxonomy")
	}
	logTaxonomyWarnings(reg)

	ec := edinet.NewClient(cfg.Edinet.APIKey, edinet.WithBaseURL(cfg.Edinet.BaseURL))
	yc := yahoo.NewClient(yahoo.WithBaseURL(cfg.Yahoo.BaseURL))

	return &analyzerEnv{
		Store:    st,
		Edinet:   ec,
		Yahoo:    yc,
		Analyzer: pipeline.New(cfg, ec, yc, reg, st),
	}, nil
}

// logTaxonomyWarnings surfaces tag synonyms claimed by more than one concept.
// Extraction keeps the first claim, so shadowed tags stay visible here.
func logTaxonomyWarnings(reg *taxonomy.Registry) {
	for _, w := range reg.Validate() {
		zap.L().Warn("taxonomy overlap", zap.String("warning", w))
	}
}
