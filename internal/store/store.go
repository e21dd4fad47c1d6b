// Package store persists analysis runs, extracted facts, and downloaded
// disclosure archives. SQLite is the default backend; Postgres is available
// for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/yamato-research/kessan-cli/internal/model"
	"github.com/yamato-research/kessan-cli/internal/series"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Ticker string          `json:"ticker,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the analysis pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, ticker string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, result *model.AnalysisResult) error
	FailRun(ctx context.Context, runID string, message string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Extracted facts
	SaveFacts(ctx context.Context, docID, secCode string, facts series.Bundle) (int64, error)

	// Archive cache
	GetCachedArchive(ctx context.Context, docID string) ([]byte, error)
	SetCachedArchive(ctx context.Context, docID string, data []byte, ttl time.Duration) error
	DeleteExpiredArchives(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open builds a Store for the configured driver and runs migrations.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "", "sqlite":
		s, err = NewSQLite(dsn)
	case "postgres":
		s, err = NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}

	// Expired archive rows serve no reads, so drop them on every open.
	if n, err := s.DeleteExpiredArchives(ctx); err != nil {
		zap.L().Warn("store: expired archive cleanup failed", zap.Error(err))
	} else if n > 0 {
		zap.L().Info("store: expired archives removed", zap.Int("count", n))
	}
	return s, nil
}
