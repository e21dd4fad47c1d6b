package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-research/kessan-cli/internal/model"
	"github.com/yamato-research/kessan-cli/internal/series"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "kessan_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteRunLifecycle(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "7203.T")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))

	result := &model.AnalysisResult{
		Ticker:  "7203.T",
		SecCode: "7203",
		DocID:   "S100TEST",
		Current: model.Snapshot{"sales": model.Ptr(1000)},
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "S100TEST", got.Result.DocID)
	require.NotNil(t, got.Result.Current["sales"])
	assert.Equal(t, 1000.0, *got.Result.Current["sales"])
}

func TestSQLiteFailRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "9999.T")
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, "no disclosure found"))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "no disclosure found", got.Error)
	assert.Nil(t, got.Result)
}

func TestSQLiteUpdateMissingRun(t *testing.T) {
	s := newTestSQLite(t)
	err := s.UpdateRunStatus(context.Background(), "no-such-run", model.RunStatusRunning)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListRunsFilters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	r1, err := s.CreateRun(ctx, "7203.T")
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, "6758.T")
	require.NoError(t, err)
	require.NoError(t, s.UpdateRunStatus(ctx, r1.ID, model.RunStatusRunning))

	byTicker, err := s.ListRuns(ctx, RunFilter{Ticker: "7203.T"})
	require.NoError(t, err)
	require.Len(t, byTicker, 1)
	assert.Equal(t, r1.ID, byTicker[0].ID)

	byStatus, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusQueued})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "6758.T", byStatus[0].Ticker)

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteSaveFacts(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	d1 := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	facts := series.Bundle{
		"sales": {d1: 1000, d2: 900},
		"ni":    {d1: 70},
	}

	n, err := s.SaveFacts(ctx, "S100TEST", "7203", facts)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// Upsert: saving the same document again must not duplicate rows.
	n, err = s.SaveFacts(ctx, "S100TEST", "7203", facts)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts WHERE doc_id = ?`, "S100TEST").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSQLiteSaveFactsEmpty(t *testing.T) {
	s := newTestSQLite(t)
	n, err := s.SaveFacts(context.Background(), "S100TEST", "7203", series.Bundle{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteArchiveCache(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	got, err := s.GetCachedArchive(ctx, "S100MISS")
	require.NoError(t, err)
	assert.Nil(t, got)

	data := []byte("PK\x03\x04 fake zip")
	require.NoError(t, s.SetCachedArchive(ctx, "S100TEST", data, time.Hour))

	got, err = s.GetCachedArchive(ctx, "S100TEST")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSQLiteArchiveCacheExpiry(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SetCachedArchive(ctx, "S100OLD", []byte("stale"), -time.Hour))

	got, err := s.GetCachedArchive(ctx, "S100OLD")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := s.DeleteExpiredArchives(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenPurgesExpiredArchives(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kessan.db")

	s, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	require.NoError(t, s.SetCachedArchive(ctx, "S100OLD", []byte("stale"), -time.Hour))
	require.NoError(t, s.SetCachedArchive(ctx, "S100NEW", []byte("fresh"), time.Hour))
	require.NoError(t, s.Close())

	s, err = Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer s.Close()

	var count int
	row := s.(*SQLiteStore).db.QueryRowContext(ctx, `SELECT COUNT(*) FROM archive_cache`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)

	got, err := s.GetCachedArchive(ctx, "S100NEW")
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpenSQLiteDefault(t *testing.T) {
	s, err := Open(context.Background(), "", filepath.Join(t.TempDir(), "kessan.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateRun(context.Background(), "7203.T")
	assert.NoError(t, err)
}
