package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.edinet-fsa.go.jp/api/v2", cfg.Edinet.BaseURL)
	assert.Equal(t, 30, cfg.Edinet.LookbackDays)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Yahoo.BaseURL)
	assert.Equal(t, 5, cfg.Yahoo.Years)
	assert.InDelta(t, 0.10, cfg.Analysis.WACC, 0.001)
	assert.InDelta(t, 0.20, cfg.Analysis.BullGrowth, 0.001)
	assert.InDelta(t, 0.30, cfg.Analysis.TaxRate, 0.001)
	assert.Equal(t, 10, cfg.Analysis.HorizonYears)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "kessan.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentTickers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
edinet:
  api_key: test-key
  lookback_days: 60
store:
  driver: postgres
  database_url: postgres://localhost/kessan
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Edinet.APIKey)
	assert.Equal(t, 60, cfg.Edinet.LookbackDays)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/kessan", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched defaults survive
	assert.Equal(t, 10, cfg.Analysis.HorizonYears)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("KESSAN_EDINET_API_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Edinet.APIKey)
}

func TestLoadRejectsBadLookback(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := "edinet:\n  lookback_days: 365\n"
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
