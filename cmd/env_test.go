package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yamato-research/kessan-cli/internal/taxonomy"
)

func TestLogTaxonomyWarnings(t *testing.T) {
	reg, err := taxonomy.Parse([]byte(`
- key: sales
  label: Net sales
  tags: [NetSales, Revenue]
- key: revenue
  label: Revenue
  tags: [Revenue]
`))
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	prev := zap.ReplaceGlobals(zap.New(core))
	defer prev()

	logTaxonomyWarnings(reg)

	entries := logs.FilterMessage("taxonomy overlap").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["warning"], `"Revenue"`)
}

func TestLogTaxonomyWarningsCleanRegistry(t *testing.T) {
	reg, err := taxonomy.Load()
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	prev := zap.ReplaceGlobals(zap.New(core))
	defer prev()

	logTaxonomyWarnings(reg)
	assert.Zero(t, logs.FilterMessage("taxonomy overlap").Len())
}
