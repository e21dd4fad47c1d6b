package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yamato-research/kessan-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "run-1",
			Ticker:    "7203.T",
			Status:    model.RunStatusComplete,
			Result:    &model.AnalysisResult{DocID: "S100TEST"},
			CreatedAt: created,
		},
		{
			ID:        "run-2",
			Ticker:    "6758.T",
			Status:    model.RunStatusFailed,
			CreatedAt: created,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "S100TEST")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "2026-08-31 09:30")
}
