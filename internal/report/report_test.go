package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/yamato-research/kessan-cli/internal/model"
)

func sampleResult() *model.AnalysisResult {
	cur := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	prev := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	return &model.AnalysisResult{
		Ticker:       "7203.T",
		SecCode:      "7203",
		DocID:        "S100TEST",
		DocDesc:      "有価証券報告書",
		CurrentDate:  &cur,
		PreviousDate: &prev,
		Tables: model.MetricTables{
			Health: []model.HealthRow{
				{Metric: "equity_ratio", Value: model.Ptr(0.9), Threshold: ">= 80.0%", Verdict: "OK"},
				{Metric: "debt_to_equity", Value: nil, Threshold: "<= 2.00x", Verdict: "NG"},
			},
			Profitability: []model.ProfitRow{
				{Metric: "gross_margin", Value: model.Ptr(0.4), Guideline: "20-40%", Verdict: "OK"},
			},
			Growth: []model.GrowthRow{
				{Metric: "sales_yoy", Display: "11.1%", Comment: "increase"},
			},
			AssetValue: model.AssetValue{AdjustedAssets: 850, LiquidationValue: 650},
			IncomeValue: model.IncomeValue{
				WeakSimple: 700, StrongSimple: 1741, WeakDCF: 690, StrongDCF: 1700,
			},
			Price: []model.PriceRow{
				{Metric: "per", Value: model.Ptr(2.0), Display: "2.00"},
			},
		},
	}
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(sampleResult())

	assert.Contains(t, md, "# 7203.T 決算分析")
	assert.Contains(t, md, "S100TEST")
	assert.Contains(t, md, "2026-03-31")
	assert.Contains(t, md, "## Financial Health")
	assert.Contains(t, md, "| equity_ratio | 90.0% | >= 80.0% | OK |")
	assert.Contains(t, md, "| debt_to_equity |  | <= 2.00x | NG |")
	assert.Contains(t, md, "## Profitability")
	assert.Contains(t, md, "## Growth")
	assert.Contains(t, md, "| sales_yoy | 11.1% | increase |")
	assert.Contains(t, md, "Liquidation value: 650")
	assert.Contains(t, md, "Strong (perpetuity): 1,741")
	assert.Contains(t, md, "| per | 2.00 |")
}

func TestMarkdownNotes(t *testing.T) {
	md := MarkdownWithNotes(sampleResult(), "  strong balance sheet, watch FX exposure  ")
	assert.Contains(t, md, "## Notes\n\nstrong balance sheet, watch FX exposure\n")

	assert.NotContains(t, Markdown(sampleResult()), "## Notes")
}

func TestMarkdownMissingDates(t *testing.T) {
	res := sampleResult()
	res.CurrentDate = nil
	res.PreviousDate = nil

	md := Markdown(res)
	assert.Contains(t, md, "Current period: n/a")
	assert.Contains(t, md, "Previous period: n/a")
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(sampleResult(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	names := make([]string, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Health", "Profitability", "Growth", "Valuation", "Price"}, names)

	health := f.Sheet["Health"]
	require.NotNil(t, health)
	require.GreaterOrEqual(t, len(health.Rows), 3)
	assert.Equal(t, "Metric", health.Rows[0].Cells[0].Value)
	assert.Equal(t, "equity_ratio", health.Rows[1].Cells[0].Value)
	assert.Equal(t, "90.0%", health.Rows[1].Cells[1].Value)

	valuation := f.Sheet["Valuation"]
	require.NotNil(t, valuation)
	assert.Equal(t, "Adjusted assets", valuation.Rows[1].Cells[0].Value)
}
