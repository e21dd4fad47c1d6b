// Package report renders analysis results as markdown text or an Excel
// workbook.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/yamato-research/kessan-cli/internal/metrics"
	"github.com/yamato-research/kessan-cli/internal/model"
)

// Markdown renders the full analysis as a markdown document.
func Markdown(res *model.AnalysisResult) string {
	return MarkdownWithNotes(res, "")
}

// MarkdownWithNotes renders the analysis with a free-text notes section
// appended when notes is non-empty.
func MarkdownWithNotes(res *model.AnalysisResult, notes string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s 決算分析\n\n", res.Ticker)
	fmt.Fprintf(&b, "- Document: %s", res.DocID)
	if res.DocDesc != "" {
		fmt.Fprintf(&b, " (%s)", res.DocDesc)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Current period: %s\n", fmtDate(res.CurrentDate))
	fmt.Fprintf(&b, "- Previous period: %s\n\n", fmtDate(res.PreviousDate))

	tables := res.Tables

	b.WriteString("## Financial Health\n\n")
	b.WriteString("| Metric | Value | Threshold | Verdict |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, row := range tables.Health {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			row.Metric, metrics.FmtPct(row.Value, 1), row.Threshold, row.Verdict)
	}
	b.WriteString("\n")

	b.WriteString("## Profitability\n\n")
	b.WriteString("| Metric | Value | Guideline | Verdict |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, row := range tables.Profitability {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			row.Metric, metrics.FmtPct(row.Value, 1), row.Guideline, row.Verdict)
	}
	b.WriteString("\n")

	b.WriteString("## Growth\n\n")
	b.WriteString("| Metric | Value | Comment |\n")
	b.WriteString("|---|---|---|\n")
	for _, row := range tables.Growth {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.Metric, row.Display, row.Comment)
	}
	b.WriteString("\n")

	b.WriteString("## Asset Value\n\n")
	fmt.Fprintf(&b, "- Adjusted assets: %s\n",
		metrics.FmtNum(ptr(tables.AssetValue.AdjustedAssets), 0))
	fmt.Fprintf(&b, "- Liquidation value: %s\n\n",
		metrics.FmtNum(ptr(tables.AssetValue.LiquidationValue), 0))

	b.WriteString("## Income Value\n\n")
	fmt.Fprintf(&b, "- Weak (perpetuity): %s\n",
		metrics.FmtNum(ptr(tables.IncomeValue.WeakSimple), 0))
	fmt.Fprintf(&b, "- Strong (perpetuity): %s\n",
		metrics.FmtNum(ptr(tables.IncomeValue.StrongSimple), 0))
	fmt.Fprintf(&b, "- Weak (DCF): %s\n",
		metrics.FmtNum(ptr(tables.IncomeValue.WeakDCF), 0))
	fmt.Fprintf(&b, "- Strong (DCF): %s\n\n",
		metrics.FmtNum(ptr(tables.IncomeValue.StrongDCF), 0))

	b.WriteString("## Price Multiples\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---|\n")
	for _, row := range tables.Price {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Metric, row.Display)
	}
	b.WriteString("\n")

	if notes = strings.TrimSpace(notes); notes != "" {
		b.WriteString("## Notes\n\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}

	return b.String()
}

func fmtDate(d *time.Time) string {
	if d == nil {
		return "n/a"
	}
	return d.Format("2006-01-02")
}

func ptr(v float64) *float64 { return &v }
