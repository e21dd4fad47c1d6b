package metrics

import (
	"github.com/yamato-research/kessan-cli/internal/model"
)

// Health thresholds.
const (
	equityRatioMin  = 0.80
	debtToEquityMax = 2.0
	currentRatioMin = 1.0
	quickRatioMin   = 1.0
	fixedRatioMax   = 1.0
)

// Health computes the financial-health table from the current snapshot.
// A missing ratio counts against the pass side: 0 for ">=" checks and a
// large sentinel for "<=" checks, so missing data never spuriously passes.
func Health(cur model.Snapshot) []model.HealthRow {
	equityRatio := SafeDiv(cur.Get("equity"), cur.Get("assets"))

	// A zero liabilities figure reads as "not disclosed", matching the
	// source data where Liabilities is absent rather than zero.
	tl := cur.Get("tl")
	if tl != nil && *tl == 0 {
		tl = nil
	}
	debtToEquity := SafeDiv(tl, cur.Get("equity"))

	currentRatio := SafeDiv(cur.Get("ca"), cur.Get("cl"))

	quickAssets := cur.OrZero("ca") - cur.OrZero("inv")
	quickRatio := SafeDiv(ptr(quickAssets), cur.Get("cl"))

	fixedAssets := cur.OrZero("ppe") + cur.OrZero("intan") + cur.OrZero("invest")
	fixedRatio := SafeDiv(ptr(fixedAssets), cur.Get("equity"))

	verdictMin := func(v *float64, min float64) string {
		if orElse(v, 0) >= min {
			return "OK"
		}
		return "NG"
	}
	verdictMax := func(v *float64, max float64) string {
		if orElse(v, missingAgainstMax) <= max {
			return "OK"
		}
		return "NG"
	}

	return []model.HealthRow{
		{Metric: "Equity ratio", Value: equityRatio, Threshold: ">= 80.0%", Verdict: verdictMin(equityRatio, equityRatioMin)},
		{Metric: "Debt-to-equity", Value: debtToEquity, Threshold: "<= 2.00x", Verdict: verdictMax(debtToEquity, debtToEquityMax)},
		{Metric: "Current ratio", Value: currentRatio, Threshold: ">= 1.00x", Verdict: verdictMin(currentRatio, currentRatioMin)},
		{Metric: "Quick ratio", Value: quickRatio, Threshold: ">= 1.00x", Verdict: verdictMin(quickRatio, quickRatioMin)},
		{Metric: "Fixed ratio", Value: fixedRatio, Threshold: "<= 1.00x", Verdict: verdictMax(fixedRatio, fixedRatioMax)},
	}
}
