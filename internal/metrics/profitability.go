package metrics

import (
	"github.com/yamato-research/kessan-cli/internal/model"
)

// Profitability guidelines.
const (
	grossMarginLow  = 0.20
	grossMarginHigh = 0.40
	opMarginGood    = 0.05
	opMarginHigh    = 0.10
	netMarginGood   = 0.05
	netMarginThin   = 0.03
	roeExcellent    = 0.10
	roeLow          = 0.05
	roaEfficient    = 0.05
)

// Profitability computes the margin and return table from the current
// snapshot. Rows with missing inputs carry a nil value and a blank verdict.
func Profitability(cur model.Snapshot) []model.ProfitRow {
	sales := cur.OrZero("sales")

	var gm, opm, orm, nm *float64
	if sales != 0 {
		gross := sales - cur.OrZero("cogs")
		gm = SafeDiv(ptr(gross), ptr(sales))
		opm = SafeDiv(cur.Get("op"), ptr(sales))
		nm = SafeDiv(cur.Get("net"), ptr(sales))
		if cur.Has("ord") {
			orm = SafeDiv(cur.Get("ord"), ptr(sales))
		}
	}
	roe := SafeDiv(cur.Get("net"), cur.Get("equity"))
	roa := SafeDiv(cur.Get("net"), cur.Get("assets"))

	gmVerdict := "CHK"
	if gm != nil && *gm >= grossMarginLow && *gm <= grossMarginHigh {
		gmVerdict = "OK"
	}

	judgeOpm := func(v *float64) string {
		switch {
		case v == nil:
			return ""
		case *v >= opMarginHigh:
			return "high"
		case *v >= opMarginGood:
			return "healthy"
		default:
			return "low"
		}
	}
	judgeNm := func(v *float64) string {
		switch {
		case v == nil:
			return ""
		case *v >= netMarginGood:
			return "excellent"
		case *v <= netMarginThin:
			return "thin"
		default:
			return "mid"
		}
	}
	judgeRoe := func(v *float64) string {
		switch {
		case v == nil:
			return ""
		case *v >= roeExcellent:
			return "excellent"
		case *v <= roeLow:
			return "low"
		default:
			return "mid"
		}
	}
	judgeRoa := func(v *float64) string {
		if v == nil {
			return ""
		}
		if *v >= roaEfficient {
			return "good"
		}
		return "average"
	}

	ormVerdict := ""
	if orm != nil {
		ormVerdict = "OK"
	}

	return []model.ProfitRow{
		{Metric: "Gross margin", Value: gm, Guideline: "20%-40%", Verdict: gmVerdict},
		{Metric: "Operating margin", Value: opm, Guideline: ">= 5% healthy, >= 10% high", Verdict: judgeOpm(opm)},
		{Metric: "Ordinary margin", Value: orm, Guideline: "close to operating margin", Verdict: ormVerdict},
		{Metric: "Net margin", Value: nm, Guideline: ">= 5% excellent, <= 3% thin", Verdict: judgeNm(nm)},
		{Metric: "ROE", Value: roe, Guideline: ">= 10% excellent, <= 5% low", Verdict: judgeRoe(roe)},
		{Metric: "ROA", Value: roa, Guideline: ">= 5% efficient", Verdict: judgeRoa(roa)},
	}
}
