package metrics

import (
	"fmt"

	"github.com/yamato-research/kessan-cli/internal/model"
)

// Growth computes year-over-year growth and turnover rows from the current
// and previous snapshots. A missing or zero previous value yields a blank row.
func Growth(cur, prev model.Snapshot) []model.GrowthRow {
	yoy := func(key string) *float64 {
		p := prev.Get(key)
		if p == nil || *p == 0 {
			return nil
		}
		delta := cur.OrZero(key) - *p
		return SafeDiv(ptr(delta), p)
	}

	salesGrowth := yoy("sales")
	opGrowth := yoy("op")
	netGrowth := yoy("net")

	// Turnovers use the average of the two periods; zero balances read as
	// missing, matching the source data.
	avg := func(key string) *float64 {
		c, p := cur.Get(key), prev.Get(key)
		if c == nil || *c == 0 || p == nil || *p == 0 {
			return nil
		}
		return ptr((*c + *p) / 2)
	}

	assetTurn := SafeDiv(cur.Get("sales"), avg("assets"))
	arTurn := SafeDiv(cur.Get("sales"), avg("ar"))

	turns := func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.1f", *v)
	}

	return []model.GrowthRow{
		{Metric: "Sales growth", Display: FmtPct(salesGrowth, 1), Comment: "(current - previous) / previous"},
		{Metric: "Operating profit growth", Display: FmtPct(opGrowth, 1), Comment: "positive growth preferred"},
		{Metric: "Net profit growth", Display: FmtPct(netGrowth, 1), Comment: "steady growth is ideal"},
		{Metric: "Asset turnover (x)", Display: turns(assetTurn), Comment: "typically 0.3-2.0x per year"},
		{Metric: "Receivables turnover (x)", Display: turns(arTurn), Comment: "higher turnover eases cash flow"},
	}
}
