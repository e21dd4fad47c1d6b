package metrics

import (
	"github.com/yamato-research/kessan-cli/internal/model"
)

// PriceMetrics computes market-cap-derived multiples from the current
// snapshot, plus the accruals ratio over averaged assets from the previous
// one. Each row is nil-propagating: no price or share count means no
// market cap and blank multiples.
func PriceMetrics(cur, prev model.Snapshot) []model.PriceRow {
	price := cur.OrZero(model.KeyPrice)
	shares := cur.Get("shares")

	var mktcap *float64
	if price != 0 && shares != nil && *shares != 0 {
		mktcap = ptr(price * *shares)
	}

	var ev *float64
	if mktcap != nil {
		ev = ptr(*mktcap + cur.OrZero(model.KeyDebt) - (cur.OrZero("cash") + cur.OrZero("stinv")))
	}

	tax := cur.OrZero(model.KeyTax)
	var nopat *float64
	if op := cur.Get("op"); op != nil {
		nopat = ptr(*op * (1 - tax))
	}
	invested := cur.OrZero(model.KeyDebt) + cur.OrZero("equity") -
		(cur.OrZero("cash") + cur.OrZero("stinv"))

	per := SafeDiv(mktcap, cur.Get("net"))
	pcfr := SafeDiv(mktcap, cur.Get("ocf"))
	psr := SafeDiv(mktcap, cur.Get("sales"))
	pbr := SafeDiv(mktcap, cur.Get("equity"))
	earningsYield := SafeDiv(cur.Get("net"), mktcap)
	evEBITDA := SafeDiv(ev, cur.Get(model.KeyEBITDA))
	roic := SafeDiv(nopat, ptr(invested))

	var perPbr *float64
	if per != nil && pbr != nil {
		perPbr = ptr(*per * *pbr)
	}

	var accruals *float64
	if ca, pa := cur.Get("assets"), prev.Get("assets"); ca != nil && *ca != 0 && pa != nil && *pa != 0 {
		avgAssets := (*ca + *pa) / 2
		net := cur.OrZero("net")
		ocf := cur.OrZero("ocf")
		accruals = SafeDiv(ptr(net-ocf), ptr(avgAssets))
	}

	return []model.PriceRow{
		{Metric: "Close price", Value: ptr(price), Display: FmtNum(ptr(price), 0)},
		{Metric: "PER", Value: per, Display: FmtRatio(per)},
		{Metric: "PCFR", Value: pcfr, Display: FmtRatio(pcfr)},
		{Metric: "PSR", Value: psr, Display: FmtRatio(psr)},
		{Metric: "PBR", Value: pbr, Display: FmtRatio(pbr)},
		{Metric: "Earnings yield", Value: earningsYield, Display: FmtPct(earningsYield, 1)},
		{Metric: "PER x PBR", Value: perPbr, Display: FmtRatio(perPbr)},
		{Metric: "EV/EBITDA", Value: evEBITDA, Display: FmtRatio(evEBITDA)},
		{Metric: "ROIC", Value: roic, Display: FmtPct(roic, 1)},
		{Metric: "Accruals / assets", Value: accruals, Display: FmtPct(accruals, 1)},
		{Metric: "Market cap", Value: mktcap, Display: FmtNum(mktcap, 0)},
	}
}

// Tables computes every metric table for a snapshot pair.
func Tables(cur, prev model.Snapshot, a Assumptions) model.MetricTables {
	return model.MetricTables{
		Health:        Health(cur),
		Profitability: Profitability(cur),
		Growth:        Growth(cur, prev),
		AssetValue:    AssetValue(cur),
		IncomeValue:   IncomeValue(cur, a),
		Price:         PriceMetrics(cur, prev),
	}
}
