package metrics

import (
	"math"

	"github.com/yamato-research/kessan-cli/internal/model"
)

// Liquidation weights applied when restating assets conservatively.
const (
	weightReceivables = 0.85
	weightInventory   = 0.50
	weightPPE         = 0.50
	weightIntangibles = 0.00
	weightInvestments = 0.50
)

// AssetValue restates assets at conservative liquidation weights and nets
// out total liabilities.
func AssetValue(cur model.Snapshot) model.AssetValue {
	adjusted := cur.OrZero("cash") +
		cur.OrZero("stinv") +
		weightReceivables*cur.OrZero("ar") +
		weightInventory*cur.OrZero("inv") +
		weightPPE*cur.OrZero("ppe") +
		weightIntangibles*cur.OrZero("intan") +
		weightInvestments*cur.OrZero("invest")

	return model.AssetValue{
		AdjustedAssets:   adjusted,
		LiquidationValue: adjusted - cur.OrZero("tl"),
	}
}

// IncomeValue computes two simplified perpetuity estimates and two
// explicit-horizon DCF estimates. The discount rate comes from the snapshot
// when present and positive, otherwise from the assumptions. With bull growth zero the
// strong cases collapse to the weak cases.
func IncomeValue(cur model.Snapshot, a Assumptions) model.IncomeValue {
	// A non-positive snapshot override means "no usable rate"; keep the
	// assumption default so a zero entry does not disable discounting.
	wacc := a.WACC
	if v := cur.Get(model.KeyWACC); v != nil && *v > 0 {
		wacc = *v
	}
	fcf := cur.OrZero(model.KeyFCF)
	netCash := cur.OrZero("cash") + cur.OrZero("stinv") - cur.OrZero(model.KeyDebt)

	if wacc <= 0 {
		// No meaningful discounting possible; all estimates degrade to the
		// net cash position.
		return model.IncomeValue{
			WeakSimple:   netCash,
			StrongSimple: netCash,
			WeakDCF:      netCash,
			StrongDCF:    netCash,
		}
	}

	growth := a.BullGrowth
	horizon := a.HorizonYears
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	bullFCF := fcf * math.Pow(1+growth, 5)

	weakSimple := netCash + fcf/wacc
	strongSimple := netCash + bullFCF/wacc

	pv := func(cf float64, t int) float64 {
		return cf / math.Pow(1+wacc, float64(t))
	}

	var weakPV float64
	for t := 1; t <= horizon; t++ {
		weakPV += pv(fcf, t)
	}
	weakPV += pv(fcf/wacc, horizon)

	var strongPV float64
	for t := 1; t <= 5 && t <= horizon; t++ {
		strongPV += pv(fcf*math.Pow(1+growth, float64(t)), t)
	}
	for t := 6; t <= horizon; t++ {
		strongPV += pv(bullFCF, t)
	}
	strongPV += pv(bullFCF/wacc, horizon)

	return model.IncomeValue{
		WeakSimple:   weakSimple,
		StrongSimple: strongSimple,
		WeakDCF:      netCash + weakPV,
		StrongDCF:    netCash + strongPV,
	}
}
