// Package metrics computes health, profitability, growth, valuation and
// price-multiple tables from current/previous snapshots.
//
// Every ratio goes through SafeDiv: a missing or zero denominator yields nil,
// never a panic, an Inf, or an implicit zero. Formatting a nil value yields
// an empty string so the display layer shows a blank cell.
package metrics

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Default valuation assumptions, overridable per snapshot or config.
const (
	DefaultWACC    = 0.10
	DefaultGrowth  = 0.20
	DefaultHorizon = 10
	DefaultTaxRate = 0.30
)

// missingAgainstMax substitutes for a missing ratio in "<=" style checks so
// missing data fails the check instead of passing it.
const missingAgainstMax = 1e9

// Assumptions parameterize the income-value estimates.
type Assumptions struct {
	WACC         float64
	BullGrowth   float64
	HorizonYears int
}

// DefaultAssumptions returns the standard 10% WACC, 20% bull growth,
// 10-year horizon.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		WACC:         DefaultWACC,
		BullGrowth:   DefaultGrowth,
		HorizonYears: DefaultHorizon,
	}
}

// SafeDiv divides a by b, returning nil when either side is missing or the
// denominator is zero.
func SafeDiv(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	v := *a / *b
	return &v
}

var numPrinter = message.NewPrinter(language.English)

// FmtPct formats a ratio as a percentage with the given digits, "" for nil.
func FmtPct(v *float64, digits int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.*f%%", digits, *v*100)
}

// FmtNum formats a value with thousands separators, "" for nil.
func FmtNum(v *float64, digits int) string {
	if v == nil {
		return ""
	}
	return numPrinter.Sprint(number.Decimal(*v,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))
}

// FmtRatio formats a multiple with two decimals, "" for nil.
func FmtRatio(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func ptr(v float64) *float64 { return &v }

func orElse(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
