package series

import (
	"math"

	"github.com/yamato-research/kessan-cli/internal/model"
)

// Synthesize derives composite concepts for every observed date:
//
//	debt   = debt_short + debt_long + bonds, recorded only when non-zero
//	fcf    = ocf - |capex|, when both inputs exist
//	ebitda = op + |dep_amort|, when both inputs exist
//
// The debt zero-guard means a company whose borrowings all net to exactly
// zero shows debt as unobserved rather than zero. That conflation of "no
// data" and "genuinely debt-free" is an accepted approximation.
func Synthesize(b Bundle) {
	for _, d := range b.Dates() {
		short, _ := b.Get("debt_short", d)
		long, _ := b.Get("debt_long", d)
		bonds, _ := b.Get("bonds", d)
		if debt := short + long + bonds; debt != 0 {
			b.Set(model.KeyDebt, d, debt)
		}

		if ocf, ok := b.Get("ocf", d); ok {
			if capex, ok := b.Get("capex", d); ok {
				b.Set(model.KeyFCF, d, ocf-math.Abs(capex))
			}
		}

		if op, ok := b.Get("op", d); ok {
			if dep, ok := b.Get("dep_amort", d); ok {
				b.Set(model.KeyEBITDA, d, op+math.Abs(dep))
			}
		}
	}
}

// SynthKeys lists the concept keys Synthesize may add.
func SynthKeys() []string {
	return []string{model.KeyDebt, model.KeyFCF, model.KeyEBITDA}
}
