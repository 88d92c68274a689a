// Package economy implements production accounting, build-order
// validation, facility/colony queue routing, construction advancement, and
// commissioning (spec.md §4.4).
package economy

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/espionage"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/mathx"
	"github.com/ec4x/engine/internal/state"
)

// ColonyOutput is one colony's computed gross/net production for the turn.
type ColonyOutput struct {
	ColonyID    id.ColonyId
	Gross       int
	TaxRate     int
	Collected   int // into house treasury
	Blockaded   bool
	MoraleNext  int // morale delta applied in this same Income Phase if tax rate crosses a band
}

func colonyTaxRate(h state.House, c state.Colony) int {
	if c.TaxOverride != nil {
		return *c.TaxOverride
	}
	return h.TaxRate
}

func starbaseGrowthBonus(st *state.GameState, c state.Colony) float64 {
	bonus := 0.0
	for _, kid := range c.KastraIDs {
		k, ok := st.GetKastra(kid)
		if !ok || k.Crippled {
			continue
		}
		bonus += 0.05
	}
	return bonus
}

// ComputeColonyOutput computes one colony's gross production and the
// portion collected into its owner's treasury this Income Phase (spec.md
// §4.4 "Production"). Blockaded colonies produce nothing this turn.
func ComputeColonyOutput(st *state.GameState, cfg *config.Config, c state.Colony, h state.House) ColonyOutput {
	out := ColonyOutput{ColonyID: c.ID, Blockaded: c.Blockaded, TaxRate: colonyTaxRate(h, c)}
	if c.Blockaded {
		return out
	}
	base := float64(c.PopulationUnits) * (1.0 + float64(c.Infrastructure)/100.0)
	base *= 1.0 + cfg.Economy.BaseGrowthRate
	base *= 1.0 + starbaseGrowthBonus(st, c)
	out.Gross = mathx.RoundHalfUp(base)
	out.Collected = mathx.RoundHalfUp(float64(out.Gross) * float64(out.TaxRate) / 100.0)

	for threshold, delta := range cfg.Economy.TaxBandMoraleEffect {
		if out.TaxRate >= threshold {
			out.MoraleNext = mathx.Min(out.MoraleNext, delta)
		}
	}
	return out
}

// RunIncomePhase computes and collects production for every colony, in
// canonical colony-id order, and applies any same-turn morale adjustment
// recorded by a tax band crossing. It returns the per-colony outputs for
// callers (e.g. treasury-conservation tests) that want to inspect them.
func RunIncomePhase(st *state.GameState, cfg *config.Config, turn int, log *event.Log) []ColonyOutput {
	var outputs []ColonyOutput
	for _, cid := range st.ColonyIdsSorted() {
		c, ok := st.GetColony(cid)
		if !ok {
			continue
		}
		h, ok := st.GetHouse(c.Owner)
		if !ok || h.Eliminated {
			continue
		}
		out := ComputeColonyOutput(st, cfg, c, h)
		outputs = append(outputs, out)

		st.MutateHouse(c.Owner, func(house *state.House) {
			house.Treasury += out.Collected
		})
		if out.MoraleNext != 0 {
			st.MutateColony(cid, func(col *state.Colony) {
				col.Morale += out.MoraleNext
			})
		}
	}
	RunResearchAndEspionageAccrual(st, cfg, turn, log)
	espionage.AgeIntelReports(st, turn)
	return outputs
}
