package economy

import (
	"sort"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/state"
)

// espionageConversionRate is how many EBP one treasury unit of pending
// espionage spend buys; CIP accrues at a quarter of that rate as a baseline
// counter-intelligence trickle independent of active missions.
const (
	espionageConversionRate = 1.0
	cipAccrualRate          = 0.25
)

var techFieldOrder = []state.TechField{
	state.TechConstruction, state.TechWeapons, state.TechShields,
	state.TechEconomic, state.TechScience, state.TechELI, state.TechCLK,
	state.TechCIC, state.TechStrategicLift, state.TechFleetCommand,
	state.TechStrategicCommand, state.TechFighterDoctrine,
	state.TechAdvancedCarrierOps, state.TechTerraforming,
}

// RunResearchAndEspionageAccrual applies each house's Command-Phase research
// and espionage allocations during the Income Phase (spec.md §4.4 banks
// research toward the next tech level; §4.9 banks espionage spend into EBP).
// A field levels up when its accrued TechProgress meets or exceeds the next
// level's configured Cost; leftover progress carries over.
func RunResearchAndEspionageAccrual(st *state.GameState, cfg *config.Config, turn int, log *event.Log) {
	for _, hid := range st.HouseIdsSorted() {
		h, ok := st.GetHouse(hid)
		if !ok || h.Eliminated {
			continue
		}

		var leveled []state.TechField
		st.MutateHouse(hid, func(house *state.House) {
			for _, field := range techFieldOrder {
				spend := house.PendingResearch[field]
				if spend == 0 {
					continue
				}
				if house.TechProgress == nil {
					house.TechProgress = map[state.TechField]int{}
				}
				house.TechProgress[field] += spend

				table := cfg.Tech[field]
				for {
					next := house.TechLevels[field] + 1
					row, ok := table[next]
					if !ok || row.Cost <= 0 || house.TechProgress[field] < row.Cost {
						break
					}
					house.TechProgress[field] -= row.Cost
					house.TechLevels[field] = next
					leveled = append(leveled, field)
				}
			}
			house.PendingResearch = map[state.TechField]int{}

			if house.PendingEspionageSpend > 0 {
				house.EBP += int(float64(house.PendingEspionageSpend) * espionageConversionRate)
				house.CIP += int(float64(house.PendingEspionageSpend) * cipAccrualRate)
				house.PendingEspionageSpend = 0
			}
		})

		sort.Slice(leveled, func(i, j int) bool { return leveled[i] < leveled[j] })
		for _, field := range leveled {
			amount := cfg.Prestige[state.PrestigeTechBreakthrough].BaseAmount
			if amount == 0 {
				amount = 10
			}
			st.AppendPrestige(state.PrestigeEvent{
				House:  hid,
				Turn:   turn,
				Source: state.PrestigeTechBreakthrough,
				Amount: amount,
				Reason: string(field),
			})
			if log != nil {
				log.Emit(turn, event.PhaseIncome, event.KindPrestigeAwarded, map[string]any{
					"house":  hid,
					"field":  string(field),
					"amount": amount,
				})
			}
		}
	}
}
