package economy

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// RunMaintenancePhaseUpkeep computes each house's total ship and facility
// maintenance, deducts it from treasury, and tracks consecutive shortfalls
// through to the DefensiveCollapse status (spec.md §4.4, "Production":
// "shortfall of maintenance deducts from treasury, and if treasury cannot
// cover, triggers consecutive-shortfall counter and prestige penalty").
func RunMaintenancePhaseUpkeep(st *state.GameState, cfg *config.Config, turn int, log *event.Log) {
	for _, hid := range st.HouseIdsSorted() {
		h, ok := st.GetHouse(hid)
		if !ok || h.Eliminated {
			continue
		}
		cost := houseMaintenanceCost(st, cfg, hid)
		if h.Treasury >= cost {
			st.MutateHouse(hid, func(house *state.House) {
				house.Treasury -= cost
				house.ConsecutiveShortfallTurns = 0
			})
			continue
		}

		st.MutateHouse(hid, func(house *state.House) {
			house.Treasury = 0
			house.ConsecutiveShortfallTurns++
		})
		st.AppendPrestige(state.PrestigeEvent{
			House: hid, Turn: turn, Source: state.PrestigeMaintenanceShortfall,
			Amount: -cfg.Economy.ShortfallPrestigePenalty,
		})
		if log != nil {
			log.Emit(turn, event.PhaseMaintenance, event.KindPrestigePenalized, map[string]any{
				"house": hid, "source": string(state.PrestigeMaintenanceShortfall),
			})
		}

		h, _ = st.GetHouse(hid)
		if h.ConsecutiveShortfallTurns >= cfg.Economy.DefensiveCollapseTurns && h.Status == state.HouseActive {
			st.MutateHouse(hid, func(house *state.House) { house.Status = state.HouseDefensiveCollapse })
		}
	}
}

// houseMaintenanceCost sums ship upkeep (at full rate, reserve rate, or
// mothballed rate per fleet status) and facility upkeep across every asset
// the house owns.
func houseMaintenanceCost(st *state.GameState, cfg *config.Config, owner id.HouseId) int {
	total := 0
	for _, fid := range st.FleetsByOwner.Get(owner) {
		f, ok := st.GetFleet(fid)
		if !ok {
			continue
		}
		rate := fleetMaintenanceRate(cfg, f.Status)
		for _, qid := range f.Squadrons {
			q, ok := st.GetSquadron(qid)
			if !ok {
				continue
			}
			ships := append([]id.ShipId{q.Flagship}, q.Escorts...)
			for _, sid := range ships {
				if sh, ok := st.GetShip(sid); ok {
					total += int(float64(cfg.Ships[sh.Class].Maintenance) * rate)
				}
			}
		}
		for _, sid := range f.SpaceliftShips {
			if sh, ok := st.GetShip(sid); ok {
				total += int(float64(cfg.Ships[sh.Class].Maintenance) * rate)
			}
		}
	}
	for _, cid := range st.ColoniesByOwner.Get(owner) {
		c, ok := st.GetColony(cid)
		if !ok {
			continue
		}
		for _, nid := range c.NeoriaIDs {
			if n, ok := st.GetNeoria(nid); ok {
				total += cfg.Facilities[n.Kind].Maintenance
			}
		}
	}
	return total
}

func fleetMaintenanceRate(cfg *config.Config, status state.FleetStatus) float64 {
	switch status {
	case state.FleetReserve:
		return cfg.Economy.ReserveMaintenancePct
	case state.FleetMothballed:
		return cfg.Economy.MothballedMaintenancePct
	default:
		return 1.0
	}
}
