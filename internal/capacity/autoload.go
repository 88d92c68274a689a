package capacity

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// shipsPerFullFighterSquadron mirrors economy.shipsPerFullFighterSquadron;
// fighters here are colony-level counts rather than individual Ship
// records, so embarking them onto a carrier appends that many placeholder
// entries to Embarked purely to hold the loaded count (spec.md §4.4).
const shipsPerFullFighterSquadron = 12

// AutoLoadFighters loads a colony's complete fighter squadrons into spare
// carrier hangar capacity of co-located friendly fleets (spec.md §4.4,
// "Planet-side fighter auto-load"). Partial squadrons load only once no
// full squadrons remain and hangar space is still available. Runs in the
// Command Phase, after planetary and ship commissioning for the turn.
func AutoLoadFighters(st *state.GameState, cfg *config.Config, turn int, log *event.Log) {
	for _, cid := range st.ColonyIdsSorted() {
		c, ok := st.GetColony(cid)
		if !ok || len(c.FighterSquadrons) == 0 {
			continue
		}
		carriers := carriersAt(st, c)
		if len(carriers) == 0 {
			continue
		}

		h, _ := st.GetHouse(c.Owner)
		aco := h.TechLevels[state.TechAdvancedCarrierOps]

		remaining := append([]state.FighterSquadron(nil), c.FighterSquadrons...)
		loadedAny := false

		for fi := 0; fi < len(remaining) && len(remaining) > 0; {
			fs := remaining[fi]
			full := fs.ShipCount >= shipsPerFullFighterSquadron
			carrier, room, ok := firstCarrierWithRoom(st, cfg, carriers, aco, fs.ShipCount, full)
			if !ok {
				fi++
				continue
			}
			loadCount := fs.ShipCount
			if loadCount > room {
				loadCount = room
			}
			st.MutateShip(carrier, func(s *state.Ship) {
				for i := 0; i < loadCount; i++ {
					s.Embarked = append(s.Embarked, id.ShipId{})
				}
			})
			loadedAny = true
			if loadCount >= fs.ShipCount {
				remaining = append(remaining[:fi], remaining[fi+1:]...)
			} else {
				remaining[fi].ShipCount -= loadCount
				fi++
			}
		}

		if loadedAny {
			st.MutateColony(cid, func(col *state.Colony) { col.FighterSquadrons = remaining })
			if log != nil {
				log.Emit(turn, event.PhaseCommand, event.KindUnitRecruited, map[string]any{
					"colony": cid, "fighter_autoload": true,
				})
			}
		}
	}
}

func carriersAt(st *state.GameState, c state.Colony) []id.ShipId {
	var out []id.ShipId
	for _, fid := range st.FleetsByLocation.GetSorted(c.SystemID, func(a, b id.FleetId) bool { return a.Less(b) }) {
		f, ok := st.GetFleet(fid)
		if !ok || f.Owner != c.Owner || f.Status != state.FleetActive {
			continue
		}
		for _, qid := range f.Squadrons {
			q, ok := st.GetSquadron(qid)
			if !ok {
				continue
			}
			ships := append([]id.ShipId{q.Flagship}, q.Escorts...)
			for _, sid := range ships {
				if sh, ok := st.GetShip(sid); ok && isCarrierClass(sh.Class) {
					out = append(out, sid)
				}
			}
		}
	}
	return out
}

func firstCarrierWithRoom(st *state.GameState, cfg *config.Config, carriers []id.ShipId, aco, want int, fullSquadron bool) (id.ShipId, int, bool) {
	for _, cid := range carriers {
		sh, ok := st.GetShip(cid)
		if !ok {
			continue
		}
		max := hangarCapacity(cfg, sh.Class, aco)
		room := max - len(sh.Embarked)
		if room <= 0 {
			continue
		}
		if fullSquadron && room < want {
			continue
		}
		return cid, room, true
	}
	return id.ShipId{}, 0, false
}
