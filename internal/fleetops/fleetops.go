// Package fleetops turns completed ship-construction projects into
// squadrons merged into fleets at their commissioning colony, following the
// auto-assignment rules of spec.md §4.5.
package fleetops

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// capitalCommandRatingThreshold is the CommandRating at or above which a
// ship always starts its own squadron rather than joining as an escort
// (spec.md §4.5, "Capital ships... always start a new squadron").
const capitalCommandRatingThreshold = 3

// ScoutMeshBonus maps a co-located scout count to its
// intelligence bonus (spec.md §4.4, "+1 at 2-3 scouts, +2 at 4-5, +3 at 6+").
func ScoutMeshBonus(n int) int {
	switch {
	case n >= 6:
		return 3
	case n >= 4:
		return 2
	case n >= 2:
		return 1
	default:
		return 0
	}
}

// CommissionShips turns every completed ship-class project into hulls and
// assigns them to squadrons/fleets at their colony's system (spec.md §4.4
// "Ship commissioning", §4.5 "Fleet Composition & Auto-Assignment"). It runs
// in the Command Phase, one turn after the Maintenance Phase finished the
// underlying construction.
func CommissionShips(st *state.GameState, cfg *config.Config, turn int, completed []state.ConstructionProject, log *event.Log) {
	for _, p := range completed {
		class := state.ShipClass(p.Item)
		c, ok := st.GetColony(p.ColonyID)
		if !ok {
			continue
		}
		count := p.Count
		if count < 1 {
			count = 1
		}
		row := cfg.Ships[class]

		for i := 0; i < count; i++ {
			sh := state.Ship{
				ID:        st.Allocator.NewShipId(),
				Class:     class,
				TechLevel: hullTechLevel(st, c.Owner, class),
				State:     state.ShipUndamaged,
				Owner:     c.Owner,
			}
			if class == state.ShipETAC {
				sh.Cargo = &state.CargoHold{CargoType: "colonists", Quantity: row.CargoCapacity}
			}
			st.PutShip(sh)
			assignShip(st, cfg, c, sh, row, turn, log)
		}
	}
}

func hullTechLevel(st *state.GameState, owner id.HouseId, class state.ShipClass) int {
	h, ok := st.GetHouse(owner)
	if !ok {
		return 0
	}
	return h.TechLevels[state.TechConstruction]
}

func assignShip(st *state.GameState, cfg *config.Config, c state.Colony, sh state.Ship, row config.ShipRow, turn int, log *event.Log) {
	switch sh.Class {
	case state.ShipScout:
		assignScout(st, c, sh, turn, log)
	case state.ShipETAC:
		createDedicatedFleet(st, c, sh, state.SquadronExpansion, turn)
	case state.ShipTroopTransport:
		createDedicatedFleet(st, c, sh, state.SquadronAuxiliary, turn)
	default:
		assignCombatShip(st, cfg, c, sh, row, turn)
	}
}

// assignCombatShip implements the capital/escort auto-join rule: capital
// ships (command rating at/above threshold) always start a new squadron;
// other hulls try to join a stationary, non-specialized squadron at the
// colony's system with spare command capacity before starting their own.
func assignCombatShip(st *state.GameState, cfg *config.Config, c state.Colony, sh state.Ship, row config.ShipRow, turn int) {
	isCapital := row.IsCapitalShip || row.CommandRating >= capitalCommandRatingThreshold

	if !isCapital {
		for _, fid := range st.FleetsByLocation.GetSorted(c.SystemID, func(a, b id.FleetId) bool { return a.Less(b) }) {
			f, ok := st.GetFleet(fid)
			if !ok || f.Owner != sh.Owner || !stationary(f) {
				continue
			}
			for _, qid := range f.Squadrons {
				q, ok := st.GetSquadron(qid)
				if !ok || q.Type != state.SquadronCombat {
					continue
				}
				flag, ok := st.GetShip(q.Flagship)
				if !ok {
					continue
				}
				slots := cfg.Ships[flag.Class].CommandRating
				if len(q.Escorts) < slots {
					st.MutateSquadron(qid, func(sq *state.Squadron) { sq.Escorts = append(sq.Escorts, sh.ID) })
					return
				}
			}
		}
	}

	q := state.Squadron{
		ID:       st.Allocator.NewSquadronId(),
		Flagship: sh.ID,
		Owner:    sh.Owner,
		Location: c.SystemID,
		Type:     state.SquadronCombat,
		Role:     state.RoleTactical,
	}
	st.PutSquadron(q)
	joinOrCreateFleet(st, c, sh.Owner, q.ID, turn)
}

func stationary(f state.Fleet) bool {
	if f.Status != state.FleetActive {
		return false
	}
	return f.Order == nil
}

func joinOrCreateFleet(st *state.GameState, c state.Colony, owner id.HouseId, qid id.SquadronId, turn int) {
	for _, fid := range st.FleetsByLocation.GetSorted(c.SystemID, func(a, b id.FleetId) bool { return a.Less(b) }) {
		f, ok := st.GetFleet(fid)
		if !ok || f.Owner != owner || !stationary(f) {
			continue
		}
		if fleetKind(st, f) != state.SquadronCombat {
			continue
		}
		st.MutateFleet(fid, func(ff *state.Fleet) { ff.Squadrons = append(ff.Squadrons, qid) })
		return
	}
	f := state.Fleet{
		ID:        st.Allocator.NewFleetId(),
		Owner:     owner,
		Location:  c.SystemID,
		Squadrons: []id.SquadronId{qid},
		Status:    state.FleetActive,
	}
	st.PutFleet(f)
}

// fleetKind reports the squadron type of a fleet's first squadron; an empty
// fleet, or one whose first squadron is missing, counts as a combat fleet.
// Scout and ETAC fleets never merge into mixed fleets (spec.md §4.5).
func fleetKind(st *state.GameState, f state.Fleet) state.SquadronType {
	if len(f.Squadrons) == 0 {
		return state.SquadronCombat
	}
	q, ok := st.GetSquadron(f.Squadrons[0])
	if !ok {
		return state.SquadronCombat
	}
	return q.Type
}

// assignScout coalesces newly commissioned scouts into a dedicated
// scout-only fleet at the colony (spec.md §4.4). When the scout joins an
// existing scout fleet, the mesh-network bonus for that fleet's squadron
// count is reported; no bonus is reported when a new fleet is started.
func assignScout(st *state.GameState, c state.Colony, sh state.Ship, turn int, log *event.Log) {
	q := state.Squadron{
		ID:       st.Allocator.NewSquadronId(),
		Flagship: sh.ID,
		Owner:    sh.Owner,
		Location: c.SystemID,
		Type:     state.SquadronIntel,
		Role:     state.RoleRecon,
	}
	st.PutSquadron(q)

	for _, fid := range st.FleetsByLocation.GetSorted(c.SystemID, func(a, b id.FleetId) bool { return a.Less(b) }) {
		f, ok := st.GetFleet(fid)
		if !ok || f.Owner != sh.Owner || fleetKind(st, f) != state.SquadronIntel {
			continue
		}
		st.MutateFleet(fid, func(mf *state.Fleet) { mf.Squadrons = append(mf.Squadrons, q.ID) })
		updated, _ := st.GetFleet(fid)
		emitMeshBonus(log, turn, updated)
		return
	}
	f := state.Fleet{
		ID:        st.Allocator.NewFleetId(),
		Owner:     sh.Owner,
		Location:  c.SystemID,
		Squadrons: []id.SquadronId{q.ID},
		Status:    state.FleetActive,
	}
	st.PutFleet(f)
}

func emitMeshBonus(log *event.Log, turn int, f state.Fleet) {
	if log == nil {
		return
	}
	bonus := ScoutMeshBonus(len(f.Squadrons))
	if bonus > 0 {
		log.Emit(turn, event.PhaseCommand, event.KindUnitRecruited, map[string]any{
			"fleet": f.ID,
			"mesh_bonus": bonus,
		})
	}
}

// createDedicatedFleet commissions an ETAC or troop transport into its own
// single-ship fleet whose squadron has the given kind (spec.md §4.4).
func createDedicatedFleet(st *state.GameState, c state.Colony, sh state.Ship, kind state.SquadronType, turn int) {
	q := state.Squadron{
		ID:       st.Allocator.NewSquadronId(),
		Flagship: sh.ID,
		Owner:    sh.Owner,
		Location: c.SystemID,
		Type:     kind,
		Role:     state.RoleTactical,
	}
	st.PutSquadron(q)
	f := state.Fleet{
		ID:        st.Allocator.NewFleetId(),
		Owner:     sh.Owner,
		Location:  c.SystemID,
		Squadrons: []id.SquadronId{q.ID},
		Status:    state.FleetActive,
	}
	st.PutFleet(f)
}
