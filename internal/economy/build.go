package economy

import (
	"fmt"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// BuildRequest is one Command-Phase build order (spec.md §4.4).
type BuildRequest struct {
	ColonyID id.ColonyId
	Type     state.ProjectType
	Item     string // ShipClass / FacilityKind / ground-unit key, as config lookup key
	Count    int
}

// Ledger accumulates committed spend across every build request in one
// house's command packet, so a second order cannot spend treasury a prior
// order in the same packet already claimed (spec.md §4.4, "a per-packet
// committed-spending accumulator prevents double-spending").
type Ledger struct {
	spent map[id.HouseId]int
}

// NewLedger returns an empty per-packet spending ledger.
func NewLedger() *Ledger { return &Ledger{spent: make(map[id.HouseId]int)} }

func dockFreeShipClass(class state.ShipClass) bool {
	switch class {
	case state.ShipFighter, state.ShipETAC, state.ShipTroopTransport:
		return true
	default:
		return false
	}
}

// nonFighterSpaceportPenaltyPct is the construction-cost surcharge applied
// when a dock-class ship is built using only Spaceport capacity rather than
// a dedicated Shipyard (spec.md §4.4).
const nonFighterSpaceportPenaltyPct = 100

// ValidateAndCommit checks req against ownership, dock availability,
// treasury (from which earlier orders in the packet have already been
// debited), and per-house capacity pre-checks, then — only if every check
// passes — debits the house treasury, records the spend in ledger, enqueues
// the project on its host facility or colony queue, and returns it. On failure it
// emits OrderRejected and returns ok=false; nothing is mutated.
func ValidateAndCommit(st *state.GameState, cfg *config.Config, ledger *Ledger, turn int, owner id.HouseId, req BuildRequest, log *event.Log) (state.ConstructionProject, bool) {
	reject := func(reason string) (state.ConstructionProject, bool) {
		if log != nil {
			log.Emit(turn, event.PhaseCommand, event.KindOrderRejected, map[string]any{
				"house":  owner,
				"colony": req.ColonyID,
				"reason": reason,
			})
		}
		return state.ConstructionProject{}, false
	}

	c, ok := st.GetColony(req.ColonyID)
	if !ok || c.Owner != owner {
		return reject("colony not owned by submitting house")
	}
	h, ok := st.GetHouse(owner)
	if !ok || h.Eliminated {
		return reject("house not active")
	}

	cost, hostNeoria, reason, ok := resolveCostAndDock(st, cfg, c, req)
	if !ok {
		return reject(reason)
	}

	already := ledger.spent[owner]
	if h.Treasury < cost {
		return reject("insufficient treasury")
	}

	if reason, ok := checkCapacity(st, cfg, h, req); !ok {
		return reject(reason)
	}

	ledger.spent[owner] = already + cost
	st.MutateHouse(owner, func(house *state.House) { house.Treasury -= cost })

	buildTime := buildTimeTurns(cfg, req)
	p := state.ConstructionProject{
		ID:             st.Allocator.NewConstructionProjectId(),
		ColonyID:       req.ColonyID,
		Type:           req.Type,
		Item:           req.Item,
		Count:          req.Count,
		CostTotal:      cost,
		TurnsRemaining: buildTime,
		HostNeoria:     hostNeoria,
	}
	st.PutConstructionProject(p)

	if hostNeoria != nil {
		n, ok := st.GetNeoria(*hostNeoria)
		if ok {
			n.ActiveProjects = append(n.ActiveProjects, p.ID)
			st.PutNeoria(n)
		}
	} else {
		st.MutateColony(req.ColonyID, func(col *state.Colony) {
			col.ConstructionQueue = append(col.ConstructionQueue, p.ID)
			if col.ActiveProject == nil && len(col.ConstructionQueue) == 1 {
				first := col.ConstructionQueue[0]
				col.ActiveProject = &first
			}
		})
	}

	if log != nil {
		log.Emit(turn, event.PhaseCommand, event.KindConstructionStarted, map[string]any{
			"house":  owner,
			"colony": req.ColonyID,
			"item":   req.Item,
			"cost":   cost,
		})
	}
	return p, true
}

func buildTimeTurns(cfg *config.Config, req BuildRequest) int {
	switch req.Type {
	case state.ProjectFacility:
		row := cfg.Facilities[state.FacilityKind(req.Item)]
		if row.BuildTimeTurns > 0 {
			return row.BuildTimeTurns
		}
		return 1
	case state.ProjectTerraform:
		if cfg.Economy.TerraformTurns > 0 {
			return cfg.Economy.TerraformTurns
		}
		return 1
	}
	return 1
}

// resolveCostAndDock computes req's total cost and, for dock-class ships,
// the hosting neoria, applying the Spaceport-only surcharge and the
// Shipyard/Drydock prerequisite chain (spec.md §4.4).
func resolveCostAndDock(st *state.GameState, cfg *config.Config, c state.Colony, req BuildRequest) (cost int, hostNeoria *id.NeoriaId, reason string, ok bool) {
	switch req.Type {
	case state.ProjectFacility:
		kind := state.FacilityKind(req.Item)
		row, known := cfg.Facilities[kind]
		if !known {
			return 0, nil, "unknown facility kind", false
		}
		if reason, ok := checkFacilityPrereqs(st, c, kind); !ok {
			return 0, nil, reason, false
		}
		return row.Cost, nil, "", true

	case state.ProjectGround:
		row, known := cfg.GroundUnits[req.Item]
		if !known {
			return 0, nil, "unknown ground unit", false
		}
		count := req.Count
		if count < 1 {
			count = 1
		}
		return row.Cost * count, nil, "", true

	case state.ProjectTerraform:
		return cfg.Economy.TerraformCost, nil, "", true

	case state.ProjectShip:
		class := state.ShipClass(req.Item)
		row, known := cfg.Ships[class]
		if !known {
			return 0, nil, "unknown ship class", false
		}
		cost = row.ConstructionCost

		if dockFreeShipClass(class) {
			return cost, nil, "", true
		}
		dock, dockCost, reason, ok := findDockSlot(st, c, cost)
		if !ok {
			return 0, nil, reason, false
		}
		return dockCost, dock, "", true

	default:
		return 0, nil, "unknown project type", false
	}
}

func checkFacilityPrereqs(st *state.GameState, c state.Colony, kind state.FacilityKind) (string, bool) {
	have := make(map[state.FacilityKind]bool)
	for _, nid := range c.NeoriaIDs {
		n, ok := st.GetNeoria(nid)
		if ok {
			have[n.Kind] = true
		}
	}
	switch kind {
	case state.FacilityShipyard, state.FacilityDrydock:
		if !have[state.FacilitySpaceport] {
			return fmt.Sprintf("%s requires a prior Spaceport", kind), false
		}
	}
	return "", true
}

// findDockSlot looks for an available dock slot at a same-colony Spaceport
// or Shipyard. A Spaceport-only slot carries a 100% cost surcharge for
// non-fighter ships (spec.md §4.4).
func findDockSlot(st *state.GameState, c state.Colony, baseCost int) (*id.NeoriaId, int, string, bool) {
	var spaceport *id.NeoriaId
	for _, nid := range c.NeoriaIDs {
		n, ok := st.GetNeoria(nid)
		if !ok {
			continue
		}
		used := dockSlotsInUse(st, nid)
		switch n.Kind {
		case state.FacilityShipyard:
			if used < n.EffectiveDocks {
				slot := nid
				return &slot, baseCost, "", true
			}
		case state.FacilitySpaceport:
			if used < n.EffectiveDocks {
				slot := nid
				spaceport = &slot
			}
		}
	}
	if spaceport != nil {
		surcharge := baseCost * nonFighterSpaceportPenaltyPct / 100
		return spaceport, baseCost + surcharge, "", true
	}
	return nil, 0, "no available dock slot", false
}

func dockSlotsInUse(st *state.GameState, host id.NeoriaId) int {
	n := 0
	for _, pid := range st.ProjectsByFacility.Get(host) {
		if p, ok := st.GetConstructionProject(pid); ok && p.Type == state.ProjectShip {
			n++
		}
	}
	return n
}

// checkCapacity enforces the per-house pre-check named by spec.md §4.4:
// a planet-breaker build must keep current-plus-queued planet-breakers
// strictly below the house's colony count. Carrier builds are not checked
// here; hangar load is limited when fighters are loaded onto carriers and
// by the capacity enforcer in the Maintenance Phase.
func checkCapacity(st *state.GameState, cfg *config.Config, h state.House, req BuildRequest) (string, bool) {
	if req.Type != state.ProjectShip {
		return "", true
	}
	class := state.ShipClass(req.Item)
	if class != state.ShipPlanetBreaker {
		return "", true
	}
	colonyCount := len(st.ColoniesByOwner.Get(h.ID))
	count := 0
	for _, qid := range st.SquadronsByOwner.Get(h.ID) {
		q, _ := st.GetSquadron(qid)
		if flag, ok := st.GetShip(q.Flagship); ok && flag.Class == state.ShipPlanetBreaker {
			count++
		}
	}
	for _, cid := range st.ColoniesByOwner.Get(h.ID) {
		for _, pid := range st.ProjectsByColony.Get(cid) {
			if p, ok := st.GetConstructionProject(pid); ok && p.Type == state.ProjectShip && state.ShipClass(p.Item) == state.ShipPlanetBreaker {
				count++
			}
		}
	}
	if count >= colonyCount {
		return "planet-breaker cap reached for house colony count", false
	}
	return "", true
}
