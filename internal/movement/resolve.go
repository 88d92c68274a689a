package movement

import (
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// Intent is one fleet's gathered movement plan for this turn, computed
// before any fleet actually moves (spec.md §4.6, "Movement is resolved
// simultaneously: intents are gathered, then applied...").
type Intent struct {
	FleetID    id.FleetId
	Path       []id.SystemId // full remaining route, path[0] == current location
	HopsWanted int
}

// Rejected records a movement order that failed validation.
type Rejected struct {
	FleetID id.FleetId
	Reason  string
}

// Result is the outcome of applying every gathered intent.
type Result struct {
	NewLocation      map[id.FleetId]id.SystemId
	RemainingPath    map[id.FleetId][]id.SystemId
	Merged           map[id.FleetId]id.FleetId // fleet id -> surviving fleet id it merged into
	ContestedSystems []id.SystemId
	Rejected         []Rejected
}

func fleetCapabilities(st *state.GameState, f state.Fleet) (hasCrippled, hasSpacelift bool) {
	hasSpacelift = len(f.SpaceliftShips) > 0
	for _, qid := range f.Squadrons {
		q, ok := st.GetSquadron(qid)
		if !ok {
			continue
		}
		ships := append([]id.ShipId{q.Flagship}, q.Escorts...)
		for _, sid := range ships {
			sh, ok := st.GetShip(sid)
			if ok && sh.State == state.ShipCrippled {
				hasCrippled = true
			}
		}
	}
	return
}

// GatherIntents builds one Intent per movable fleet that has a pending
// move-shaped order (MoveTo, Patrol, Rendezvous, Blockade, Bombard, Invade,
// Blitz). Reserve/Mothballed fleets
// and fleets with no movement order are skipped entirely (spec.md §4.6).
func GatherIntents(st *state.GameState) ([]Intent, []Rejected) {
	var intents []Intent
	var rejected []Rejected

	for _, fid := range st.FleetIdsSorted() {
		f, ok := st.GetFleet(fid)
		if !ok {
			continue
		}
		if f.Status != state.FleetActive {
			continue
		}
		order := activeOrder(f)
		if order == nil {
			continue
		}
		target := order.Target
		if len(order.Path) > 0 {
			target = order.Path[len(order.Path)-1]
		}
		if !isMovementKind(order.Kind) || target == f.Location {
			continue
		}

		hasCrippled, hasSpacelift := fleetCapabilities(st, f)
		path := FindPath(st, f.Location, target, hasCrippled, hasSpacelift)
		if path == nil {
			rejected = append(rejected, Rejected{FleetID: fid, Reason: "no valid path"})
			continue
		}
		hops := HopsAllowedThisTurn(st, path, f.Owner)
		if blocked := firstRestrictedBlock(st, path, hops, hasCrippled, hasSpacelift); blocked {
			rejected = append(rejected, Rejected{FleetID: fid, Reason: "restricted lane blocked"})
			continue
		}
		intents = append(intents, Intent{FleetID: fid, Path: path, HopsWanted: hops})
	}
	return intents, rejected
}

func isMovementKind(k state.FleetOrderKind) bool {
	switch k {
	case state.OrderMoveTo, state.OrderPatrol, state.OrderRendezvous,
		state.OrderBlockade, state.OrderBombard, state.OrderInvade, state.OrderBlitz:
		return true
	default:
		return false
	}
}

func activeOrder(f state.Fleet) *state.FleetOrder {
	if f.Order != nil {
		return f.Order
	}
	if f.Standing != nil && f.Standing.Enabled && f.Standing.TurnsUntilActivation <= 0 {
		o := f.Standing.Order
		return &o
	}
	return nil
}

func firstRestrictedBlock(st *state.GameState, path []id.SystemId, hops int, hasCrippled, hasSpacelift bool) bool {
	steps := hops
	if steps > len(path)-1 {
		steps = len(path) - 1
	}
	for i := 0; i < steps; i++ {
		cls, ok := laneClassBetween(st, path[i], path[i+1])
		if ok && !CanTraverse(cls, hasCrippled, hasSpacelift) {
			return true
		}
	}
	return false
}

// Apply moves every gathered intent in canonical (fleet id) order, merges
// fleets that land on the same system under the same owner into the
// lowest-id fleet, and reports every system (arrival or not) where active
// fleets of two or more owners now sit, whatever their diplomatic relation,
// as contested (spec.md §4.6).
func Apply(st *state.GameState, intents []Intent) Result {
	res := Result{
		NewLocation:   make(map[id.FleetId]id.SystemId),
		RemainingPath: make(map[id.FleetId][]id.SystemId),
		Merged:        make(map[id.FleetId]id.FleetId),
	}

	sorted := sortIntents(intents)

	for _, it := range sorted {
		f, ok := st.GetFleet(it.FleetID)
		if !ok {
			continue
		}
		steps := it.HopsWanted
		if steps > len(it.Path)-1 {
			steps = len(it.Path) - 1
		}
		newLoc := it.Path[steps]
		remaining := it.Path[steps:]

		f.Location = newLoc
		st.PutFleet(f)
		res.NewLocation[it.FleetID] = newLoc
		res.RemainingPath[it.FleetID] = remaining
	}

	// Merge same-owner fleets that now share a system into the lowest id.
	bySystem := make(map[id.SystemId][]id.FleetId)
	for _, fid := range st.FleetIdsSorted() {
		f, ok := st.GetFleet(fid)
		if !ok || f.Status != state.FleetActive {
			continue
		}
		bySystem[f.Location] = append(bySystem[f.Location], fid)
	}
	for sys, fleetIDs := range bySystem {
		_ = sys
		byOwner := make(map[id.HouseId][]id.FleetId)
		for _, fid := range fleetIDs {
			f, ok := st.GetFleet(fid)
			if !ok {
				continue
			}
			byOwner[f.Owner] = append(byOwner[f.Owner], fid)
		}
		for _, group := range byOwner {
			if len(group) < 2 {
				continue
			}
			id.Sort(group)
			survivor := group[0]
			sf, ok := st.GetFleet(survivor)
			if !ok {
				continue
			}
			for _, other := range group[1:] {
				of, ok := st.GetFleet(other)
				if !ok {
					continue
				}
				sf.Squadrons = append(sf.Squadrons, of.Squadrons...)
				sf.SpaceliftShips = append(sf.SpaceliftShips, of.SpaceliftShips...)
				st.DestroyFleetShallow(other)
				res.Merged[other] = survivor
			}
			st.PutFleet(sf)
		}
	}

	// Determine contested systems: any system where two+ houses have active
	// fleets present. Hostility is not checked here.
	res.ContestedSystems = contestedSystems(st)
	return res
}

func intentFleetIDs(intents []Intent) []id.FleetId {
	out := make([]id.FleetId, len(intents))
	for i, it := range intents {
		out[i] = it.FleetID
	}
	return out
}

func sortIntents(intents []Intent) []Intent {
	ids := intentFleetIDs(intents)
	id.Sort(ids)
	byID := make(map[id.FleetId]Intent, len(intents))
	for _, it := range intents {
		byID[it.FleetID] = it
	}
	out := make([]Intent, len(ids))
	for i, fid := range ids {
		out[i] = byID[fid]
	}
	return out
}

func contestedSystems(st *state.GameState) []id.SystemId {
	ownersBySystem := make(map[id.SystemId]map[id.HouseId]bool)
	for _, fid := range st.FleetIdsSorted() {
		f, ok := st.GetFleet(fid)
		if !ok || f.Status != state.FleetActive {
			continue
		}
		if ownersBySystem[f.Location] == nil {
			ownersBySystem[f.Location] = make(map[id.HouseId]bool)
		}
		ownersBySystem[f.Location][f.Owner] = true
	}
	var out []id.SystemId
	for sys, owners := range ownersBySystem {
		if len(owners) >= 2 {
			out = append(out, sys)
		}
	}
	id.Sort(out)
	return out
}
