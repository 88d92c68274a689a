// Package fog derives each house's filtered view of the galaxy from ground
// truth plus its stored intelligence reports (spec.md §4.11). A viewer
// always sees its own assets in full; everything else is gated by presence
// (a colony or fleet at the system) or by a standing IntelligenceReport.
package fog

import (
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// ColonyView is what a viewer is permitted to know about one colony.
type ColonyView struct {
	ID             id.ColonyId
	SystemID       id.SystemId
	Owner          id.HouseId
	Confidence     state.IntelConfidence
	FullDetail     bool // true for the viewer's own colonies
	Population     int
	Infrastructure int
	Defenses       state.GroundForces
	StarbaseCount  int
}

// FleetView is what a viewer is permitted to know about one fleet.
type FleetView struct {
	ID            id.FleetId
	Owner         id.HouseId
	Location      id.SystemId
	Confidence    state.IntelConfidence
	FullDetail    bool
	SquadronCount int
	ShipCount     int
	Composition   map[state.ShipClass]int // only at High/Medium confidence
}

// View is one house's complete filtered picture of the galaxy for a turn.
type View struct {
	Viewer  id.HouseId
	Turn    int
	Colonies []ColonyView
	Fleets   []FleetView
}

// FilteredView derives viewer's View from ground truth (own assets, and
// enemy assets at systems where viewer has a present colony or fleet) and
// from viewer's stored IntelligenceReport set (spec.md §4.11).
func FilteredView(st *state.GameState, viewer id.HouseId) View {
	v := View{Viewer: viewer, Turn: st.Turn}

	present := presentSystems(st, viewer)

	for _, cid := range st.ColonyIdsSorted() {
		c, ok := st.GetColony(cid)
		if !ok {
			continue
		}
		if c.Owner == viewer {
			v.Colonies = append(v.Colonies, ColonyView{
				ID: c.ID, SystemID: c.SystemID, Owner: c.Owner, FullDetail: true,
				Confidence: state.IntelHigh, Population: c.PopulationUnits,
				Infrastructure: c.Infrastructure, Defenses: c.Ground, StarbaseCount: len(c.KastraIDs),
			})
			continue
		}
		if present[c.SystemID] {
			v.Colonies = append(v.Colonies, ColonyView{
				ID: c.ID, SystemID: c.SystemID, Owner: c.Owner,
				Confidence: state.IntelMedium, Population: c.PopulationUnits,
				Infrastructure: c.Infrastructure, Defenses: c.Ground, StarbaseCount: len(c.KastraIDs),
			})
			continue
		}
		if cv, ok := colonyFromReport(st, viewer, c); ok {
			v.Colonies = append(v.Colonies, cv)
		}
	}

	for _, fid := range st.FleetIdsSorted() {
		f, ok := st.GetFleet(fid)
		if !ok {
			continue
		}
		if f.Owner == viewer {
			sc, shc, comp := composition(st, f)
			v.Fleets = append(v.Fleets, FleetView{
				ID: f.ID, Owner: f.Owner, Location: f.Location, FullDetail: true,
				Confidence: state.IntelHigh, SquadronCount: sc, ShipCount: shc, Composition: comp,
			})
			continue
		}
		if present[f.Location] {
			sc, shc, comp := composition(st, f)
			v.Fleets = append(v.Fleets, FleetView{
				ID: f.ID, Owner: f.Owner, Location: f.Location,
				Confidence: state.IntelMedium, SquadronCount: sc, ShipCount: shc, Composition: comp,
			})
			continue
		}
		if fv, ok := fleetFromReport(st, viewer, f); ok {
			v.Fleets = append(v.Fleets, fv)
		}
	}

	return v
}

func presentSystems(st *state.GameState, viewer id.HouseId) map[id.SystemId]bool {
	out := make(map[id.SystemId]bool)
	for _, cid := range st.ColoniesByOwner.Get(viewer) {
		if c, ok := st.GetColony(cid); ok {
			out[c.SystemID] = true
		}
	}
	for _, fid := range st.FleetsByOwner.Get(viewer) {
		if f, ok := st.GetFleet(fid); ok {
			out[f.Location] = true
		}
	}
	return out
}

func composition(st *state.GameState, f state.Fleet) (squadronCount, shipCount int, comp map[state.ShipClass]int) {
	comp = make(map[state.ShipClass]int)
	squadronCount = len(f.Squadrons)
	for _, qid := range f.Squadrons {
		q, ok := st.GetSquadron(qid)
		if !ok {
			continue
		}
		ships := append([]id.ShipId{q.Flagship}, q.Escorts...)
		for _, sid := range ships {
			sh, ok := st.GetShip(sid)
			if !ok || sh.State == state.ShipDestroyed {
				continue
			}
			shipCount++
			comp[sh.Class]++
		}
	}
	return
}

func colonyFromReport(st *state.GameState, viewer id.HouseId, c state.Colony) (ColonyView, bool) {
	for _, r := range st.ReportsFor(viewer) {
		if r.Colony == nil || r.SubjectSystem == nil || *r.SubjectSystem != c.SystemID {
			continue
		}
		f := r.Colony
		return ColonyView{
			ID: c.ID, SystemID: c.SystemID, Owner: c.Owner, Confidence: r.Confidence,
			Population: f.Population, Infrastructure: f.Infrastructure,
			Defenses: f.Defenses, StarbaseCount: f.StarbaseCount,
		}, true
	}
	return ColonyView{}, false
}

func fleetFromReport(st *state.GameState, viewer id.HouseId, f state.Fleet) (FleetView, bool) {
	for _, r := range st.ReportsFor(viewer) {
		if r.Fleet == nil || r.SubjectHouse == nil || *r.SubjectHouse != f.Owner {
			continue
		}
		if r.SubjectSystem == nil || *r.SubjectSystem != f.Location {
			continue
		}
		return FleetView{
			ID: f.ID, Owner: f.Owner, Location: f.Location, Confidence: r.Confidence,
			SquadronCount: r.Fleet.SquadronCount, ShipCount: r.Fleet.ShipCount, Composition: r.Fleet.Composition,
		}, true
	}
	return FleetView{}, false
}
