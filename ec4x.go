// Package ec4x is the engine's public surface: newGame, resolveTurn,
// filteredView, isGameOver (spec.md §6.1). Everything here is a thin
// wrapper over the internal packages that do the actual work; this file
// owns only game construction and the re-export boundary.
package ec4x

import (
	"fmt"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/fog"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/mathx"
	"github.com/ec4x/engine/internal/orchestrator"
	"github.com/ec4x/engine/internal/packet"
	"github.com/ec4x/engine/internal/state"
)

// VictoryKind re-exports orchestrator.VictoryKind at the public boundary.
type VictoryKind = orchestrator.VictoryKind

const (
	VictoryPrestige    = orchestrator.VictoryPrestige
	VictoryElimination = orchestrator.VictoryElimination
	VictoryTurnLimit   = orchestrator.VictoryTurnLimit
)

// mapRadius is the number of hex rings generated around the origin system.
// Ring 0 is the single origin; each additional ring holds 6*ring systems
// (spec.md §2, "System": hex coordinates, ring index).
const mapRadius = 3

// startingColonyPopulation and startingColonyInfrastructure match the
// worked example in spec.md §9, scenario 1 ("house A with one colony
// (pop 10, infra 5)").
const (
	startingColonyPopulation      = 10
	startingColonyInfrastructure  = 5
	startingColonyIndustrialUnits = 5
	startingColonyMorale          = 50
	startingTreasury              = 500
)

// NewGame constructs a fresh GameState: a hex-ring starmap out to
// mapRadius, one house per playerCount seated on its own ring-2 system,
// each with a starting colony and a single scout squadron (spec.md §6.1,
// "newGame(config, seed, player_count) -> GameState"). It returns the
// *config.ConfigError from cfg.Validate if cfg fails validation, and a plain
// error if playerCount is not positive or the home ring has fewer systems
// than players.
func NewGame(cfg *config.Config, seed uint64, playerCount int) (*state.GameState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if playerCount <= 0 {
		return nil, fmt.Errorf("ec4x: player_count must be positive")
	}

	st := state.New(seed)
	systemsByRing := generateStarmap(st)

	homeRing := 2
	if homeRing >= len(systemsByRing) {
		homeRing = len(systemsByRing) - 1
	}
	candidates := systemsByRing[homeRing]
	if len(candidates) < playerCount {
		return nil, fmt.Errorf("ec4x: map radius %d cannot seat %d players on ring %d (only %d systems)", mapRadius, playerCount, homeRing, len(candidates))
	}

	step := len(candidates) / playerCount
	for p := 0; p < playerCount; p++ {
		sys := candidates[(p*step)%len(candidates)]
		seedHouse(st, sys, fmt.Sprintf("House %d", p+1))
	}

	return st, nil
}

// generateStarmap lays out a hex grid of systems in rings 0..mapRadius
// around the origin, wires axial-neighbor adjacency, and classifies lanes
// by ring delta: Major within a ring or inward, Minor one ring outward,
// Restricted two or more rings outward (spec.md §2, "Lane classes: Major,
// Minor, Restricted"). It returns the generated systems bucketed by ring,
// in deterministic per-ring left-to-right order, for seedHouse to place
// houses on.
func generateStarmap(st *state.GameState) [][]id.SystemId {
	type axial struct{ q, r int }

	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	ringOf := func(q, r int) int {
		return mathx.Max(abs(q), mathx.Max(abs(r), abs(-q-r)))
	}

	var coords []axial
	for q := -mapRadius; q <= mapRadius; q++ {
		for r := -mapRadius; r <= mapRadius; r++ {
			if ringOf(q, r) <= mapRadius {
				coords = append(coords, axial{q, r})
			}
		}
	}
	less := func(a, b axial) bool {
		if a.r != b.r {
			return a.r < b.r
		}
		return a.q < b.q
	}
	for i := 1; i < len(coords); i++ {
		for j := i; j > 0 && less(coords[j], coords[j-1]); j-- {
			coords[j], coords[j-1] = coords[j-1], coords[j]
		}
	}

	idOf := make(map[axial]id.SystemId, len(coords))
	classOf := []state.PlanetClass{state.PlanetTerran, state.PlanetOceanic, state.PlanetBarren, state.PlanetGasGiant, state.PlanetAsteroid}

	byRing := make([][]id.SystemId, mapRadius+1)
	for _, c := range coords {
		sid := st.Allocator.NewSystemId()
		idOf[c] = sid
		ring := ringOf(c.q, c.r)
		sys := state.System{
			ID:             sid,
			Name:           fmt.Sprintf("System-%d-%d", c.q, c.r),
			HexQ:           c.q,
			HexR:           c.r,
			Ring:           ring,
			Class:          classOf[(c.q+c.r+ring)%len(classOf)],
			ResourceRating: 1 + (ring % 5),
		}
		st.PutSystem(sys)
		byRing[ring] = append(byRing[ring], sid)
	}

	neighborOffsets := []axial{{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1}}
	for _, c := range coords {
		sys, _ := st.GetSystem(idOf[c])
		ring := sys.Ring
		for _, off := range neighborOffsets {
			n := axial{c.q + off.q, c.r + off.r}
			nid, ok := idOf[n]
			if !ok {
				continue
			}
			nRing := ringOf(n.q, n.r)
			class := laneClassFor(ring, nRing)
			sys.Adjacency = append(sys.Adjacency, state.Adjacency{To: nid, Class: class})
		}
		st.PutSystem(sys)
	}
	return byRing
}

func laneClassFor(fromRing, toRing int) state.LaneClass {
	switch {
	case toRing <= fromRing:
		return state.LaneMajor
	case toRing == fromRing+1:
		return state.LaneMinor
	default:
		return state.LaneRestricted
	}
}

// seedHouse creates a house with a starting treasury, one colony at sys
// (spec.md §9 scenario 1 defaults), and one fleet holding a single scout
// squadron.
func seedHouse(st *state.GameState, sys id.SystemId, name string) {
	hid := st.Allocator.NewHouseId()
	st.PutHouse(state.House{
		ID:         hid,
		Name:       name,
		Treasury:   startingTreasury,
		TechLevels: map[state.TechField]int{},
		TaxRate:    20,
		Morale:     state.MoraleContent,
		Status:     state.HouseActive,
		TechProgress:    map[state.TechField]int{},
		PendingResearch: map[state.TechField]int{},
	})

	cid := st.Allocator.NewColonyId()
	st.PutColony(state.Colony{
		ID:              cid,
		SystemID:        sys,
		Owner:           hid,
		PopulationSouls: startingColonyPopulation,
		Infrastructure:  startingColonyInfrastructure,
		IndustrialUnits: startingColonyIndustrialUnits,
		ProductionCap:   startingColonyIndustrialUnits,
		Morale:          startingColonyMorale,
	})

	scoutShip := st.Allocator.NewShipId()
	st.PutShip(state.Ship{
		ID:    scoutShip,
		Class: state.ShipScout,
		State: state.ShipUndamaged,
		Owner: hid,
	})

	squadron := st.Allocator.NewSquadronId()
	st.PutSquadron(state.Squadron{
		ID:       squadron,
		Flagship: scoutShip,
		Owner:    hid,
		Location: sys,
		Type:     state.SquadronIntel,
		Role:     state.RoleRecon,
	})

	fleet := st.Allocator.NewFleetId()
	st.PutFleet(state.Fleet{
		ID:        fleet,
		Owner:     hid,
		Location:  sys,
		Squadrons: []id.SquadronId{squadron},
		Status:    state.FleetActive,
	})
}

// ResolveTurn runs one full turn of the four-phase pipeline over st using
// packets and returns the turn's event log (spec.md §6.1,
// "resolveTurn(state, packets[], config) -> (state', events[])"). st is
// mutated in place.
func ResolveTurn(st *state.GameState, cfg *config.Config, packets []packet.CommandPacket) []event.Event {
	return orchestrator.ResolveTurn(st, cfg, packets)
}

// FilteredView derives the fog-of-war-limited view of st a single house is
// permitted to see (spec.md §6.1, "filteredView(state, house) ->
// FilteredGameState").
func FilteredView(st *state.GameState, viewer id.HouseId) fog.View {
	return fog.FilteredView(st, viewer)
}

// IsGameOver reports whether st has reached a victory condition, and if so
// which house won it and how (spec.md §6.1, "isGameOver(state) ->
// Option<(HouseId, VictoryKind)>").
func IsGameOver(st *state.GameState, cfg *config.Config) (orchestrator.Outcome, bool) {
	out := orchestrator.CheckVictory(st, cfg, st.Turn)
	return out, out.Over
}
