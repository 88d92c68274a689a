package fleetops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/fleetops"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

func newColony(st *state.GameState, owner id.HouseId) state.Colony {
	sys := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: sys})
	c := state.Colony{ID: st.Allocator.NewColonyId(), SystemID: sys, Owner: owner}
	st.PutColony(c)
	return c
}

func TestScoutMeshBonusThresholds(t *testing.T) {
	assert.Equal(t, 0, fleetops.ScoutMeshBonus(1))
	assert.Equal(t, 1, fleetops.ScoutMeshBonus(2))
	assert.Equal(t, 1, fleetops.ScoutMeshBonus(3))
	assert.Equal(t, 2, fleetops.ScoutMeshBonus(4))
	assert.Equal(t, 2, fleetops.ScoutMeshBonus(5))
	assert.Equal(t, 3, fleetops.ScoutMeshBonus(6))
	assert.Equal(t, 3, fleetops.ScoutMeshBonus(9))
}

func TestCommissionShipsCapitalShipAlwaysStartsNewSquadron(t *testing.T) {
	st := state.New(1)
	owner := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: owner})
	c := newColony(st, owner)
	cfg := &config.Config{
		Ships: map[state.ShipClass]config.ShipRow{
			state.ShipClass("cruiser"): {IsCapitalShip: true, CommandRating: 4},
		},
	}
	completed := []state.ConstructionProject{
		{ColonyID: c.ID, Type: state.ProjectShip, Item: "cruiser", Count: 2},
	}

	fleetops.CommissionShips(st, cfg, 1, completed, nil)

	fids := st.FleetIdsSorted()
	require.Len(t, fids, 1, "both capital squadrons join the one stationary fleet at the colony")
	f, _ := st.GetFleet(fids[0])
	assert.Len(t, f.Squadrons, 2, "two capital ships must each start their own squadron")
}

func TestCommissionShipsEscortJoinsStationaryFlagshipSquadron(t *testing.T) {
	st := state.New(1)
	owner := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: owner})
	c := newColony(st, owner)
	cfg := &config.Config{
		Ships: map[state.ShipClass]config.ShipRow{
			state.ShipClass("battleship"): {IsCapitalShip: true, CommandRating: 2},
			state.ShipClass("frigate"):    {CommandRating: 0},
		},
	}

	fleetops.CommissionShips(st, cfg, 1, []state.ConstructionProject{
		{ColonyID: c.ID, Type: state.ProjectShip, Item: "battleship", Count: 1},
	}, nil)
	require.Len(t, st.FleetIdsSorted(), 1)

	fleetops.CommissionShips(st, cfg, 1, []state.ConstructionProject{
		{ColonyID: c.ID, Type: state.ProjectShip, Item: "frigate", Count: 1},
	}, nil)

	assert.Len(t, st.FleetIdsSorted(), 1, "the escort should join the existing flagship's squadron rather than starting a new fleet")
	fid := st.FleetIdsSorted()[0]
	f, _ := st.GetFleet(fid)
	require.Len(t, f.Squadrons, 1)
	q, _ := st.GetSquadron(f.Squadrons[0])
	assert.Len(t, q.Escorts, 1)
}

func TestCommissionShipsETACGetsDedicatedFleet(t *testing.T) {
	st := state.New(1)
	owner := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: owner})
	c := newColony(st, owner)
	cfg := &config.Config{
		Ships: map[state.ShipClass]config.ShipRow{
			state.ShipETAC: {CargoCapacity: 1000},
		},
	}

	fleetops.CommissionShips(st, cfg, 1, []state.ConstructionProject{
		{ColonyID: c.ID, Type: state.ProjectShip, Item: string(state.ShipETAC), Count: 1},
	}, nil)

	require.Len(t, st.FleetIdsSorted(), 1)
	fid := st.FleetIdsSorted()[0]
	f, _ := st.GetFleet(fid)
	require.Len(t, f.Squadrons, 1)
	q, _ := st.GetSquadron(f.Squadrons[0])
	assert.Equal(t, state.SquadronExpansion, q.Type)
	sh, ok := st.GetShip(q.Flagship)
	require.True(t, ok)
	require.NotNil(t, sh.Cargo)
	assert.Equal(t, 1000, sh.Cargo.Quantity)
}

func TestCommissionShipsScoutsCoalesceIntoSharedIntelFleet(t *testing.T) {
	st := state.New(1)
	owner := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: owner})
	c := newColony(st, owner)
	cfg := &config.Config{
		Ships: map[state.ShipClass]config.ShipRow{
			state.ShipScout: {},
		},
	}

	fleetops.CommissionShips(st, cfg, 1, []state.ConstructionProject{
		{ColonyID: c.ID, Type: state.ProjectShip, Item: string(state.ShipScout), Count: 3},
	}, nil)

	require.Len(t, st.FleetIdsSorted(), 1, "scouts commissioned together must coalesce into one intel fleet")
	fid := st.FleetIdsSorted()[0]
	f, _ := st.GetFleet(fid)
	assert.Len(t, f.Squadrons, 3)
	for _, qid := range f.Squadrons {
		q, _ := st.GetSquadron(qid)
		assert.Equal(t, state.SquadronIntel, q.Type)
	}
}

func TestCommissionShipsEmitsMeshBonusEventWhenThresholdCrossed(t *testing.T) {
	st := state.New(1)
	owner := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: owner})
	c := newColony(st, owner)
	cfg := &config.Config{
		Ships: map[state.ShipClass]config.ShipRow{
			state.ShipScout: {},
		},
	}
	log := event.NewLog()

	fleetops.CommissionShips(st, cfg, 1, []state.ConstructionProject{
		{ColonyID: c.ID, Type: state.ProjectShip, Item: string(state.ShipScout), Count: 2},
	}, log)

	found := false
	for _, e := range log.All() {
		if e.Kind == event.KindUnitRecruited {
			found = true
		}
	}
	assert.True(t, found, "crossing the 2-scout mesh threshold should emit a mesh bonus event")
}

func TestCommissionShipsIgnoresProjectForUnknownColony(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Ships: map[state.ShipClass]config.ShipRow{state.ShipScout: {}}}

	fleetops.CommissionShips(st, cfg, 1, []state.ConstructionProject{
		{ColonyID: st.Allocator.NewColonyId(), Type: state.ProjectShip, Item: string(state.ShipScout), Count: 1},
	}, nil)

	assert.Empty(t, st.FleetIdsSorted())
}
