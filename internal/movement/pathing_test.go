package movement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/movement"
	"github.com/ec4x/engine/internal/state"
)

// line builds a 3-system chain A - B - C, all Major lanes, and returns the
// ids in order.
func line(st *state.GameState) (a, b, c id.SystemId) {
	a = st.Allocator.NewSystemId()
	b = st.Allocator.NewSystemId()
	c = st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: a, HexQ: 0, HexR: 0, Adjacency: []state.Adjacency{{To: b, Class: state.LaneMajor}}})
	st.PutSystem(state.System{ID: b, HexQ: 1, HexR: 0, Adjacency: []state.Adjacency{{To: a, Class: state.LaneMajor}, {To: c, Class: state.LaneMajor}}})
	st.PutSystem(state.System{ID: c, HexQ: 2, HexR: 0, Adjacency: []state.Adjacency{{To: b, Class: state.LaneMajor}}})
	return
}

func TestFindPathReturnsBothEndpointsWhenStartEqualsGoal(t *testing.T) {
	st := state.New(1)
	a, _, _ := line(st)

	path := movement.FindPath(st, a, a, false, false)

	assert.Equal(t, []id.SystemId{a}, path)
}

func TestFindPathTraversesShortestChain(t *testing.T) {
	st := state.New(1)
	a, b, c := line(st)

	path := movement.FindPath(st, a, c, false, false)

	assert.Equal(t, []id.SystemId{a, b, c}, path)
}

func TestFindPathReturnsNilWhenUnreachable(t *testing.T) {
	st := state.New(1)
	a, _, _ := line(st)
	isolated := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: isolated})

	path := movement.FindPath(st, a, isolated, false, false)

	assert.Nil(t, path)
}

func TestFindPathAvoidsRestrictedLaneForCrippledFleet(t *testing.T) {
	st := state.New(1)
	a := st.Allocator.NewSystemId()
	b := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: a, Adjacency: []state.Adjacency{{To: b, Class: state.LaneRestricted}}})
	st.PutSystem(state.System{ID: b, Adjacency: []state.Adjacency{{To: a, Class: state.LaneRestricted}}})

	path := movement.FindPath(st, a, b, true, false)

	assert.Nil(t, path, "a crippled fleet cannot cross the only available Restricted lane")
}

func TestCanTraverseAllowsRestrictedForHealthyFleet(t *testing.T) {
	assert.True(t, movement.CanTraverse(state.LaneRestricted, false, false))
	assert.False(t, movement.CanTraverse(state.LaneRestricted, true, false))
	assert.False(t, movement.CanTraverse(state.LaneRestricted, false, true))
	assert.True(t, movement.CanTraverse(state.LaneMajor, true, true))
}

func TestHopsAllowedThisTurnGrantsTwoOnlyForControlledMajorLanes(t *testing.T) {
	st := state.New(1)
	a, b, c := line(st)
	owner := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: owner})
	st.PutColony(state.Colony{ID: st.Allocator.NewColonyId(), SystemID: b, Owner: owner})

	hops := movement.HopsAllowedThisTurn(st, []id.SystemId{a, b, c}, owner)

	assert.Equal(t, 2, hops)
}

func TestHopsAllowedThisTurnFallsBackToOneWithoutControlledIntermediate(t *testing.T) {
	st := state.New(1)
	a, b, c := line(st)
	owner := st.Allocator.NewHouseId()
	other := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: owner})
	st.PutHouse(state.House{ID: other})
	st.PutColony(state.Colony{ID: st.Allocator.NewColonyId(), SystemID: b, Owner: other})

	hops := movement.HopsAllowedThisTurn(st, []id.SystemId{a, b, c}, owner)

	assert.Equal(t, 1, hops)
}

func TestHopsAllowedThisTurnFallsBackToOneOnNonMajorEdge(t *testing.T) {
	st := state.New(1)
	a := st.Allocator.NewSystemId()
	b := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: a, Adjacency: []state.Adjacency{{To: b, Class: state.LaneMinor}}})
	st.PutSystem(state.System{ID: b, Adjacency: []state.Adjacency{{To: a, Class: state.LaneMinor}}})

	hops := movement.HopsAllowedThisTurn(st, []id.SystemId{a, b}, id.HouseId{})
	require.Equal(t, 1, hops)
}
