package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

func newTestState() (*state.GameState, id.HouseId, id.HouseId, id.SystemId) {
	st := state.New(1)
	houseA := st.Allocator.NewHouseId()
	houseB := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: houseA, Name: "A", Status: state.HouseActive})
	st.PutHouse(state.House{ID: houseB, Name: "B", Status: state.HouseActive})
	sys := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: sys, Name: "Home"})
	return st, houseA, houseB, sys
}

func TestPutColonyIndexesByOwnerAndSystem(t *testing.T) {
	st, houseA, _, sys := newTestState()
	cid := st.Allocator.NewColonyId()

	st.PutColony(state.Colony{ID: cid, SystemID: sys, Owner: houseA})

	assert.Equal(t, []id.ColonyId{cid}, st.ColoniesByOwner.Get(houseA))
	found, ok := st.ColonyAtSystem(sys)
	require.True(t, ok)
	assert.Equal(t, cid, found.ID)
}

func TestPutColonyReindexesOnOwnershipChange(t *testing.T) {
	st, houseA, houseB, sys := newTestState()
	cid := st.Allocator.NewColonyId()
	st.PutColony(state.Colony{ID: cid, SystemID: sys, Owner: houseA})

	// Act: invasion transfers ownership.
	st.PutColony(state.Colony{ID: cid, SystemID: sys, Owner: houseB})

	assert.Empty(t, st.ColoniesByOwner.Get(houseA), "the old owner's index must be scrubbed")
	assert.Equal(t, []id.ColonyId{cid}, st.ColoniesByOwner.Get(houseB))
}

func TestMutateColonyRoundTrips(t *testing.T) {
	st, houseA, _, sys := newTestState()
	cid := st.Allocator.NewColonyId()
	st.PutColony(state.Colony{ID: cid, SystemID: sys, Owner: houseA, Infrastructure: 5})

	ok := st.MutateColony(cid, func(c *state.Colony) { c.Infrastructure += 3 })
	require.True(t, ok)

	got, _ := st.GetColony(cid)
	assert.Equal(t, 8, got.Infrastructure)
}

func TestDestroyColonyScrubsIndexes(t *testing.T) {
	st, houseA, _, sys := newTestState()
	cid := st.Allocator.NewColonyId()
	st.PutColony(state.Colony{ID: cid, SystemID: sys, Owner: houseA})

	st.DestroyColony(cid)

	_, ok := st.GetColony(cid)
	assert.False(t, ok)
	assert.Empty(t, st.ColoniesByOwner.Get(houseA))
	_, ok = st.ColonyAtSystem(sys)
	assert.False(t, ok)
}

func TestAppendPrestigeUpdatesTotalAndMorale(t *testing.T) {
	st, houseA, _, _ := newTestState()

	st.AppendPrestige(state.PrestigeEvent{House: houseA, Turn: 1, Source: state.PrestigeColonyEstablished, Amount: 600})

	h, ok := st.GetHouse(houseA)
	require.True(t, ok)
	assert.Equal(t, 600, h.Prestige)
	assert.Equal(t, state.MoraleJubilant, h.Morale)
	require.Len(t, st.PrestigeLog, 1)
	assert.Equal(t, houseA, st.PrestigeLog[0].House)
}

func TestAppendPrestigeIsZeroSumAcrossHouses(t *testing.T) {
	st, houseA, houseB, _ := newTestState()

	st.AppendPrestige(state.PrestigeEvent{House: houseA, Turn: 1, Source: state.PrestigeInvasionSuccess, Amount: 50})
	st.AppendPrestige(state.PrestigeEvent{House: houseB, Turn: 1, Source: state.PrestigeInvasionFailure, Amount: -50})

	hA, _ := st.GetHouse(houseA)
	hB, _ := st.GetHouse(houseB)
	assert.Equal(t, hA.Prestige, -hB.Prestige)
}
