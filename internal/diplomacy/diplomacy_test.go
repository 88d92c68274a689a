package diplomacy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/diplomacy"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/state"
)

func TestDeclareWarMovesPairToWarAndPenalizesDeclarer(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Diplomacy: config.DiplomacyConfig{WarDeclarationPrestigePenalty: 20}}
	a := st.Allocator.NewHouseId()
	b := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: a})
	st.PutHouse(state.House{ID: b})

	err := diplomacy.DeclareWar(st, cfg, 1, a, b, event.NewLog())

	require.NoError(t, err)
	assert.True(t, diplomacy.IsHostile(st, a, b))
	house, _ := st.GetHouse(a)
	assert.Equal(t, -20, house.Prestige)
}

func TestDeclareWarRejectsWhenAlreadyAtWar(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Diplomacy: config.DiplomacyConfig{WarDeclarationPrestigePenalty: 20}}
	a := st.Allocator.NewHouseId()
	b := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: a})
	st.PutHouse(state.House{ID: b})
	require.NoError(t, diplomacy.DeclareWar(st, cfg, 1, a, b, nil))

	err := diplomacy.DeclareWar(st, cfg, 2, a, b, nil)

	assert.Error(t, err)
}

func TestBreakNAPBeforeMinimumTermPenalizesBreaker(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Diplomacy: config.DiplomacyConfig{NAPMinimumTurns: 10, AllianceBreakPrestigePenalty: 30}}
	a := st.Allocator.NewHouseId()
	b := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: a})
	st.PutHouse(state.House{ID: b})
	require.NoError(t, diplomacy.ProposeNAP(st, 1, a, b, nil))

	err := diplomacy.BreakNAP(st, cfg, 3, a, b, nil)

	require.NoError(t, err)
	house, _ := st.GetHouse(a)
	assert.Equal(t, -30, house.Prestige, "breaking a NAP only 2 turns into a 10-turn minimum term must penalize")
}

func TestBreakNAPAfterMinimumTermIsFree(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Diplomacy: config.DiplomacyConfig{NAPMinimumTurns: 2, AllianceBreakPrestigePenalty: 30}}
	a := st.Allocator.NewHouseId()
	b := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: a})
	st.PutHouse(state.House{ID: b})
	require.NoError(t, diplomacy.ProposeNAP(st, 1, a, b, nil))

	err := diplomacy.BreakNAP(st, cfg, 10, a, b, nil)

	require.NoError(t, err)
	house, _ := st.GetHouse(a)
	assert.Zero(t, house.Prestige)
}

func TestFormAllianceThenIsAllied(t *testing.T) {
	st := state.New(1)
	a := st.Allocator.NewHouseId()
	b := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: a})
	st.PutHouse(state.House{ID: b})

	require.NoError(t, diplomacy.FormAlliance(st, 1, a, b, nil))

	assert.True(t, diplomacy.IsAllied(st, a, b))
	assert.False(t, diplomacy.IsHostile(st, a, b))
}

func TestBreakAllianceRestoresPeaceAndPenalizesBreaker(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Diplomacy: config.DiplomacyConfig{AllianceBreakPrestigePenalty: 15}}
	a := st.Allocator.NewHouseId()
	b := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: a})
	st.PutHouse(state.House{ID: b})
	require.NoError(t, diplomacy.FormAlliance(st, 1, a, b, nil))

	require.NoError(t, diplomacy.BreakAlliance(st, cfg, 5, a, b, nil))

	assert.False(t, diplomacy.IsAllied(st, a, b))
	house, _ := st.GetHouse(a)
	assert.Equal(t, -15, house.Prestige)
}

func TestSignPeaceFromWar(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Diplomacy: config.DiplomacyConfig{WarDeclarationPrestigePenalty: 1}}
	a := st.Allocator.NewHouseId()
	b := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: a})
	st.PutHouse(state.House{ID: b})
	require.NoError(t, diplomacy.DeclareWar(st, cfg, 1, a, b, nil))

	require.NoError(t, diplomacy.SignPeace(st, 2, a, b, nil))

	assert.False(t, diplomacy.IsHostile(st, a, b))
}
