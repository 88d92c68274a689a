package orchestrator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/orchestrator"
	"github.com/ec4x/engine/internal/packet"
	"github.com/ec4x/engine/internal/state"
)

func TestCheckVictoryPrestigeThreshold(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Victory: config.VictoryConfig{PrestigeThreshold: 500}}
	hid := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: hid, Prestige: 600})

	out := orchestrator.CheckVictory(st, cfg, 1)

	require.True(t, out.Over)
	assert.Equal(t, orchestrator.VictoryPrestige, out.Kind)
	assert.Equal(t, hid, out.Winner)
}

func TestCheckVictoryLastHouseStanding(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{}
	survivor := st.Allocator.NewHouseId()
	eliminated := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: survivor})
	st.PutHouse(state.House{ID: eliminated, Eliminated: true})

	out := orchestrator.CheckVictory(st, cfg, 1)

	require.True(t, out.Over)
	assert.Equal(t, orchestrator.VictoryElimination, out.Kind)
	assert.Equal(t, survivor, out.Winner)
}

func TestCheckVictoryTurnLimitPicksHighestPrestige(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Victory: config.VictoryConfig{TurnLimit: 10}}
	low := st.Allocator.NewHouseId()
	high := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: low, Prestige: 10})
	st.PutHouse(state.House{ID: high, Prestige: 90})

	out := orchestrator.CheckVictory(st, cfg, 10)

	require.True(t, out.Over)
	assert.Equal(t, orchestrator.VictoryTurnLimit, out.Kind)
	assert.Equal(t, high, out.Winner)
}

func TestCheckVictoryStillInProgress(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{Victory: config.VictoryConfig{PrestigeThreshold: 1000, TurnLimit: 100}}
	a := st.Allocator.NewHouseId()
	b := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: a, Prestige: 5})
	st.PutHouse(state.House{ID: b, Prestige: 5})

	out := orchestrator.CheckVictory(st, cfg, 1)

	assert.False(t, out.Over)
}

func TestCheckVictoryNoHousesIsNotOver(t *testing.T) {
	st := state.New(1)
	cfg := &config.Config{}

	out := orchestrator.CheckVictory(st, cfg, 1)

	assert.False(t, out.Over)
}

func baseConfig() *config.Config {
	return &config.Config{
		Economy: config.EconomyConfig{BaseGrowthRate: 0},
		Combat:  config.CombatConfig{HitDieSides: 20, RoundCap: 3, CriticalThreshold: 20},
		Tech:    map[state.TechField]config.TechTable{},
	}
}

func TestResolveTurnAdvancesTurnCounterWithNoPackets(t *testing.T) {
	st := state.New(1)
	cfg := baseConfig()
	hid := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: hid, Status: state.HouseActive})
	sys := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: sys})
	st.PutColony(state.Colony{ID: st.Allocator.NewColonyId(), SystemID: sys, Owner: hid, PopulationUnits: 10})

	startTurn := st.Turn
	events := orchestrator.ResolveTurn(st, cfg, nil)

	assert.Equal(t, startTurn+1, st.Turn)
	assert.NotNil(t, events)
}

func TestResolveTurnAppliesSubmittedTaxRateChange(t *testing.T) {
	st := state.New(1)
	cfg := baseConfig()
	hid := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: hid, Status: state.HouseActive, TaxRate: 10})
	sys := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: sys})
	st.PutColony(state.Colony{ID: st.Allocator.NewColonyId(), SystemID: sys, Owner: hid})

	rate := 60
	p := packet.CommandPacket{Turn: st.Turn + 1, House: hid, TaxRate: &rate}
	orchestrator.ResolveTurn(st, cfg, []packet.CommandPacket{p})

	h, _ := st.GetHouse(hid)
	assert.Equal(t, 60, h.TaxRate)
}

func TestResolveTurnEliminatesHouseWithNoColonies(t *testing.T) {
	st := state.New(1)
	cfg := baseConfig()
	hid := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: hid, Status: state.HouseActive})

	orchestrator.ResolveTurn(st, cfg, nil)

	h, _ := st.GetHouse(hid)
	assert.True(t, h.Eliminated)
}
