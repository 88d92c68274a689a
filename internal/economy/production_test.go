package economy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/economy"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/state"
)

func testConfig() *config.Config {
	return &config.Config{
		Economy: config.EconomyConfig{
			BaseGrowthRate: 0.0,
			TaxBandMoraleEffect: map[int]int{
				80: -5,
			},
		},
		Tech: map[state.TechField]config.TechTable{},
	}
}

func TestComputeColonyOutputAppliesTaxRate(t *testing.T) {
	cfg := testConfig()
	h := state.House{TaxRate: 50}
	c := state.Colony{PopulationUnits: 100, Infrastructure: 0}

	out := economy.ComputeColonyOutput(nil, cfg, c, h)

	assert.Equal(t, 100, out.Gross)
	assert.Equal(t, 50, out.Collected)
	assert.False(t, out.Blockaded)
}

func TestComputeColonyOutputHonorsTaxOverride(t *testing.T) {
	cfg := testConfig()
	override := 10
	h := state.House{TaxRate: 90}
	c := state.Colony{PopulationUnits: 100, TaxOverride: &override}

	out := economy.ComputeColonyOutput(nil, cfg, c, h)

	assert.Equal(t, 10, out.TaxRate)
	assert.Equal(t, 10, out.Collected)
}

func TestComputeColonyOutputBlockadedProducesNothing(t *testing.T) {
	cfg := testConfig()
	h := state.House{TaxRate: 50}
	c := state.Colony{PopulationUnits: 100, Blockaded: true}

	out := economy.ComputeColonyOutput(nil, cfg, c, h)

	assert.True(t, out.Blockaded)
	assert.Zero(t, out.Gross)
	assert.Zero(t, out.Collected)
}

func TestComputeColonyOutputAppliesMoraleBandPenalty(t *testing.T) {
	cfg := testConfig()
	h := state.House{TaxRate: 85}
	c := state.Colony{PopulationUnits: 100}

	out := economy.ComputeColonyOutput(nil, cfg, c, h)

	assert.Equal(t, -5, out.MoraleNext)
}

func TestRunIncomePhaseCollectsIntoTreasuryForEveryColony(t *testing.T) {
	st := state.New(1)
	cfg := testConfig()
	hid := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: hid, TaxRate: 50, Status: state.HouseActive})
	sys := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: sys})
	cid := st.Allocator.NewColonyId()
	st.PutColony(state.Colony{ID: cid, SystemID: sys, Owner: hid, PopulationUnits: 100})

	log := event.NewLog()
	outputs := economy.RunIncomePhase(st, cfg, 1, log)

	require.Len(t, outputs, 1)
	assert.Equal(t, 50, outputs[0].Collected)

	house, ok := st.GetHouse(hid)
	require.True(t, ok)
	assert.Equal(t, 50, house.Treasury)
}

func TestRunIncomePhaseSkipsEliminatedHouses(t *testing.T) {
	st := state.New(1)
	cfg := testConfig()
	hid := st.Allocator.NewHouseId()
	st.PutHouse(state.House{ID: hid, TaxRate: 50, Eliminated: true})
	sys := st.Allocator.NewSystemId()
	st.PutSystem(state.System{ID: sys})
	cid := st.Allocator.NewColonyId()
	st.PutColony(state.Colony{ID: cid, SystemID: sys, Owner: hid, PopulationUnits: 100})

	outputs := economy.RunIncomePhase(st, cfg, 1, event.NewLog())

	assert.Empty(t, outputs)
}
