package ec4x_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ec4x "github.com/ec4x/engine"
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/state"
)

func validConfig() *config.Config {
	return &config.Config{
		Ships: map[state.ShipClass]config.ShipRow{
			state.ShipScout: {OffensiveStrength: 1, DefensiveStrength: 1},
		},
		Combat:  config.CombatConfig{HitDieSides: 20, RoundCap: 3},
		Victory: config.VictoryConfig{TurnLimit: 50},
	}
}

func TestNewGameSeatsOnePlayerPerRequestedCount(t *testing.T) {
	st, err := ec4x.NewGame(validConfig(), 42, 3)

	require.NoError(t, err)
	assert.Len(t, st.HouseIdsSorted(), 3)
	assert.Len(t, st.ColonyIdsSorted(), 3)
}

func TestNewGameRejectsInvalidConfig(t *testing.T) {
	cfg := &config.Config{} // no ships, fails Validate

	_, err := ec4x.NewGame(cfg, 1, 2)

	assert.Error(t, err)
}

func TestNewGameRejectsNonPositivePlayerCount(t *testing.T) {
	_, err := ec4x.NewGame(validConfig(), 1, 0)

	assert.Error(t, err)
}

func TestNewGameIsDeterministicForTheSameSeed(t *testing.T) {
	a, err := ec4x.NewGame(validConfig(), 7, 2)
	require.NoError(t, err)
	b, err := ec4x.NewGame(validConfig(), 7, 2)
	require.NoError(t, err)

	assert.Equal(t, a.HouseIdsSorted(), b.HouseIdsSorted(), "the allocator sequence must reproduce identical ids across runs")
	assert.Equal(t, a.ColonyIdsSorted(), b.ColonyIdsSorted())
}

func TestNewGameEachColonyStartsWithSpecDefaults(t *testing.T) {
	st, err := ec4x.NewGame(validConfig(), 1, 1)
	require.NoError(t, err)

	require.Len(t, st.ColonyIdsSorted(), 1)
	c, ok := st.GetColony(st.ColonyIdsSorted()[0])
	require.True(t, ok)
	assert.Equal(t, 10, c.PopulationSouls)
	assert.Equal(t, 5, c.Infrastructure)
}

func TestFilteredViewReflectsOwnColonyImmediatelyAfterNewGame(t *testing.T) {
	st, err := ec4x.NewGame(validConfig(), 1, 1)
	require.NoError(t, err)
	hid := st.HouseIdsSorted()[0]

	v := ec4x.FilteredView(st, hid)

	require.Len(t, v.Colonies, 1)
	assert.True(t, v.Colonies[0].FullDetail)
}

func TestIsGameOverFalseImmediatelyAfterNewGame(t *testing.T) {
	st, err := ec4x.NewGame(validConfig(), 1, 2)
	require.NoError(t, err)

	_, over := ec4x.IsGameOver(st, validConfig())

	assert.False(t, over)
}
