package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/state"
)

func validConfig() *config.Config {
	return &config.Config{
		Tech: map[state.TechField]config.TechTable{
			state.TechWeapons: {0: {Multiplier: 1.0}, 1: {Multiplier: 1.2}},
		},
		Ships: map[state.ShipClass]config.ShipRow{
			state.ShipCorvette: {
				ConstructionCost:  100,
				OffensiveStrength: 10,
				DefensiveStrength: 5,
				TechPrereqs:       map[state.TechField]int{state.TechWeapons: 1},
			},
		},
		Facilities: map[state.FacilityKind]config.FacilityRow{
			state.FacilityShipyard:  {Docks: 2},
			state.FacilityDrydock:   {Prerequisites: []state.FacilityKind{state.FacilityShipyard}},
		},
		Combat: config.CombatConfig{
			HitDieSides: 20,
			RoundCap:    5,
		},
		Victory: config.VictoryConfig{
			PrestigeThreshold: 1000,
		},
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNoShips(t *testing.T) {
	cfg := validConfig()
	cfg.Ships = nil

	err := cfg.Validate()

	require.Error(t, err)
	var cerr *config.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "ships", cerr.Group)
}

func TestValidateRejectsShipWithUnconfiguredTechField(t *testing.T) {
	cfg := validConfig()
	row := cfg.Ships[state.ShipCorvette]
	row.TechPrereqs = map[state.TechField]int{state.TechShields: 1}
	cfg.Ships[state.ShipCorvette] = row

	err := cfg.Validate()

	require.Error(t, err)
	var cerr *config.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "tech", cerr.Group)
}

func TestValidateRejectsShipWithUnconfiguredTechLevel(t *testing.T) {
	cfg := validConfig()
	row := cfg.Ships[state.ShipCorvette]
	row.TechPrereqs = map[state.TechField]int{state.TechWeapons: 9}
	cfg.Ships[state.ShipCorvette] = row

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not present in table")
}

func TestValidateRejectsFacilityWithUnconfiguredPrerequisite(t *testing.T) {
	cfg := validConfig()
	cfg.Facilities[state.FacilityDrydock] = config.FacilityRow{
		Prerequisites: []state.FacilityKind{state.FacilityStarbase},
	}

	err := cfg.Validate()

	require.Error(t, err)
	var cerr *config.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "facilities", cerr.Group)
}

func TestValidateRejectsNonPositiveRoundCap(t *testing.T) {
	cfg := validConfig()
	cfg.Combat.RoundCap = 0

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "round_cap")
}

func TestValidateRejectsNonPositiveHitDieSides(t *testing.T) {
	cfg := validConfig()
	cfg.Combat.HitDieSides = 0

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "hit_die_sides")
}

func TestValidateRequiresAtLeastOneVictoryCondition(t *testing.T) {
	cfg := validConfig()
	cfg.Victory.PrestigeThreshold = 0
	cfg.Victory.TurnLimit = 0

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prestige_threshold or turn_limit")
}
