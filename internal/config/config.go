// Package config holds the engine's read-only configuration record
// (spec.md §6.3): costs, tech tables, capacity formulas, prestige weights.
// It is consumed as an already-parsed in-memory structure — this package
// never reads a file. Fields carry yaml tags purely as the wiring point for
// an external loader (out of scope for this module) to populate the record
// from a tech-table file; nothing here calls into encoding/yaml.
package config

import (
	"fmt"

	"github.com/ec4x/engine/internal/state"
)

// TechLevelRow is one row of a tech field's level table.
type TechLevelRow struct {
	SLRequired int      `yaml:"sl_required"`
	Cost       int      `yaml:"cost"`
	Multiplier float64  `yaml:"multiplier"`
	Unlocks    []string `yaml:"unlocks"`
}

// TechTable maps level -> row for one tech field.
type TechTable map[int]TechLevelRow

// FacilityRow describes one neoria/starbase kind's static economics.
type FacilityRow struct {
	Docks          int      `yaml:"docks"`
	Cost           int      `yaml:"cost"`
	BuildTimeTurns int      `yaml:"build_time_turns"`
	Maintenance    int      `yaml:"maintenance"`
	Prerequisites  []state.FacilityKind `yaml:"prerequisites"`
	Bonuses        map[string]float64   `yaml:"bonuses"`
}

// ShipRow describes one ship class's construction cost and combat stats.
type ShipRow struct {
	ConstructionCost  int                    `yaml:"construction_cost"`
	Maintenance       int                    `yaml:"maintenance"`
	OffensiveStrength int                    `yaml:"offensive_strength"`
	DefensiveStrength int                    `yaml:"defensive_strength"` // hits-to-cripple
	CommandRating     int                    `yaml:"command_rating"`    // escort slots if flagship; 0 if never flagship-capable
	CargoCapacity     int                    `yaml:"cargo_capacity"`
	HangarCapacityBase int                   `yaml:"hangar_capacity_base"`
	IsCapitalShip     bool                   `yaml:"is_capital_ship"`
	IsFighter         bool                   `yaml:"is_fighter"`
	IsSpacelift       bool                   `yaml:"is_spacelift"`
	TechPrereqs       map[state.TechField]int `yaml:"tech_prereqs"`
}

// GroundUnitRow describes marine/army build costs and strength.
type GroundUnitRow struct {
	Cost             int `yaml:"cost"`
	PopulationCost   int `yaml:"population_cost"`
	CombatStrength   int `yaml:"combat_strength"`
}

// EconomyConfig groups base growth rates and maintenance percentages.
type EconomyConfig struct {
	BaseGrowthRate              float64     `yaml:"base_growth_rate"`
	TaxBandMoraleEffect         map[int]int `yaml:"tax_band_morale_effect"` // tax% threshold -> morale delta next turn
	ReserveMaintenancePct       float64     `yaml:"reserve_maintenance_pct"`
	MothballedMaintenancePct    float64     `yaml:"mothballed_maintenance_pct"`
	ShortfallPrestigePenalty    int         `yaml:"shortfall_prestige_penalty"`
	DefensiveCollapseTurns      int         `yaml:"defensive_collapse_turns"`
	TerraformCost               int         `yaml:"terraform_cost"`
	TerraformTurns              int         `yaml:"terraform_turns"`
	TerraformInfrastructureGain int         `yaml:"terraform_infrastructure_gain"`
}

// PrestigeRule is one source's base amount and multiplier.
type PrestigeRule struct {
	BaseAmount int     `yaml:"base_amount"`
	Multiplier float64 `yaml:"multiplier"`
}

// CombatConfig groups the space/ground combat constants.
type CombatConfig struct {
	HitDieSides           int     `yaml:"hit_die_sides"`
	CriticalThreshold     int     `yaml:"critical_threshold"` // roll >= this is a critical hit
	RoundCap              int     `yaml:"round_cap"`
	ShieldBlockProbability map[int]float64 `yaml:"shield_block_probability"` // shield level -> block chance
	CrippledStrengthPct   float64 `yaml:"crippled_strength_pct"`
	StarbaseOffensiveStrength int `yaml:"starbase_offensive_strength"`
}

// EspionageRule is one mission's data-driven descriptor (spec.md §4.9).
type EspionageRule struct {
	EBPCost              int     `yaml:"ebp_cost"`
	AttackerPrestigeOnSuccess int `yaml:"attacker_prestige_on_success"`
	StealsSRP            bool    `yaml:"steals_srp"`
	DamagesIU            bool    `yaml:"damages_iu"`
	DamageDiceSides      int     `yaml:"damage_dice_sides"`
	DamageDiceCount      int     `yaml:"damage_dice_count"`
	GrantsIntel          bool    `yaml:"grants_intel"`
	OngoingEffectTurns   int     `yaml:"ongoing_effect_turns"`
	DetectionPenaltyOnFailure int `yaml:"detection_penalty_on_failure"`
	DetectionThresholdByCIC map[int]int `yaml:"detection_threshold_by_cic"`
}

// CapacityConfig groups the three capacity-enforcement formulas.
type CapacityConfig struct {
	FighterCapPerInfrastructure float64 `yaml:"fighter_cap_per_infrastructure"`
	FighterCapGraceTurns        int     `yaml:"fighter_cap_grace_turns"`
	HangarCapacityByACO         map[int]map[state.ShipClass]int `yaml:"hangar_capacity_by_aco"`
}

// DiplomacyConfig groups pact/alliance rules and war-declaration prestige.
type DiplomacyConfig struct {
	WarDeclarationPrestigePenalty int `yaml:"war_declaration_prestige_penalty"`
	NAPMinimumTurns               int `yaml:"nap_minimum_turns"`
	AllianceBreakPrestigePenalty  int `yaml:"alliance_break_prestige_penalty"`
}

// VictoryConfig groups victory-condition thresholds.
type VictoryConfig struct {
	PrestigeThreshold int `yaml:"prestige_threshold"`
	TurnLimit         int `yaml:"turn_limit"`
}

// Config is the full read-only configuration record passed into every
// `resolve` call (spec.md §6.3).
type Config struct {
	Tech        map[state.TechField]TechTable         `yaml:"tech"`
	Facilities  map[state.FacilityKind]FacilityRow     `yaml:"facilities"`
	Ships       map[state.ShipClass]ShipRow            `yaml:"ships"`
	GroundUnits map[string]GroundUnitRow               `yaml:"ground_units"`
	Economy     EconomyConfig                          `yaml:"economy"`
	Prestige    map[state.PrestigeSource]PrestigeRule  `yaml:"prestige"`
	Combat      CombatConfig                           `yaml:"combat"`
	Espionage   map[string]EspionageRule                `yaml:"espionage"`
	Capacity    CapacityConfig                         `yaml:"capacity"`
	Diplomacy   DiplomacyConfig                        `yaml:"diplomacy"`
	Victory     VictoryConfig                          `yaml:"victory"`
}

// ConfigError is a fatal configuration problem detected at newGame time
// (spec.md §7, "Configuration error"). It is never produced mid-turn.
type ConfigError struct {
	Group  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Group, e.Reason)
}

// Validate checks the record for the missing-table/impossible-prerequisite
// problems spec.md §7 calls out. It is the only place this module raises a
// fatal, non-recoverable error.
func (c *Config) Validate() error {
	if len(c.Ships) == 0 {
		return &ConfigError{Group: "ships", Reason: "no ship classes configured"}
	}
	for class, row := range c.Ships {
		for field, level := range row.TechPrereqs {
			table, ok := c.Tech[field]
			if !ok {
				return &ConfigError{Group: "tech", Reason: fmt.Sprintf("ship %s requires unconfigured tech field %s", class, field)}
			}
			if _, ok := table[level]; !ok {
				return &ConfigError{Group: "tech", Reason: fmt.Sprintf("ship %s requires %s level %d, not present in table", class, field, level)}
			}
		}
	}
	for kind, row := range c.Facilities {
		for _, prereq := range row.Prerequisites {
			if _, ok := c.Facilities[prereq]; !ok {
				return &ConfigError{Group: "facilities", Reason: fmt.Sprintf("facility %s requires unconfigured prerequisite %s", kind, prereq)}
			}
		}
	}
	if c.Combat.RoundCap <= 0 {
		return &ConfigError{Group: "combat", Reason: "round_cap must be positive"}
	}
	if c.Combat.HitDieSides <= 0 {
		return &ConfigError{Group: "combat", Reason: "hit_die_sides must be positive"}
	}
	if c.Victory.PrestigeThreshold <= 0 && c.Victory.TurnLimit <= 0 {
		return &ConfigError{Group: "victory", Reason: "at least one of prestige_threshold or turn_limit must be set"}
	}
	return nil
}
