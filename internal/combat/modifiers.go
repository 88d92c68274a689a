package combat

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/state"
)

// ModifierSource names one contributor to a ship's effective combat
// strength (ships/modifier_stack.go's ModifierSource, collapsed to the
// handful of sources spec.md's strength model actually has: tech level,
// squadron role posture, and damage state).
type ModifierSource string

const (
	SourceTechLevel   ModifierSource = "tech_level"
	SourceRolePosture ModifierSource = "role_posture"
	SourceDamageState ModifierSource = "damage_state"
)

// Layer is one named multiplicative contribution to a ship's offensive and
// defensive strength (ships/modifier_stack.go's ModifierLayer, reduced from
// a full stat-mod struct to the single multiplier pair spec.md's combat
// strength needs).
type Layer struct {
	Source  ModifierSource
	Offense float64
	Defense float64
}

// Stack collects a ship's applicable layers and resolves them by
// multiplying every layer together (ships/modifier_stack.go's Resolve,
// minus the priority ordering, expiry, and conditional-activation
// machinery EC4X's bounded model has no use for — every layer here always
// applies, so order never matters).
type Stack struct {
	Layers []Layer
}

func NewStack() *Stack { return &Stack{} }

func (s *Stack) Add(l Layer) { s.Layers = append(s.Layers, l) }

func (s *Stack) ResolveOffense() float64 {
	mul := 1.0
	for _, l := range s.Layers {
		mul *= l.Offense
	}
	return mul
}

func (s *Stack) ResolveDefense() float64 {
	mul := 1.0
	for _, l := range s.Layers {
		mul *= l.Defense
	}
	return mul
}

// RolePostureLayer returns a squadron role posture's bounded combat
// modifier (spec.md's supplemental "squadron role postures" feature,
// adapted from ships/roles.go's RoleMode concept): Tactical sharpens
// offense, Recon trades defense for its detection edge, Economic carries
// no combat bonus at all.
func RolePostureLayer(role state.RoleMode) Layer {
	switch role {
	case state.RoleTactical:
		return Layer{Source: SourceRolePosture, Offense: 1.10, Defense: 1.0}
	case state.RoleRecon:
		return Layer{Source: SourceRolePosture, Offense: 1.0, Defense: 0.95}
	default:
		return Layer{Source: SourceRolePosture, Offense: 1.0, Defense: 1.0}
	}
}

// TechLevelLayer looks up the ship's weapons/shields tech row and applies
// its Multiplier (spec.md §2, "Ship: tech level"). This is the load-bearing
// consumer of config.TechLevelRow.Multiplier, which no other part of the
// engine reads.
func TechLevelLayer(cfg *config.Config, level int) Layer {
	offense, defense := 1.0, 1.0
	if row, ok := cfg.Tech[state.TechWeapons][level]; ok && row.Multiplier != 0 {
		offense = row.Multiplier
	}
	if row, ok := cfg.Tech[state.TechShields][level]; ok && row.Multiplier != 0 {
		defense = row.Multiplier
	}
	return Layer{Source: SourceTechLevel, Offense: offense, Defense: defense}
}

// DamageStateLayer applies the crippled-hull strength penalty (spec.md
// §4.7, CrippledStrengthPct). Destroyed hulls never reach a strength
// computation.
func DamageStateLayer(cfg *config.Config, combatState state.ShipCombatState) Layer {
	if combatState == state.ShipCrippled {
		return Layer{Source: SourceDamageState, Offense: cfg.Combat.CrippledStrengthPct, Defense: cfg.Combat.CrippledStrengthPct}
	}
	return Layer{Source: SourceDamageState, Offense: 1.0, Defense: 1.0}
}

// ShipStrength resolves sh's fully modified offensive and defensive
// strength: the ship class's base row times every applicable capability
// layer (spec.md §4.7's strength input to hit-roll counts).
func ShipStrength(cfg *config.Config, sh state.Ship, role state.RoleMode) (offense, defense int) {
	row := cfg.Ships[sh.Class]
	stack := NewStack()
	stack.Add(TechLevelLayer(cfg, sh.TechLevel))
	stack.Add(RolePostureLayer(role))
	stack.Add(DamageStateLayer(cfg, sh.State))
	return int(float64(row.OffensiveStrength) * stack.ResolveOffense()),
		int(float64(row.DefensiveStrength) * stack.ResolveDefense())
}
