package combat

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/mathx"
	"github.com/ec4x/engine/internal/rng"
	"github.com/ec4x/engine/internal/state"
)

// ApplyBlockade halts c's next-turn production and imposes a diplomatic
// penalty on blocker (spec.md §4.7, "Blockade").
func ApplyBlockade(st *state.GameState, cfg *config.Config, turn int, colonyID id.ColonyId, blocker id.HouseId, log *event.Log) {
	c, ok := st.GetColony(colonyID)
	if !ok || c.Blockaded {
		return
	}
	st.MutateColony(colonyID, func(col *state.Colony) { col.Blockaded = true })
	st.AppendPrestige(state.PrestigeEvent{
		House: blocker, Turn: turn, Source: state.PrestigeBlockade,
		Amount: -cfg.Prestige[state.PrestigeBlockade].BaseAmount,
	})
	if log != nil {
		log.Emit(turn, event.PhaseConflict, event.KindPrestigePenalized, map[string]any{
			"house": blocker, "colony": colonyID, "source": string(state.PrestigeBlockade),
		})
	}
}

// BombardmentResult summarizes one bombardment run.
type BombardmentResult struct {
	InfrastructureDamage int
	ShieldBlocked        bool
}

// ResolveBombardment rolls the attacking fleet's damage dice against the
// colony's planetary shield block chance and applies surviving damage to
// infrastructure, then imposes the attacker's diplomatic penalty (spec.md
// §4.7, "Bombardment"). A fleet with no troop transports present can only
// bombard, never invade — enforced by the caller routing the order here
// instead of to ResolveInvasion.
func ResolveBombardment(st *state.GameState, cfg *config.Config, rngSvc rng.Service, turn int, colonyID id.ColonyId, attacker id.HouseId, diceCount, diceSides int, log *event.Log) BombardmentResult {
	c, ok := st.GetColony(colonyID)
	if !ok {
		return BombardmentResult{}
	}
	stream := rngSvc.Sub(rng.StreamCombat, colonyID.Salt(), attacker.Salt(), uint64(turn))

	blockChance := cfg.Combat.ShieldBlockProbability[c.Ground.PlanetaryShield]
	if stream.Float64() < blockChance {
		return BombardmentResult{ShieldBlocked: true}
	}

	damage := 0
	for i := 0; i < diceCount; i++ {
		damage += stream.Intn(diceSides) + 1
	}
	st.MutateColony(colonyID, func(col *state.Colony) {
		col.InfrastructureDamage += damage
		if col.Infrastructure > 0 {
			col.Infrastructure -= mathx.Min(col.Infrastructure, damage)
		}
	})

	st.AppendPrestige(state.PrestigeEvent{
		House: attacker, Turn: turn, Source: state.PrestigeBombardment,
		Amount: -cfg.Prestige[state.PrestigeBombardment].BaseAmount,
	})
	if log != nil {
		log.Emit(turn, event.PhaseConflict, event.KindPrestigePenalized, map[string]any{
			"house": attacker, "colony": colonyID, "source": string(state.PrestigeBombardment),
		})
	}
	return BombardmentResult{InfrastructureDamage: damage}
}

// InvasionResult summarizes a ground invasion/blitz outcome.
type InvasionResult struct {
	Captured bool
}

// ResolveInvasion pits attacking marine/army divisions against the colony's
// defenders and planetary shield, and transfers ownership on a successful
// invasion (spec.md §4.7, "Ground combat / invasion").
func ResolveInvasion(st *state.GameState, cfg *config.Config, rngSvc rng.Service, turn int, colonyID id.ColonyId, attacker id.HouseId, attackMarines, attackArmy int, log *event.Log) InvasionResult {
	c, ok := st.GetColony(colonyID)
	if !ok {
		return InvasionResult{}
	}
	stream := rngSvc.Sub(rng.StreamCombat, colonyID.Salt(), attacker.Salt(), uint64(turn), 1)

	attackStrength := attackMarines + attackArmy*2
	defendStrength := c.Ground.MarineDivisions + c.Ground.ArmyDivisions*2 + c.Ground.GroundBatteries

	blockChance := cfg.Combat.ShieldBlockProbability[c.Ground.PlanetaryShield]
	if stream.Float64() < blockChance {
		defendStrength = int(float64(defendStrength) * 1.5)
	}

	if attackStrength <= defendStrength {
		st.AppendPrestige(state.PrestigeEvent{
			House: attacker, Turn: turn, Source: state.PrestigeInvasionFailure,
			Amount: -cfg.Prestige[state.PrestigeInvasionFailure].BaseAmount,
		})
		return InvasionResult{Captured: false}
	}

	defender := c.Owner
	st.MutateColony(colonyID, func(col *state.Colony) {
		col.Owner = attacker
		col.Ground = state.GroundForces{}
	})

	gain := cfg.Prestige[state.PrestigeInvasionSuccess].BaseAmount
	st.AppendPrestige(state.PrestigeEvent{House: attacker, Turn: turn, Source: state.PrestigeInvasionSuccess, Amount: gain})
	st.AppendPrestige(state.PrestigeEvent{House: defender, Turn: turn, Source: state.PrestigeInvasionSuccess, Amount: -gain})

	if log != nil {
		log.Emit(turn, event.PhaseConflict, event.KindColonyConquered, map[string]any{
			"colony": colonyID, "attacker": attacker, "defender": defender,
		})
	}
	return InvasionResult{Captured: true}
}

// ShouldRetreat applies the rules-of-engagement threshold: when the enemy
// side's strength divided by this fleet's own strength exceeds roe/10, the
// fleet should retreat along its entry path (spec.md §4.7, "Retreat").
func ShouldRetreat(ownStrength, enemyStrength, roe int) bool {
	if ownStrength <= 0 {
		return enemyStrength > 0
	}
	return float64(enemyStrength)/float64(ownStrength)*10 > float64(roe)
}
