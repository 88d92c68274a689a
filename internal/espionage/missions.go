package espionage

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/fleetops"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/mathx"
	"github.com/ec4x/engine/internal/rng"
	"github.com/ec4x/engine/internal/state"
)

// MissionKind is the closed set of espionage actions a house may order
// against a rival (spec.md §4.9).
type MissionKind string

const (
	MissionSpyPlanet             MissionKind = "spy_planet"
	MissionSpySystem             MissionKind = "spy_system"
	MissionHackStarbase          MissionKind = "hack_starbase"
	MissionTechTheft             MissionKind = "tech_theft"
	MissionSabotageLow           MissionKind = "sabotage_low"
	MissionSabotageHigh          MissionKind = "sabotage_high"
	MissionAssassination         MissionKind = "assassination"
	MissionCyberAttack           MissionKind = "cyber_attack"
	MissionEconomicManipulation  MissionKind = "economic_manipulation"
	MissionPsyopsCampaign        MissionKind = "psyops_campaign"
	MissionCounterIntelSweep     MissionKind = "counter_intel_sweep"
	MissionIntelligenceTheft     MissionKind = "intelligence_theft"
	MissionPlantDisinformation   MissionKind = "plant_disinformation"
)

// MissionOrder is one dispatched espionage action awaiting resolution.
type MissionOrder struct {
	Kind         MissionKind
	Actor        id.HouseId
	Target       id.HouseId
	TargetSystem id.SystemId
	TargetColony id.ColonyId
}

// MissionResult is the outcome of resolving one MissionOrder.
type MissionResult struct {
	Order     MissionOrder
	Detected  bool
	Succeeded bool
}

// ResolveMission runs one descriptor-driven mission: a detection roll first;
// a detected mission costs the actor the rule's detection prestige penalty
// and applies no effects, an undetected one applies the rule's configured
// effects. Every roll is drawn from a
// per-mission sub-stream seeded on (actor, target, system, turn) so replay
// is deterministic (spec.md §4.9).
func ResolveMission(st *state.GameState, cfg *config.Config, rngSvc rng.Service, turn int, order MissionOrder, log *event.Log) MissionResult {
	res := MissionResult{Order: order}
	rule, ok := cfg.Espionage[string(order.Kind)]
	if !ok {
		return res
	}

	stream := rngSvc.Sub(rng.StreamEspionage, order.Actor.Salt(), order.Target.Salt(), order.TargetSystem.Salt(), uint64(turn))

	defender, _ := st.GetHouse(order.Target)
	attacker, _ := st.GetHouse(order.Actor)

	detected := rollDetection(stream, rule, attacker.TechLevels[state.TechCIC], defender.CIP)
	res.Detected = detected

	if detected {
		st.AppendPrestige(state.PrestigeEvent{
			House: order.Actor, Turn: turn, Source: state.PrestigeEspionageDetected,
			Amount: -rule.DetectionPenaltyOnFailure,
		})
		if log != nil {
			log.Emit(turn, event.PhaseCommand, event.KindEspionageExecuted, map[string]any{
				"kind": string(order.Kind), "actor": order.Actor, "target": order.Target, "detected": true,
			})
		}
		return res
	}

	res.Succeeded = true
	applyMissionEffects(st, cfg, stream, turn, order, rule)

	st.AppendPrestige(state.PrestigeEvent{
		House: order.Actor, Turn: turn, Source: state.PrestigeEspionageSuccess,
		Amount: rule.AttackerPrestigeOnSuccess,
	})
	if log != nil {
		log.Emit(turn, event.PhaseCommand, event.KindEspionageExecuted, map[string]any{
			"kind": string(order.Kind), "actor": order.Actor, "target": order.Target, "detected": false,
		})
	}
	return res
}

// rollDetection draws a d20, adds the attacker's CIC tech level as a
// concealment bonus, and compares against the rule's threshold for the
// defender's counter-intelligence points band (spec.md §4.9). Higher CIP
// bands demand a higher roll to slip past.
func rollDetection(stream *rng.Stream, rule config.EspionageRule, attackerCIC, defenderCIP int) bool {
	threshold, ok := rule.DetectionThresholdByCIC[defenderCIP]
	if !ok {
		threshold = 15
	}
	roll := stream.D20() + attackerCIC
	return roll < threshold
}

func applyMissionEffects(st *state.GameState, cfg *config.Config, stream *rng.Stream, turn int, order MissionOrder, rule config.EspionageRule) {
	if rule.StealsSRP {
		stealResearch(st, order)
	}
	if rule.DamagesIU {
		damageInfrastructure(st, stream, order, rule)
	}
	if rule.GrantsIntel {
		grantIntel(st, turn, order)
	}
}

// stealResearch transfers a fraction of the target's banked research
// progress in its most advanced field to the actor (tech theft, spec.md
// §4.9).
func stealResearch(st *state.GameState, order MissionOrder) {
	target, ok := st.GetHouse(order.Target)
	if !ok {
		return
	}
	var bestField state.TechField
	best := 0
	for f, v := range target.TechProgress {
		if v > best {
			best, bestField = v, f
		}
	}
	if best == 0 {
		return
	}
	stolen := best / 2
	st.MutateHouse(order.Target, func(h *state.House) {
		if h.TechProgress == nil {
			return
		}
		h.TechProgress[bestField] -= stolen
	})
	st.MutateHouse(order.Actor, func(h *state.House) {
		if h.TechProgress == nil {
			h.TechProgress = map[state.TechField]int{}
		}
		h.TechProgress[bestField] += stolen
	})
}

// damageInfrastructure rolls the rule's dice pool against the target
// colony's infrastructure (sabotage/cyberattack, spec.md §4.9).
func damageInfrastructure(st *state.GameState, stream *rng.Stream, order MissionOrder, rule config.EspionageRule) {
	c, ok := st.GetColony(order.TargetColony)
	if !ok {
		return
	}
	damage := 0
	for i := 0; i < rule.DamageDiceCount; i++ {
		damage += stream.Intn(rule.DamageDiceSides) + 1
	}
	st.MutateColony(order.TargetColony, func(col *state.Colony) {
		col.InfrastructureDamage += damage
		if col.Infrastructure > 0 {
			col.Infrastructure -= mathx.Min(col.Infrastructure, damage)
		}
	})
	_ = c
}

// grantIntel refreshes the actor's intelligence report on the target colony
// at high confidence, as ground truth observed in person (spec.md §4.9).
func grantIntel(st *state.GameState, turn int, order MissionOrder) {
	c, ok := st.GetColony(order.TargetColony)
	if !ok {
		return
	}
	RefreshColonyReport(st, turn, order.Actor, order.TargetSystem, c)
}

// coLocatedScouts counts owner's intel-type squadrons at sys, for the scout
// mesh-network bonus (spec.md §4.9, "scouts use ELI tech level + mesh
// bonus").
func coLocatedScouts(st *state.GameState, sys id.SystemId, owner id.HouseId) int {
	count := 0
	for _, fid := range st.FleetsByLocation.Get(sys) {
		f, ok := st.GetFleet(fid)
		if !ok || f.Owner != owner {
			continue
		}
		for _, qid := range f.Squadrons {
			if q, ok := st.GetSquadron(qid); ok && q.Type == state.SquadronIntel {
				count++
			}
		}
	}
	return count
}

// ScoutEncounter resolves two co-located scout fleets meeting at a system
// outside combat (spec.md §4.9). Allied houses exchange intel with no risk.
// Otherwise each side rolls D20 plus its house's ELI level plus the scout
// mesh bonus for its co-located scouts, and when both totals reach 10 both
// fleets are destroyed. The two rolls are not compared with each other, and
// no starbase sensor level enters either roll.
func ScoutEncounter(st *state.GameState, rngSvc rng.Service, turn int, sys id.SystemId, a, b id.FleetId, allied bool, log *event.Log) {
	if allied {
		if log != nil {
			log.Emit(turn, event.PhaseConflict, event.KindEspionageExecuted, map[string]any{
				"kind": "scout_encounter", "system": sys, "fleet_a": a, "fleet_b": b, "allied": true,
			})
		}
		return
	}

	stream := rngSvc.Sub(rng.StreamEspionage, sys.Salt(), uint64(turn))
	ownerA, _ := st.GetFleet(a)
	ownerB, _ := st.GetFleet(b)
	houseA, _ := st.GetHouse(ownerA.Owner)
	houseB, _ := st.GetHouse(ownerB.Owner)
	rollA := stream.D20() + houseA.TechLevels[state.TechELI] + fleetops.ScoutMeshBonus(coLocatedScouts(st, sys, ownerA.Owner))
	rollB := stream.D20() + houseB.TechLevels[state.TechELI] + fleetops.ScoutMeshBonus(coLocatedScouts(st, sys, ownerB.Owner))
	if rollA >= 10 && rollB >= 10 {
		st.DestroyFleet(a)
		st.DestroyFleet(b)
		if log != nil {
			log.Emit(turn, event.PhaseConflict, event.KindEspionageExecuted, map[string]any{
				"kind": "scout_encounter", "system": sys, "fleet_a": a, "fleet_b": b, "mutual_destruction": true,
			})
		}
	}
}
