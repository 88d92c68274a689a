// Package orchestrator runs the four-phase turn pipeline (spec.md §4.1):
// Maintenance, Income, Command, Conflict. It is the only package that calls
// into every domain package; nothing here re-implements their logic.
package orchestrator

import (
	"sort"

	"github.com/ec4x/engine/internal/capacity"
	"github.com/ec4x/engine/internal/combat"
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/diplomacy"
	"github.com/ec4x/engine/internal/economy"
	"github.com/ec4x/engine/internal/espionage"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/fleetops"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/movement"
	"github.com/ec4x/engine/internal/packet"
	"github.com/ec4x/engine/internal/rng"
	"github.com/ec4x/engine/internal/state"
)

// VictoryKind is the closed set of ways a game ends (spec.md §6.1).
type VictoryKind string

const (
	VictoryPrestige   VictoryKind = "prestige_threshold"
	VictoryElimination VictoryKind = "last_standing"
	VictoryTurnLimit  VictoryKind = "turn_limit"
)

// Outcome pairs a winning house with how the game ended. Zero value means
// the game is still in progress.
type Outcome struct {
	Winner id.HouseId
	Kind   VictoryKind
	Over   bool
}

// ResolveTurn runs one full turn over st using packets (keyed by submitting
// house) and returns the resulting state's event log for the turn. st is
// mutated in place and never cloned here; the caller is responsible for
// cloning beforehand (GameState.Clone) if it wants to keep the pre-turn
// snapshot.
func ResolveTurn(st *state.GameState, cfg *config.Config, packets []packet.CommandPacket) []event.Event {
	log := event.NewLog()
	st.Events = log
	turn := st.Turn

	completed := economy.AdvanceQueues(st, cfg, turn, log)
	shipProjects := economy.CommissionPlanetary(st, cfg, turn, completed, log)
	capacity.Enforce(st, cfg, turn, log)
	economy.RunMaintenancePhaseUpkeep(st, cfg, turn, log)

	economy.RunIncomePhase(st, cfg, turn, log)

	turn++
	st.Turn = turn

	runCommandPhase(st, cfg, turn, shipProjects, packets, log)

	runConflictPhase(st, cfg, turn, packets, log)

	return log.Drain()
}

func runCommandPhase(st *state.GameState, cfg *config.Config, turn int, shipProjects []state.ConstructionProject, packets []packet.CommandPacket, log *event.Log) {
	fleetops.CommissionShips(st, cfg, turn, shipProjects, log)
	capacity.AutoLoadFighters(st, cfg, turn, log)

	ledger := economy.NewLedger()
	for _, p := range sortedPackets(packets) {
		packet.Apply(st, cfg, ledger, turn, p, log)
	}
}

func sortedPackets(packets []packet.CommandPacket) []packet.CommandPacket {
	out := append([]packet.CommandPacket(nil), packets...)
	sort.Slice(out, func(i, j int) bool { return out[i].House.Less(out[j].House) })
	return out
}

func runConflictPhase(st *state.GameState, cfg *config.Config, turn int, packets []packet.CommandPacket, log *event.Log) {
	intents, rejected := movement.GatherIntents(st)
	for _, r := range rejected {
		log.Emit(turn, event.PhaseConflict, event.KindOrderRejected, map[string]any{
			"fleet": r.FleetID, "reason": r.Reason,
		})
	}
	moveResult := movement.Apply(st, intents)
	for fid, loc := range moveResult.NewLocation {
		log.Emit(turn, event.PhaseConflict, event.KindFleetMoved, map[string]any{
			"fleet": fid, "system": loc,
		})
	}

	rngSvc := rng.Service{GameSeed: st.RNGSeed, Turn: turn}

	resolveContestedSystems(st, cfg, rngSvc, turn, moveResult.ContestedSystems, log)
	resolveEspionageOrders(st, cfg, rngSvc, turn, packets, log)
	applyVictoryCheck(st, cfg, turn, log)
}

// resolveContestedSystems runs pairwise combat at each system movement
// flagged as contested: one combat.ResolveSystemCombat call for each hostile
// pair of owners present, in house-id order with the lower id as attacker
// (spec.md §4.7).
func resolveContestedSystems(st *state.GameState, cfg *config.Config, rngSvc rng.Service, turn int, systems []id.SystemId, log *event.Log) {
	for _, sys := range systems {
		owners := ownersAt(st, sys)
		for i := 0; i < len(owners); i++ {
			for j := i + 1; j < len(owners); j++ {
				if !diplomacy.IsHostile(st, owners[i], owners[j]) {
					continue
				}
				combat.ResolveSystemCombat(st, cfg, rngSvc, turn, sys, owners[i], owners[j], log)
			}
		}
	}
}

func ownersAt(st *state.GameState, sys id.SystemId) []id.HouseId {
	seen := make(map[id.HouseId]bool)
	for _, fid := range st.FleetsByLocation.GetSorted(sys, func(a, b id.FleetId) bool { return a.Less(b) }) {
		if f, ok := st.GetFleet(fid); ok && f.Status == state.FleetActive {
			seen[f.Owner] = true
		}
	}
	var out []id.HouseId
	for o := range seen {
		out = append(out, o)
	}
	id.Sort(out)
	return out
}

// resolveEspionageOrders replays each packet's mission orders (already
// EBP-validated in the Command Phase) through the real mission resolver,
// in canonical (attacker id, target id, action kind) order (spec.md §5,
// "simultaneous espionage is resolved in a canonical order").
func resolveEspionageOrders(st *state.GameState, cfg *config.Config, rngSvc rng.Service, turn int, packets []packet.CommandPacket, log *event.Log) {
	var orders []espionage.MissionOrder
	for _, p := range packets {
		for _, mo := range p.MissionOrders {
			mo.Actor = p.House
			orders = append(orders, mo)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.Actor != b.Actor {
			return a.Actor.Less(b.Actor)
		}
		if a.Target != b.Target {
			return a.Target.Less(b.Target)
		}
		return a.Kind < b.Kind
	})
	for _, mo := range orders {
		espionage.ResolveMission(st, cfg, rngSvc, turn, mo, log)
	}
}

// applyVictoryCheck marks eliminated houses and emits VictoryAchieved once
// a winner is determined (spec.md §6.1, "isGameOver").
func applyVictoryCheck(st *state.GameState, cfg *config.Config, turn int, log *event.Log) {
	for _, hid := range st.HouseIdsSorted() {
		h, ok := st.GetHouse(hid)
		if !ok || h.Eliminated {
			continue
		}
		if len(st.ColoniesByOwner.Get(hid)) == 0 {
			st.MutateHouse(hid, func(house *state.House) {
				house.Eliminated = true
				house.EliminatedTurn = turn
			})
			log.Emit(turn, event.PhaseConflict, event.KindHouseEliminated, map[string]any{"house": hid})
		}
	}

	if out := CheckVictory(st, cfg, turn); out.Over {
		log.Emit(turn, event.PhaseConflict, event.KindVictoryAchieved, map[string]any{
			"winner": out.Winner, "kind": string(out.Kind),
		})
	}
}

// CheckVictory implements isGameOver (spec.md §6.1): prestige threshold,
// last-house-standing elimination, or turn-limit leader.
func CheckVictory(st *state.GameState, cfg *config.Config, turn int) Outcome {
	var standing []id.HouseId
	for _, hid := range st.HouseIdsSorted() {
		h, ok := st.GetHouse(hid)
		if !ok || h.Eliminated {
			continue
		}
		standing = append(standing, hid)
		if cfg.Victory.PrestigeThreshold > 0 && h.Prestige >= cfg.Victory.PrestigeThreshold {
			return Outcome{Winner: hid, Kind: VictoryPrestige, Over: true}
		}
	}

	if len(standing) == 1 {
		return Outcome{Winner: standing[0], Kind: VictoryElimination, Over: true}
	}
	if len(standing) == 0 {
		return Outcome{}
	}

	if cfg.Victory.TurnLimit > 0 && turn >= cfg.Victory.TurnLimit {
		best := standing[0]
		bestPrestige := -1 << 62
		for _, hid := range standing {
			h, _ := st.GetHouse(hid)
			if h.Prestige > bestPrestige {
				bestPrestige = h.Prestige
				best = hid
			}
		}
		return Outcome{Winner: best, Kind: VictoryTurnLimit, Over: true}
	}
	return Outcome{}
}
