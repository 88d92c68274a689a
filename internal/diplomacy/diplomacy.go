// Package diplomacy resolves relation transitions between houses and the
// prestige consequences that follow them (spec.md §4.10). It never touches
// combat or espionage resolution directly; orchestrator wires this package's
// outputs into those by reading the relation graph before dispatching a
// fleet order or mission.
package diplomacy

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// TransitionError reports a relation change that violates the diplomatic
// state machine (spec.md §4.10, e.g. "cannot break a NAP before its minimum
// term").
type TransitionError struct {
	Reason string
}

func (e *TransitionError) Error() string { return e.Reason }

// transitionTable is the closed set of legal (from, to) relation moves.
// Anything not listed here is rejected.
var transitionTable = map[state.DiplomaticState]map[state.DiplomaticState]bool{
	state.DiploPeace:              {state.DiploNonAggressionPact: true, state.DiploWar: true, state.DiploAlliance: true},
	state.DiploNonAggressionPact:  {state.DiploPeace: true, state.DiploWar: true, state.DiploAlliance: true},
	state.DiploAlliance:           {state.DiploPeace: true, state.DiploWar: true},
	state.DiploHostile:            {state.DiploPeace: true, state.DiploWar: true, state.DiploNonAggressionPact: true},
	state.DiploWar:                {state.DiploPeace: true},
}

func relationOf(st *state.GameState, a, b id.HouseId) state.DiplomaticRelation {
	if r, ok := st.GetRelation(a, b); ok {
		return r
	}
	return state.DiplomaticRelation{Pair: state.NormalizeHousePair(a, b), State: state.DiploPeace}
}

// DeclareWar moves the pair to war unconditionally from any state but war
// itself, and imposes the declarer's prestige penalty (spec.md §4.10,
// "Declare war").
func DeclareWar(st *state.GameState, cfg *config.Config, turn int, declarer, target id.HouseId, log *event.Log) error {
	r := relationOf(st, declarer, target)
	if r.State == state.DiploWar {
		return &TransitionError{Reason: "already at war"}
	}
	applyTransition(st, turn, r, state.DiploWar)
	st.AppendPrestige(state.PrestigeEvent{
		House: declarer, Turn: turn, Source: state.PrestigeWarDeclared,
		Amount: -cfg.Diplomacy.WarDeclarationPrestigePenalty,
	})
	broadcast(log, turn, declarer, target, state.DiploWar)
	return nil
}

// ProposeNAP records a non-aggression pact immediately; spec.md §4.10 treats
// mutual proposal/acceptance as happening in the same Command Phase, so
// there is no pending-offer state to track across turns.
func ProposeNAP(st *state.GameState, turn int, a, b id.HouseId, log *event.Log) error {
	r := relationOf(st, a, b)
	if !transitionTable[r.State][state.DiploNonAggressionPact] {
		return &TransitionError{Reason: "cannot form a NAP from " + string(r.State)}
	}
	applyTransition(st, turn, r, state.DiploNonAggressionPact)
	broadcast(log, turn, a, b, state.DiploNonAggressionPact)
	return nil
}

// BreakNAP ends an active pact early. Breaking before NAPMinimumTurns have
// elapsed since formation imposes the alliance-break-grade penalty on the
// breaker (spec.md §4.10).
func BreakNAP(st *state.GameState, cfg *config.Config, turn int, breaker, other id.HouseId, log *event.Log) error {
	r := relationOf(st, breaker, other)
	if r.State != state.DiploNonAggressionPact {
		return &TransitionError{Reason: "no active NAP to break"}
	}
	formedTurn := lastTransitionTurn(r, state.DiploNonAggressionPact)
	applyTransition(st, turn, r, state.DiploHostile)
	if turn-formedTurn < cfg.Diplomacy.NAPMinimumTurns {
		st.AppendPrestige(state.PrestigeEvent{
			House: breaker, Turn: turn, Source: state.PrestigeAllianceBroken,
			Amount: -cfg.Diplomacy.AllianceBreakPrestigePenalty,
		})
	}
	broadcast(log, turn, breaker, other, state.DiploHostile)
	return nil
}

// SignPeace moves a war or hostile pair back to peace (spec.md §4.10).
func SignPeace(st *state.GameState, turn int, a, b id.HouseId, log *event.Log) error {
	r := relationOf(st, a, b)
	if !transitionTable[r.State][state.DiploPeace] {
		return &TransitionError{Reason: "cannot sign peace from " + string(r.State)}
	}
	applyTransition(st, turn, r, state.DiploPeace)
	broadcast(log, turn, a, b, state.DiploPeace)
	return nil
}

// FormAlliance upgrades a peace or NAP relation to a full alliance
// (spec.md §4.10).
func FormAlliance(st *state.GameState, turn int, a, b id.HouseId, log *event.Log) error {
	r := relationOf(st, a, b)
	if !transitionTable[r.State][state.DiploAlliance] {
		return &TransitionError{Reason: "cannot form an alliance from " + string(r.State)}
	}
	applyTransition(st, turn, r, state.DiploAlliance)
	broadcast(log, turn, a, b, state.DiploAlliance)
	return nil
}

// BreakAlliance ends an alliance and imposes the breaker's prestige penalty
// (spec.md §4.10).
func BreakAlliance(st *state.GameState, cfg *config.Config, turn int, breaker, other id.HouseId, log *event.Log) error {
	r := relationOf(st, breaker, other)
	if r.State != state.DiploAlliance {
		return &TransitionError{Reason: "no active alliance to break"}
	}
	applyTransition(st, turn, r, state.DiploPeace)
	st.AppendPrestige(state.PrestigeEvent{
		House: breaker, Turn: turn, Source: state.PrestigeAllianceBroken,
		Amount: -cfg.Diplomacy.AllianceBreakPrestigePenalty,
	})
	broadcast(log, turn, breaker, other, state.DiploPeace)
	return nil
}

func applyTransition(st *state.GameState, turn int, r state.DiplomaticRelation, to state.DiplomaticState) {
	r.State = to
	r.History = append(r.History, state.DiplomaticTransition{Turn: turn, To: to})
	st.PutRelation(r)
}

func lastTransitionTurn(r state.DiplomaticRelation, s state.DiplomaticState) int {
	for i := len(r.History) - 1; i >= 0; i-- {
		if r.History[i].To == s {
			return r.History[i].Turn
		}
	}
	return 0
}

// broadcast records a relation change as a public event visible to every
// house, not just the two parties (spec.md §4.10, "Diplomatic activity is
// broadcast").
func broadcast(log *event.Log, turn int, a, b id.HouseId, to state.DiplomaticState) {
	if log == nil {
		return
	}
	log.Emit(turn, event.PhaseCommand, event.KindDiplomaticStateChanged, map[string]any{
		"house_a": a, "house_b": b, "state": string(to),
	})
}

// IsHostile reports whether a and b may engage in combat at a shared system
// (spec.md §4.10): war or hostile relations permit combat; peace, NAP, and
// alliance forbid it. A pair with no recorded relation counts as peace.
func IsHostile(st *state.GameState, a, b id.HouseId) bool {
	r := relationOf(st, a, b)
	return r.State == state.DiploWar || r.State == state.DiploHostile
}

// IsAllied reports whether a and b share intel freely and never fight
// (spec.md §4.10).
func IsAllied(st *state.GameState, a, b id.HouseId) bool {
	return relationOf(st, a, b).State == state.DiploAlliance
}
