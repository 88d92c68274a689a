// Package event defines the engine's append-only ordered event log
// (spec.md §4.12). Events are a tagged union: one Kind plus a payload map
// keyed by field name, which keeps the log a single flat, easily-diffed
// slice instead of a sprawling interface hierarchy.
package event

import "github.com/ec4x/engine/internal/id"

// Phase names the turn phase an event was produced in.
type Phase string

const (
	PhaseMaintenance Phase = "maintenance"
	PhaseIncome      Phase = "income"
	PhaseCommand     Phase = "command"
	PhaseConflict    Phase = "conflict"
)

// Kind is the closed set of event types from spec.md §4.12.
type Kind string

const (
	KindOrderAccepted        Kind = "OrderAccepted"
	KindOrderRejected        Kind = "OrderRejected"
	KindConstructionStarted  Kind = "ConstructionStarted"
	KindConstructionCompleted Kind = "ConstructionCompleted"
	KindShipCommissioned     Kind = "ShipCommissioned"
	KindBuildingCompleted    Kind = "BuildingCompleted"
	KindUnitRecruited        Kind = "UnitRecruited"
	KindFleetMoved           Kind = "FleetMoved"
	KindCombatResolved       Kind = "CombatResolved"
	KindSquadronScrapped     Kind = "SquadronScrapped"
	KindStarbaseBuilt        Kind = "StarbaseBuilt"
	KindColonyEstablished    Kind = "ColonyEstablished"
	KindColonyConquered      Kind = "ColonyConquered"
	KindEspionageExecuted    Kind = "EspionageExecuted"
	KindDiplomaticStateChanged Kind = "DiplomaticStateChanged"
	KindPrestigeAwarded      Kind = "PrestigeAwarded"
	KindPrestigePenalized    Kind = "PrestigePenalized"
	KindCapacityEnforced     Kind = "CapacityEnforced"
	KindHouseEliminated      Kind = "HouseEliminated"
	KindVictoryAchieved      Kind = "VictoryAchieved"
	KindInvariantViolation   Kind = "InvariantViolation"
)

// Event is one ordered record in the log.
type Event struct {
	Turn    int
	Phase   Phase
	Kind    Kind
	Subject id.ColonyId // zero-value when not colony-keyed; Fields carries the rest
	Fields  map[string]any
}

// Log is an append-only ordered buffer, drained by the caller after resolve.
type Log struct {
	events []Event
}

// NewLog returns an empty log.
func NewLog() *Log { return &Log{} }

// Append adds e to the end of the log. Callers must append in the
// canonical order required by spec.md §6.4/§8 ("Event ordering"): monotonic
// in (turn, phase, subject id).
func (l *Log) Append(e Event) {
	l.events = append(l.events, e)
}

// Emit is a convenience constructor-and-append.
func (l *Log) Emit(turn int, phase Phase, kind Kind, fields map[string]any) {
	l.Append(Event{Turn: turn, Phase: phase, Kind: kind, Fields: fields})
}

// All returns the full ordered event slice. The returned slice must not be
// mutated by the caller; Drain should be used when ownership transfer is
// intended.
func (l *Log) All() []Event {
	return l.events
}

// Drain returns the accumulated events and resets the log, matching the
// "drained by the caller after resolve" contract in spec.md §4.12.
func (l *Log) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}

// Clone deep-copies the log (used when GameState is cloned mid-resolve).
func (l *Log) Clone() *Log {
	out := &Log{events: make([]Event, len(l.events))}
	for i, e := range l.events {
		fields := make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = v
		}
		e.Fields = fields
		out.events[i] = e
	}
	return out
}
