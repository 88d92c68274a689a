package state

import (
	"errors"

	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
)

// ErrNotFound is a sentinel for a missing entity. The Mutate* methods do not
// return it; they report a missing entity by returning false.
var ErrNotFound = errors.New("state: entity not found")

// GameState is the single authoritative record the engine operates on. It
// holds one table per entity kind plus the secondary indices needed by the
// phases, the diplomacy/intel databases, the RNG seed, and the event log.
// The only way to mutate it is through the Put*/Destroy* methods below
// (component 4.2 of spec.md: "get-modify-write discipline").
type GameState struct {
	Turn      int
	RNGSeed   uint64
	Allocator *id.Allocator

	Houses               *Table[id.HouseId, House]
	Systems              *Table[id.SystemId, System]
	Colonies             *Table[id.ColonyId, Colony]
	Neorias              *Table[id.NeoriaId, Neoria]
	Kastras              *Table[id.KastraId, Kastra]
	Ships                *Table[id.ShipId, Ship]
	Squadrons            *Table[id.SquadronId, Squadron]
	Fleets               *Table[id.FleetId, Fleet]
	ConstructionProjects *Table[id.ConstructionProjectId, ConstructionProject]
	RepairProjects       *Table[id.RepairProjectId, RepairProject]

	Diplomacy map[HousePair]DiplomaticRelation
	Intel     map[id.HouseId][]IntelligenceReport

	PrestigeLog []PrestigeEvent

	ColonyBySystem     map[id.SystemId]id.ColonyId
	FleetsByOwner      *Index[id.HouseId, id.FleetId]
	FleetsByLocation   *Index[id.SystemId, id.FleetId]
	SquadronsByOwner   *Index[id.HouseId, id.SquadronId]
	ColoniesByOwner    *Index[id.HouseId, id.ColonyId]
	ProjectsByColony   *Index[id.ColonyId, id.ConstructionProjectId]
	ProjectsByFacility *Index[id.NeoriaId, id.ConstructionProjectId]

	Events *event.Log

	// Suspect marks the state for external reporting after an invariant
	// violation diagnostic fires (spec.md §7). The engine keeps running.
	Suspect bool
}

// New returns an empty GameState ready for newGame to populate.
func New(seed uint64) *GameState {
	return &GameState{
		RNGSeed:              seed,
		Allocator:            id.NewAllocator(),
		Houses:               NewTable[id.HouseId, House](),
		Systems:              NewTable[id.SystemId, System](),
		Colonies:             NewTable[id.ColonyId, Colony](),
		Neorias:              NewTable[id.NeoriaId, Neoria](),
		Kastras:              NewTable[id.KastraId, Kastra](),
		Ships:                NewTable[id.ShipId, Ship](),
		Squadrons:            NewTable[id.SquadronId, Squadron](),
		Fleets:               NewTable[id.FleetId, Fleet](),
		ConstructionProjects: NewTable[id.ConstructionProjectId, ConstructionProject](),
		RepairProjects:       NewTable[id.RepairProjectId, RepairProject](),
		Diplomacy:            make(map[HousePair]DiplomaticRelation),
		Intel:                make(map[id.HouseId][]IntelligenceReport),
		ColonyBySystem:       make(map[id.SystemId]id.ColonyId),
		FleetsByOwner:        NewIndex[id.HouseId, id.FleetId](),
		FleetsByLocation:     NewIndex[id.SystemId, id.FleetId](),
		SquadronsByOwner:     NewIndex[id.HouseId, id.SquadronId](),
		ColoniesByOwner:      NewIndex[id.HouseId, id.ColonyId](),
		ProjectsByColony:     NewIndex[id.ColonyId, id.ConstructionProjectId](),
		ProjectsByFacility:   NewIndex[id.NeoriaId, id.ConstructionProjectId](),
		Events:               event.NewLog(),
	}
}

// Clone deep-copies the whole state, so a caller can keep a snapshot that
// later mutations leave untouched. The orchestrator does not call it;
// ResolveTurn mutates the state it is given.
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Turn:                 s.Turn,
		RNGSeed:              s.RNGSeed,
		Allocator:            s.Allocator.Clone(),
		Houses:               s.Houses.Clone(),
		Systems:              s.Systems.Clone(),
		Colonies:             s.Colonies.Clone(),
		Neorias:              s.Neorias.Clone(),
		Kastras:              s.Kastras.Clone(),
		Ships:                s.Ships.Clone(),
		Squadrons:            s.Squadrons.Clone(),
		Fleets:               s.Fleets.Clone(),
		ConstructionProjects: s.ConstructionProjects.Clone(),
		RepairProjects:       s.RepairProjects.Clone(),
		Diplomacy:            make(map[HousePair]DiplomaticRelation, len(s.Diplomacy)),
		Intel:                make(map[id.HouseId][]IntelligenceReport, len(s.Intel)),
		ColonyBySystem:       make(map[id.SystemId]id.ColonyId, len(s.ColonyBySystem)),
		FleetsByOwner:        s.FleetsByOwner.Clone(),
		FleetsByLocation:     s.FleetsByLocation.Clone(),
		SquadronsByOwner:     s.SquadronsByOwner.Clone(),
		ColoniesByOwner:      s.ColoniesByOwner.Clone(),
		ProjectsByColony:     s.ProjectsByColony.Clone(),
		ProjectsByFacility:   s.ProjectsByFacility.Clone(),
		Events:               s.Events.Clone(),
		Suspect:              s.Suspect,
	}
	for k, v := range s.Diplomacy {
		out.Diplomacy[k] = v.Clone()
	}
	for k, v := range s.Intel {
		reports := make([]IntelligenceReport, len(v))
		for i, r := range v {
			reports[i] = r.Clone()
		}
		out.Intel[k] = reports
	}
	for k, v := range s.ColonyBySystem {
		out.ColonyBySystem[k] = v
	}
	out.PrestigeLog = append([]PrestigeEvent(nil), s.PrestigeLog...)
	return out
}

// HouseIdsSorted returns every house id in canonical order.
func (s *GameState) HouseIdsSorted() []id.HouseId {
	return s.Houses.SortedKeys(func(a, b id.HouseId) bool { return a.Less(b) })
}

// SystemIdsSorted returns every system id in canonical order.
func (s *GameState) SystemIdsSorted() []id.SystemId {
	return s.Systems.SortedKeys(func(a, b id.SystemId) bool { return a.Less(b) })
}

// ColonyIdsSorted returns every colony id in canonical order.
func (s *GameState) ColonyIdsSorted() []id.ColonyId {
	return s.Colonies.SortedKeys(func(a, b id.ColonyId) bool { return a.Less(b) })
}

// FleetIdsSorted returns every fleet id in canonical order.
func (s *GameState) FleetIdsSorted() []id.FleetId {
	return s.Fleets.SortedKeys(func(a, b id.FleetId) bool { return a.Less(b) })
}
