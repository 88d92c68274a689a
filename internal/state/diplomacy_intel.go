package state

import "github.com/ec4x/engine/internal/id"

// DiplomaticState is the closed set of relation states between two houses.
type DiplomaticState string

const (
	DiploPeace              DiplomaticState = "peace"
	DiploNonAggressionPact  DiplomaticState = "nap"
	DiploAlliance           DiplomaticState = "alliance"
	DiploHostile            DiplomaticState = "hostile"
	DiploWar                DiplomaticState = "war"
)

// DiplomaticTransition records one state change with its turn stamp.
type DiplomaticTransition struct {
	Turn  int
	To    DiplomaticState
}

// HousePair is an unordered pair of houses, normalized so (A,B) == (B,A).
type HousePair struct {
	A, B id.HouseId
}

// NormalizeHousePair returns a and b in canonical (sorted) order.
func NormalizeHousePair(a, b id.HouseId) HousePair {
	if a.Less(b) {
		return HousePair{A: a, B: b}
	}
	return HousePair{A: b, B: a}
}

// DiplomaticRelation is keyed on an unordered house pair.
type DiplomaticRelation struct {
	Pair    HousePair
	State   DiplomaticState
	History []DiplomaticTransition
}

func (d DiplomaticRelation) Clone() DiplomaticRelation {
	out := d
	out.History = append([]DiplomaticTransition(nil), d.History...)
	return out
}

// IntelConfidence is a coarse quality tier for an intelligence report.
type IntelConfidence string

const (
	IntelHigh    IntelConfidence = "high"
	IntelMedium  IntelConfidence = "medium"
	IntelLow     IntelConfidence = "low"
	IntelStale   IntelConfidence = "stale"
)

// ColonyIntelFacts is the observed-colony payload of an IntelligenceReport.
type ColonyIntelFacts struct {
	Population         int
	Infrastructure     int
	Defenses           GroundForces
	ConstructionQueueLen int
	StarbaseCount      int
	DrydockCount       int
}

// FleetIntelFacts is the observed-fleet payload of an IntelligenceReport.
type FleetIntelFacts struct {
	SquadronCount int
	ShipCount     int
	Composition   map[ShipClass]int // only populated at sufficient quality
}

// IntelligenceReport is one viewing house's knowledge of a subject
// system/house, aged over time (spec.md §4.9).
type IntelligenceReport struct {
	ViewingHouse id.HouseId
	SubjectSystem *id.SystemId
	SubjectHouse  *id.HouseId
	FreshnessTurn int
	Confidence    IntelConfidence
	Fleet         *FleetIntelFacts
	Colony        *ColonyIntelFacts
}

func (r IntelligenceReport) Clone() IntelligenceReport {
	out := r
	if r.SubjectSystem != nil {
		v := *r.SubjectSystem
		out.SubjectSystem = &v
	}
	if r.SubjectHouse != nil {
		v := *r.SubjectHouse
		out.SubjectHouse = &v
	}
	if r.Fleet != nil {
		f := *r.Fleet
		f.Composition = cloneShipClassIntMap(r.Fleet.Composition)
		out.Fleet = &f
	}
	if r.Colony != nil {
		c := *r.Colony
		out.Colony = &c
	}
	return out
}

func cloneShipClassIntMap(m map[ShipClass]int) map[ShipClass]int {
	if m == nil {
		return nil
	}
	out := make(map[ShipClass]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PrestigeSource classifies where a PrestigeEvent originated.
type PrestigeSource string

const (
	PrestigeColonyEstablished  PrestigeSource = "colony_established"
	PrestigeTechBreakthrough   PrestigeSource = "tech_breakthrough"
	PrestigeCombatVictory      PrestigeSource = "combat_victory"
	PrestigeInvasionSuccess    PrestigeSource = "invasion_success"
	PrestigeInvasionFailure    PrestigeSource = "invasion_failure"
	PrestigeEspionageSuccess   PrestigeSource = "espionage_success"
	PrestigeEspionageDetected  PrestigeSource = "espionage_detected"
	PrestigeMaintenanceShortfall PrestigeSource = "maintenance_shortfall"
	PrestigeBlockade           PrestigeSource = "blockade"
	PrestigeBombardment        PrestigeSource = "bombardment"
	PrestigeWarDeclared        PrestigeSource = "war_declared"
	PrestigeAllianceBroken     PrestigeSource = "alliance_broken"
)

// PrestigeEvent is one signed prestige delta applied to a house.
type PrestigeEvent struct {
	House  id.HouseId
	Source PrestigeSource
	Amount int
	Reason string
	Turn   int
}
