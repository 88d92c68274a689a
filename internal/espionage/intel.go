// Package espionage implements mission resolution, detection rolls, scout
// mesh networks, and intelligence-report construction/aging (spec.md §4.9).
package espionage

import (
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// agingTurns is how many turns a report holds its confidence tier before
// decaying one step (spec.md §4.9: "confidence decays one tier per N turns
// since last refresh").
const agingTurns = 3

func decay(c state.IntelConfidence) state.IntelConfidence {
	switch c {
	case state.IntelHigh:
		return state.IntelMedium
	case state.IntelMedium:
		return state.IntelLow
	case state.IntelLow:
		return state.IntelStale
	default:
		return state.IntelStale
	}
}

// AgeIntelReports decays every house's reports whose FreshnessTurn is at
// least agingTurns behind the current turn. Stale reports are preserved,
// never deleted, only marked (spec.md §4.9).
func AgeIntelReports(st *state.GameState, turn int) {
	for _, hid := range st.HouseIdsSorted() {
		reports := st.ReportsFor(hid)
		for _, r := range reports {
			if turn-r.FreshnessTurn >= agingTurns && r.Confidence != state.IntelStale {
				r.Confidence = decay(r.Confidence)
				r.FreshnessTurn = turn
				st.PutReport(hid, r)
			}
		}
	}
}

// RefreshColonyReport upserts a fresh, high-confidence colony report for
// viewer about subject, built from ground truth (called after a successful
// SpyPlanet/HackStarbase mission or scout overflight).
func RefreshColonyReport(st *state.GameState, turn int, viewer id.HouseId, subjectSystem id.SystemId, c state.Colony) {
	sys := subjectSystem
	facts := state.ColonyIntelFacts{
		Population:           c.PopulationUnits,
		Infrastructure:       c.Infrastructure,
		Defenses:             c.Ground,
		ConstructionQueueLen: len(c.ConstructionQueue),
		StarbaseCount:        len(c.KastraIDs),
		DrydockCount:         countDrydocks(st, c),
	}
	st.PutReport(viewer, state.IntelligenceReport{
		ViewingHouse:  viewer,
		SubjectSystem: &sys,
		FreshnessTurn: turn,
		Confidence:    state.IntelHigh,
		Colony:        &facts,
	})
}

func countDrydocks(st *state.GameState, c state.Colony) int {
	n := 0
	for _, nid := range c.NeoriaIDs {
		neo, ok := st.GetNeoria(nid)
		if ok && neo.Kind == state.FacilityDrydock {
			n++
		}
	}
	return n
}

// RefreshFleetReport upserts a fresh fleet-composition report. Quality
// gates whether Composition is populated: at Low confidence only counts are
// reliable (fog-of-war derivation enforces this distinction again at view
// time; this is the authoritative store).
func RefreshFleetReport(st *state.GameState, turn int, viewer, subjectHouse id.HouseId, sys id.SystemId, squadronCount, shipCount int, composition map[state.ShipClass]int, confidence state.IntelConfidence) {
	subj := subjectHouse
	facts := state.FleetIntelFacts{SquadronCount: squadronCount, ShipCount: shipCount}
	if confidence == state.IntelHigh || confidence == state.IntelMedium {
		facts.Composition = composition
	}
	st.PutReport(viewer, state.IntelligenceReport{
		ViewingHouse:  viewer,
		SubjectHouse:  &subj,
		SubjectSystem: &sys,
		FreshnessTurn: turn,
		Confidence:    confidence,
		Fleet:         &facts,
	})
}
