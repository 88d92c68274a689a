// Package capacity enforces the three per-owner capacity systems of
// spec.md §4.8: carrier hangar load, planet-breaker count, and
// fighter-per-colony count. It runs once per Maintenance Phase, after
// queue advancement/commissioning and before the next Income Phase.
package capacity

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// Violation records one capacity breach found by an enforcer.
type Violation struct {
	Kind   string // "hangar", "planet_breaker", "fighter"
	Owner  id.HouseId
	Detail string
}

// Enforce runs all three capacity systems in turn and returns every
// violation found, after applying whatever mutation each system's rule
// calls for (spec.md §4.8: "analyzes... plans... applies... emits events").
func Enforce(st *state.GameState, cfg *config.Config, turn int, log *event.Log) []Violation {
	var out []Violation
	out = append(out, enforceHangars(st, cfg, turn, log)...)
	out = append(out, enforcePlanetBreakers(st, turn, log)...)
	out = append(out, enforceFighterCaps(st, cfg, turn, log)...)
	return out
}

// enforceHangars only logs: loading is blocked at the load site, so an
// over-capacity hangar here indicates a bug elsewhere, never a grace-period
// correction (spec.md §4.8, "No grace period").
func enforceHangars(st *state.GameState, cfg *config.Config, turn int, log *event.Log) []Violation {
	var out []Violation
	for _, hid := range st.HouseIdsSorted() {
		h, ok := st.GetHouse(hid)
		if !ok {
			continue
		}
		for _, sid := range st.SquadronsByOwner.Get(hid) {
			q, ok := st.GetSquadron(sid)
			if !ok {
				continue
			}
			flag, ok := st.GetShip(q.Flagship)
			if !ok || !isCarrierClass(flag.Class) {
				continue
			}
			max := hangarCapacity(cfg, flag.Class, h.TechLevels[state.TechAdvancedCarrierOps])
			if len(flag.Embarked) > max {
				v := Violation{Kind: "hangar", Owner: hid, Detail: flag.ID.String()}
				out = append(out, v)
				if log != nil {
					log.Emit(turn, event.PhaseMaintenance, event.KindInvariantViolation, map[string]any{
						"ship": flag.ID, "loaded": len(flag.Embarked), "max": max,
					})
				}
			}
		}
	}
	return out
}

func isCarrierClass(c state.ShipClass) bool {
	return c == state.ShipCarrier || c == state.ShipSuperCarrier
}

func hangarCapacity(cfg *config.Config, class state.ShipClass, aco int) int {
	byACO := cfg.Capacity.HangarCapacityByACO[aco]
	if byACO != nil {
		if v, ok := byACO[class]; ok {
			return v
		}
	}
	return 0
}

// enforcePlanetBreakers scraps the house's oldest (lowest squadron id)
// planet-breakers, no salvage, until current count no longer exceeds the
// house's colony count (spec.md §4.8, "No grace period").
func enforcePlanetBreakers(st *state.GameState, turn int, log *event.Log) []Violation {
	var out []Violation
	for _, hid := range st.HouseIdsSorted() {
		colonyCount := len(st.ColoniesByOwner.Get(hid))
		breakers := planetBreakerSquadrons(st, hid)
		if len(breakers) <= colonyCount {
			continue
		}
		excess := len(breakers) - colonyCount
		for i := 0; i < excess; i++ {
			qid := breakers[i]
			q, ok := st.GetSquadron(qid)
			if !ok {
				continue
			}
			st.DestroySquadron(qid)
			st.MutateHouse(hid, func(h *state.House) {
				if h.PlanetBreakerCount > 0 {
					h.PlanetBreakerCount--
				}
			})
			out = append(out, Violation{Kind: "planet_breaker", Owner: hid, Detail: qid.String()})
			if log != nil {
				log.Emit(turn, event.PhaseMaintenance, event.KindCapacityEnforced, map[string]any{
					"house": hid, "squadron": qid, "flagship": q.Flagship,
				})
			}
		}
	}
	return out
}

func planetBreakerSquadrons(st *state.GameState, owner id.HouseId) []id.SquadronId {
	var out []id.SquadronId
	for _, qid := range st.SquadronsByOwner.GetSorted(owner, func(a, b id.SquadronId) bool { return a.Less(b) }) {
		q, ok := st.GetSquadron(qid)
		if !ok {
			continue
		}
		flag, ok := st.GetShip(q.Flagship)
		if ok && flag.Class == state.ShipPlanetBreaker {
			out = append(out, qid)
		}
	}
	return out
}

// enforceFighterCaps disbands excess fighters once a colony has been over
// its fighter cap for longer than the configured grace period (spec.md
// §4.8). No salvage is credited to the treasury for disbanded fighters.
func enforceFighterCaps(st *state.GameState, cfg *config.Config, turn int, log *event.Log) []Violation {
	var out []Violation
	for _, cid := range st.ColonyIdsSorted() {
		c, ok := st.GetColony(cid)
		if !ok {
			continue
		}
		max := fighterCap(cfg, c)
		total := 0
		for _, fs := range c.FighterSquadrons {
			total += fs.ShipCount
		}
		if total <= max {
			if c.FighterCapOverTurns != 0 {
				st.MutateColony(cid, func(col *state.Colony) { col.FighterCapOverTurns = 0 })
			}
			continue
		}

		over := c.FighterCapOverTurns + 1
		if over <= cfg.Capacity.FighterCapGraceTurns {
			st.MutateColony(cid, func(col *state.Colony) { col.FighterCapOverTurns = over })
			out = append(out, Violation{Kind: "fighter", Owner: c.Owner, Detail: "grace period"})
			continue
		}

		excess := total - max
		st.MutateColony(cid, func(col *state.Colony) {
			col.FighterCapOverTurns = 0
			col.FighterSquadrons = disbandFighters(col.FighterSquadrons, excess)
		})
		out = append(out, Violation{Kind: "fighter", Owner: c.Owner, Detail: "auto-disbanded"})
		if log != nil {
			log.Emit(turn, event.PhaseMaintenance, event.KindCapacityEnforced, map[string]any{
				"colony": cid, "excess": excess,
			})
		}
	}
	return out
}

func fighterCap(cfg *config.Config, c state.Colony) int {
	v := float64(c.Infrastructure) * cfg.Capacity.FighterCapPerInfrastructure
	return int(v)
}

// disbandFighters removes up to n fighters starting from the most recently
// formed squadron (the tail of the slice), dropping emptied squadrons
// entirely. No salvage value is computed for the removed fighters, and the
// caller's capacity event carries only the colony and the excess count.
func disbandFighters(squadrons []state.FighterSquadron, n int) []state.FighterSquadron {
	out := append([]state.FighterSquadron(nil), squadrons...)
	remaining := n
	for remaining > 0 && len(out) > 0 {
		last := len(out) - 1
		if out[last].ShipCount <= remaining {
			remaining -= out[last].ShipCount
			out = out[:last]
			continue
		}
		out[last].ShipCount -= remaining
		remaining = 0
	}
	return out
}
