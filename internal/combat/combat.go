// Package combat resolves space combat, blockade, bombardment, and ground
// invasion at a contested system (spec.md §4.7). Resolution is entirely
// deterministic: every die roll is drawn from a combat sub-stream seeded
// from (game seed, turn, system id, round index).
package combat

import (
	"sort"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/rng"
	"github.com/ec4x/engine/internal/state"
)

// strengthToHitsDivisor converts a side's summed offensive strength into a
// number of hit rolls per round. There is no canonical constant for this in
// the source material; it is an implementer decision documented in
// DESIGN.md's Open Questions.
const strengthToHitsDivisor = 10

// RoundOutcome records both sides' hits and critical hits for one round.
type RoundOutcome struct {
	Round          int
	AttackerHits   int
	DefenderHits   int
	AttackerCrits  int
	DefenderCrits  int
}

// Result is the full outcome of resolving combat at one system.
type Result struct {
	System        id.SystemId
	Rounds        []RoundOutcome
	Destroyed     []id.ShipId
	Crippled      []id.ShipId
	Retreated     id.HouseId // zero value if nobody retreated
	Winner        id.HouseId // zero value if round cap reached with both sides standing
}

// side is one house's combat-relevant forces at the system.
type side struct {
	owner     id.HouseId
	ships     []id.ShipId // squadron-member ships, sorted by id
	roles     map[id.ShipId]state.RoleMode
	spacelift []id.ShipId // unscreened spacelift / mothballed hulls
	starbases []id.KastraId
}

// gatherSides groups every active combatant fleet and starbase at sys by
// owner, in canonical (house id) order (spec.md §4.7).
func gatherSides(st *state.GameState, sys id.SystemId) []side {
	byOwner := make(map[id.HouseId]*side)

	for _, fid := range st.FleetsByLocation.GetSorted(sys, func(a, b id.FleetId) bool { return a.Less(b) }) {
		f, ok := st.GetFleet(fid)
		if !ok {
			continue
		}
		s, ok := byOwner[f.Owner]
		if !ok {
			s = &side{owner: f.Owner, roles: make(map[id.ShipId]state.RoleMode)}
			byOwner[f.Owner] = s
		}
		for _, qid := range f.Squadrons {
			q, ok := st.GetSquadron(qid)
			if !ok {
				continue
			}
			ships := append([]id.ShipId{q.Flagship}, q.Escorts...)
			for _, sid := range ships {
				if sh, ok := st.GetShip(sid); ok && sh.State != state.ShipDestroyed {
					s.ships = append(s.ships, sid)
					s.roles[sid] = q.Role
				}
			}
		}
		if f.Status != state.FleetActive || !screenedByActiveCombat(st, f) {
			for _, sid := range f.SpaceliftShips {
				if sh, ok := st.GetShip(sid); ok && sh.State != state.ShipDestroyed {
					s.spacelift = append(s.spacelift, sid)
				}
			}
		}
	}

	if c, ok := st.ColonyAtSystem(sys); ok {
		s, ok2 := byOwner[c.Owner]
		if !ok2 {
			s = &side{owner: c.Owner}
			byOwner[c.Owner] = s
		}
		s.starbases = append(s.starbases, c.KastraIDs...)
	}

	var out []side
	var owners []id.HouseId
	for o := range byOwner {
		owners = append(owners, o)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].Less(owners[j]) })
	for _, o := range owners {
		s := byOwner[o]
		sort.Slice(s.ships, func(i, j int) bool { return s.ships[i].Less(s.ships[j]) })
		out = append(out, *s)
	}
	return out
}

// screenedByActiveCombat reports whether f has at least one undamaged
// combat squadron to screen its spacelift ships (spec.md §4.7, "Spacelift
// ships and Mothballed fleets must be screened by active combat squadrons").
func screenedByActiveCombat(st *state.GameState, f state.Fleet) bool {
	for _, qid := range f.Squadrons {
		q, ok := st.GetSquadron(qid)
		if !ok || q.Type != state.SquadronCombat {
			continue
		}
		if sh, ok := st.GetShip(q.Flagship); ok && sh.State == state.ShipUndamaged {
			return true
		}
	}
	return false
}

func strength(st *state.GameState, cfg *config.Config, s side) int {
	total := 0
	for _, sid := range s.ships {
		sh, ok := st.GetShip(sid)
		if !ok {
			continue
		}
		off, _ := ShipStrength(cfg, sh, s.roles[sid])
		total += off
	}
	for _, kid := range s.starbases {
		k, ok := st.GetKastra(kid)
		if !ok || k.Crippled {
			continue
		}
		total += cfg.Combat.StarbaseOffensiveStrength
	}
	return total
}

func hitsForStrength(v int) int {
	hits := v / strengthToHitsDivisor
	if hits < 1 && v > 0 {
		hits = 1
	}
	return hits
}

// ResolveSystemCombat runs ordered combat rounds at sys between attacker
// and defender until one of them has no ships or starbases left there, or
// the round cap is reached (spec.md §4.7). No retreat check is made, so
// Result.Retreated is never set. The two sides are the houses passed in,
// whatever their size; a system with three or more hostile owners is
// handled by the orchestrator calling this once per hostile pair.
func ResolveSystemCombat(st *state.GameState, cfg *config.Config, rngSvc rng.Service, turn int, sys id.SystemId, attacker, defender id.HouseId, log *event.Log) Result {
	res := Result{System: sys}

	for round := 1; round <= cfg.Combat.RoundCap; round++ {
		stream := rngSvc.Sub(rng.StreamCombat, sys.Salt(), attacker.Salt(), defender.Salt(), uint64(round))
		aSide := findSide(st, sys, attacker)
		dSide := findSide(st, sys, defender)
		if len(aSide.ships) == 0 && len(aSide.starbases) == 0 {
			res.Winner = defender
			break
		}
		if len(dSide.ships) == 0 && len(dSide.starbases) == 0 {
			res.Winner = attacker
			break
		}

		aStrength := strength(st, cfg, aSide)
		dStrength := strength(st, cfg, dSide)

		aHits, aCrits := rollHits(stream, cfg, hitsForStrength(aStrength))
		dHits, dCrits := rollHits(stream, cfg, hitsForStrength(dStrength))

		destroyedD, crippledD := applyHits(st, cfg, dSide.ships, dSide.roles, aHits, aCrits)
		destroyedA, crippledA := applyHits(st, cfg, aSide.ships, aSide.roles, dHits, dCrits)

		res.Destroyed = append(res.Destroyed, destroyedD...)
		res.Destroyed = append(res.Destroyed, destroyedA...)
		res.Crippled = append(res.Crippled, crippledD...)
		res.Crippled = append(res.Crippled, crippledA...)
		res.Rounds = append(res.Rounds, RoundOutcome{
			Round: round, AttackerHits: aHits, DefenderHits: dHits,
			AttackerCrits: aCrits, DefenderCrits: dCrits,
		})

		destroyUnscreenedSpacelift(st, aSide, dHits)
		destroyUnscreenedSpacelift(st, dSide, aHits)

		if log != nil {
			log.Emit(turn, event.PhaseConflict, event.KindCombatResolved, map[string]any{
				"system": sys, "round": round, "attacker_hits": aHits, "defender_hits": dHits,
			})
		}
	}
	return res
}

func findSide(st *state.GameState, sys id.SystemId, owner id.HouseId) side {
	for _, s := range gatherSides(st, sys) {
		if s.owner == owner {
			return s
		}
	}
	return side{owner: owner}
}

func rollHits(stream *rng.Stream, cfg *config.Config, count int) (hits, crits int) {
	sides := cfg.Combat.HitDieSides
	if sides <= 0 {
		sides = 20
	}
	for i := 0; i < count; i++ {
		roll := stream.Intn(sides) + 1
		hits++
		if roll >= cfg.Combat.CriticalThreshold {
			crits++
		}
	}
	return hits, crits
}

// hitsToBreak returns how many more hit points sh must absorb in its
// current State before it breaks (cripples, or is destroyed if already
// crippled or a fighter): its role/tech/damage-modified defensive strength
// from ShipStrength, less HitsTaken so far (spec.md §4.7, "Each ship's
// required hits-to-cripple equals its defensive strength; crippled ships
// have half defensive strength"). Always at least 1, so a ship configured
// with zero defensive strength still takes exactly one hit to break.
func hitsToBreak(cfg *config.Config, sh state.Ship, role state.RoleMode) int {
	_, defense := ShipStrength(cfg, sh, role)
	if defense < 1 {
		defense = 1
	}
	need := defense - sh.HitsTaken
	if need < 1 {
		need = 1
	}
	return need
}

// applyHits implements the two-phase hit application (spec.md §4.7): every
// currently-undamaged ship is crippled before any destruction occurs;
// critical hits bypass that ordering and destroy outright. Fighters skip
// the crippled state entirely. A ship absorbs hits as accumulated damage
// against its defensive strength and only breaks once that threshold is
// met; hits beyond what a target needs roll over to the next target in the
// same phase, and any left over once the phase runs out of eligible
// targets are lost.
func applyHits(st *state.GameState, cfg *config.Config, targets []id.ShipId, roles map[id.ShipId]state.RoleMode, hits, crits int) (destroyed, crippled []id.ShipId) {
	for i := 0; i < crits && i < len(targets); i++ {
		sid := targets[i]
		sh, ok := st.GetShip(sid)
		if !ok || sh.State == state.ShipDestroyed {
			continue
		}
		st.MutateShip(sid, func(s *state.Ship) { s.State = state.ShipDestroyed; s.HitsTaken = 0 })
		destroyed = append(destroyed, sid)
	}

	remaining := hits - crits
	if remaining <= 0 {
		return destroyed, crippled
	}

	crippling := false
	for _, sid := range targets {
		if remaining <= 0 {
			break
		}
		sh, ok := st.GetShip(sid)
		if !ok || sh.State != state.ShipUndamaged {
			continue
		}
		crippling = true
		need := hitsToBreak(cfg, sh, roles[sid])
		applied := remaining
		if applied > need {
			applied = need
		}
		remaining -= applied
		if applied < need {
			st.MutateShip(sid, func(s *state.Ship) { s.HitsTaken += applied })
			continue
		}
		if cfg.Ships[sh.Class].IsFighter {
			st.MutateShip(sid, func(s *state.Ship) { s.State = state.ShipDestroyed; s.HitsTaken = 0 })
			destroyed = append(destroyed, sid)
		} else {
			st.MutateShip(sid, func(s *state.Ship) { s.State = state.ShipCrippled; s.HitsTaken = 0 })
			crippled = append(crippled, sid)
		}
	}
	if remaining <= 0 || crippling {
		return destroyed, crippled
	}

	anyUndamaged := false
	for _, sid := range targets {
		if sh, ok := st.GetShip(sid); ok && sh.State == state.ShipUndamaged {
			anyUndamaged = true
			break
		}
	}
	if anyUndamaged {
		return destroyed, crippled
	}
	for _, sid := range targets {
		if remaining <= 0 {
			break
		}
		sh, ok := st.GetShip(sid)
		if !ok || sh.State != state.ShipCrippled {
			continue
		}
		need := hitsToBreak(cfg, sh, roles[sid])
		applied := remaining
		if applied > need {
			applied = need
		}
		remaining -= applied
		if applied < need {
			st.MutateShip(sid, func(s *state.Ship) { s.HitsTaken += applied })
			continue
		}
		st.MutateShip(sid, func(s *state.Ship) { s.State = state.ShipDestroyed; s.HitsTaken = 0 })
		destroyed = append(destroyed, sid)
	}
	return destroyed, crippled
}

// destroyUnscreenedSpacelift destroys s's unscreened spacelift ships, one
// per enemy hit this round, in slice order until none are left. The number
// destroyed does not depend on how the enemy's strength compares with s's.
func destroyUnscreenedSpacelift(st *state.GameState, s side, enemyHits int) {
	if len(s.spacelift) == 0 {
		return
	}
	n := enemyHits
	if n > len(s.spacelift) {
		n = len(s.spacelift)
	}
	for i := 0; i < n; i++ {
		st.MutateShip(s.spacelift[i], func(sh *state.Ship) { sh.State = state.ShipDestroyed })
	}
}
