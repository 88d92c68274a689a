package economy

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// shipsPerFullFighterSquadron is the unit size a fighter build accumulates
// toward before it counts as one complete squadron (spec.md §4.4).
const shipsPerFullFighterSquadron = 12

// CommissionPlanetary applies every completed non-ship project's effects at
// the colony immediately (spec.md §4.4, "Planetary commissioning"). It
// returns the subset of completed projects that are ship builds, left for
// the Command Phase to commission into squadrons/fleets.
func CommissionPlanetary(st *state.GameState, cfg *config.Config, turn int, completed []state.ConstructionProject, log *event.Log) []state.ConstructionProject {
	var shipProjects []state.ConstructionProject

	for _, p := range completed {
		switch p.Type {
		case state.ProjectShip:
			class := state.ShipClass(p.Item)
			if class == state.ShipFighter {
				commissionFighters(st, p)
				continue
			}
			shipProjects = append(shipProjects, p)

		case state.ProjectFacility:
			commissionFacility(st, cfg, p, turn, log)

		case state.ProjectGround:
			commissionGround(st, cfg, p)

		case state.ProjectIndustrial:
			st.MutateColony(p.ColonyID, func(c *state.Colony) {
				c.IndustrialUnits++
			})

		case state.ProjectTerraform:
			commissionTerraform(st, cfg, p, turn, log)
		}
	}
	return shipProjects
}

func commissionFighters(st *state.GameState, p state.ConstructionProject) {
	count := p.Count
	if count < 1 {
		count = 1
	}
	st.MutateColony(p.ColonyID, func(c *state.Colony) {
		if len(c.FighterSquadrons) == 0 || c.FighterSquadrons[len(c.FighterSquadrons)-1].ShipCount >= shipsPerFullFighterSquadron {
			c.FighterSquadrons = append(c.FighterSquadrons, state.FighterSquadron{})
		}
		remaining := count
		for remaining > 0 {
			last := &c.FighterSquadrons[len(c.FighterSquadrons)-1]
			room := shipsPerFullFighterSquadron - last.ShipCount
			if room <= 0 {
				c.FighterSquadrons = append(c.FighterSquadrons, state.FighterSquadron{})
				continue
			}
			add := remaining
			if add > room {
				add = room
			}
			last.ShipCount += add
			remaining -= add
		}
	})
}

// commissionTerraform applies a completed terraform project's
// infrastructure gain to its colony (spec.md §4.1, "advance terraforming").
func commissionTerraform(st *state.GameState, cfg *config.Config, p state.ConstructionProject, turn int, log *event.Log) {
	gain := cfg.Economy.TerraformInfrastructureGain
	if gain < 1 {
		gain = 1
	}
	st.MutateColony(p.ColonyID, func(c *state.Colony) {
		c.Infrastructure += gain
	})
	if log != nil {
		log.Emit(turn, event.PhaseMaintenance, event.KindBuildingCompleted, map[string]any{
			"colony":   p.ColonyID,
			"facility": "terraform",
			"gain":     gain,
		})
	}
}

func commissionFacility(st *state.GameState, cfg *config.Config, p state.ConstructionProject, turn int, log *event.Log) {
	kind := state.FacilityKind(p.Item)

	if kind == state.FacilityStarbase {
		k := state.Kastra{
			ID:               st.Allocator.NewKastraId(),
			ColonyID:         p.ColonyID,
			CommissionedTurn: turn,
		}
		st.PutKastra(k)
		st.MutateColony(p.ColonyID, func(c *state.Colony) {
			c.KastraIDs = append(c.KastraIDs, k.ID)
		})
		if log != nil {
			log.Emit(turn, event.PhaseMaintenance, event.KindStarbaseBuilt, map[string]any{"colony": p.ColonyID})
		}
		return
	}

	row := cfg.Facilities[kind]
	base := row.Docks
	n := state.Neoria{
		ID:               st.Allocator.NewNeoriaId(),
		ColonyID:         p.ColonyID,
		Kind:             kind,
		CommissionedTurn: turn,
		BaseDocks:        base,
		EffectiveDocks:   effectiveDocks(st, p.ColonyID, base),
	}
	st.PutNeoria(n)
	st.MutateColony(p.ColonyID, func(c *state.Colony) {
		c.NeoriaIDs = append(c.NeoriaIDs, n.ID)
	})
	if log != nil {
		log.Emit(turn, event.PhaseMaintenance, event.KindBuildingCompleted, map[string]any{
			"colony":   p.ColonyID,
			"facility": string(kind),
		})
	}
}

// effectiveDocks scales base dock count by the owning house's construction
// tech level (spec.md §4.4, "effective docks scaled by construction-tech").
func effectiveDocks(st *state.GameState, cid id.ColonyId, base int) int {
	c, ok := st.GetColony(cid)
	if !ok {
		return base
	}
	h, ok := st.GetHouse(c.Owner)
	if !ok {
		return base
	}
	bonus := h.TechLevels[state.TechConstruction] / 2
	return base + bonus
}

// Ground-unit config keys recognized by commissionGround. Anything else in
// cfg.GroundUnits is a unit kind this engine doesn't model defense effects
// for yet (e.g. future unit types) and is commissioned as population-free.
const (
	groundUnitMarines         = "marines"
	groundUnitArmy            = "army"
	groundUnitGroundBattery   = "ground_battery"
	groundUnitPlanetaryShield = "planetary_shield"
)

func commissionGround(st *state.GameState, cfg *config.Config, p state.ConstructionProject) {
	row := cfg.GroundUnits[p.Item]
	count := p.Count
	if count < 1 {
		count = 1
	}
	switch p.Item {
	case groundUnitMarines:
		applyGroundRecruit(st, p.ColonyID, row.PopulationCost*count, func(g *state.GroundForces) { g.MarineDivisions += count })
	case groundUnitArmy:
		applyGroundRecruit(st, p.ColonyID, row.PopulationCost*count, func(g *state.GroundForces) { g.ArmyDivisions += count })
	case groundUnitGroundBattery:
		st.MutateColony(p.ColonyID, func(c *state.Colony) { c.Ground.GroundBatteries += count })
	case groundUnitPlanetaryShield:
		st.MutateColony(p.ColonyID, func(c *state.Colony) { c.Ground.PlanetaryShield += count })
	}
}

// minimumViablePopulation is the population floor recruitment may never
// cross (spec.md §4.4, "require minimum-viable-population after recruitment").
const minimumViablePopulation = 1

func applyGroundRecruit(st *state.GameState, cid id.ColonyId, popCost int, apply func(*state.GroundForces)) {
	c, ok := st.GetColony(cid)
	if !ok {
		return
	}
	if c.PopulationUnits-popCost < minimumViablePopulation {
		return
	}
	st.MutateColony(cid, func(col *state.Colony) {
		col.PopulationUnits -= popCost
		apply(&col.Ground)
	})
}
