package economy

import (
	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/event"
	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// AdvanceQueues ticks every in-progress project down by one turn (Maintenance
// Phase). Colony-hosted queues (facilities, ground units, industrial) advance
// one project at a time per colony via ConstructionQueue/ActiveProject;
// dock-hosted ship builds advance one project per free dock in parallel, up
// to the hosting neoria's EffectiveDocks (spec.md §4.4, "Queue advancement").
// It returns every project that reached zero turns remaining this phase.
func AdvanceQueues(st *state.GameState, cfg *config.Config, turn int, log *event.Log) []state.ConstructionProject {
	var completed []state.ConstructionProject

	for _, cid := range st.ColonyIdsSorted() {
		c, ok := st.GetColony(cid)
		if !ok {
			continue
		}
		if c.ActiveProject != nil {
			if done := tickProject(st, *c.ActiveProject); done != nil {
				completed = append(completed, *done)
				st.MutateColony(cid, func(col *state.Colony) {
					col.ActiveProject = nil
					col.ConstructionQueue = popFront(col.ConstructionQueue, *c.ActiveProject)
					if len(col.ConstructionQueue) > 0 {
						next := col.ConstructionQueue[0]
						col.ActiveProject = &next
					}
				})
			}
		} else if len(c.ConstructionQueue) > 0 {
			next := c.ConstructionQueue[0]
			st.MutateColony(cid, func(col *state.Colony) { col.ActiveProject = &next })
		}
	}

	for _, nid := range allNeoriaIDs(st) {
		n, ok := st.GetNeoria(nid)
		if !ok {
			continue
		}
		active := n.ActiveProjects
		slots := n.EffectiveDocks
		if slots <= 0 {
			slots = 1
		}
		if len(active) > slots {
			active = active[:slots]
		}
		var remaining []id.ConstructionProjectId
		for _, pid := range active {
			if done := tickProject(st, pid); done != nil {
				completed = append(completed, *done)
				continue
			}
			remaining = append(remaining, pid)
		}
		queued := n.ActiveProjects
		if len(queued) > len(remaining) {
			for _, pid := range queued[len(active):] {
				if len(remaining) >= slots {
					break
				}
				remaining = append(remaining, pid)
			}
		}
		n.ActiveProjects = remaining
		st.PutNeoria(n)
	}

	for _, p := range completed {
		if log != nil {
			log.Emit(turn, event.PhaseMaintenance, event.KindConstructionCompleted, map[string]any{
				"colony": p.ColonyID,
				"item":   p.Item,
			})
		}
	}
	return completed
}

func tickProject(st *state.GameState, pid id.ConstructionProjectId) *state.ConstructionProject {
	p, ok := st.GetConstructionProject(pid)
	if !ok {
		return nil
	}
	p.TurnsRemaining--
	if p.TurnsRemaining > 0 {
		st.PutConstructionProject(p)
		return nil
	}
	st.DestroyConstructionProject(pid)
	return &p
}

func popFront(queue []id.ConstructionProjectId, done id.ConstructionProjectId) []id.ConstructionProjectId {
	out := make([]id.ConstructionProjectId, 0, len(queue))
	for _, pid := range queue {
		if pid != done {
			out = append(out, pid)
		}
	}
	return out
}

func allNeoriaIDs(st *state.GameState) []id.NeoriaId {
	var out []id.NeoriaId
	for _, cid := range st.ColonyIdsSorted() {
		c, ok := st.GetColony(cid)
		if !ok {
			continue
		}
		out = append(out, c.NeoriaIDs...)
	}
	return out
}
