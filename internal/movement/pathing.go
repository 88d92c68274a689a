// Package movement implements the jump-lane graph, lane-class movement
// rules, and A* pathfinding used by the Command and Conflict phases
// (spec.md §4.6).
package movement

import (
	"container/heap"
	"sort"

	"github.com/ec4x/engine/internal/id"
	"github.com/ec4x/engine/internal/state"
)

// hexDistance is the standard axial-coordinate hex distance, used as the
// A* heuristic (always <= true lane-hop distance, so the heuristic is
// admissible even though lanes aren't guaranteed to follow the hex grid
// exactly).
func hexDistance(a, b state.System) int {
	dq := a.HexQ - b.HexQ
	dr := a.HexR - b.HexR
	ds := (-a.HexQ - a.HexR) - (-b.HexQ - b.HexR)
	return maxAbs3(dq, dr, ds) / 1
}

func maxAbs3(a, b, c int) int {
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	m := abs(a)
	if abs(b) > m {
		m = abs(b)
	}
	if abs(c) > m {
		m = abs(c)
	}
	return m
}

// CanTraverse reports whether a fleet with the given capability flags is
// permitted to cross a lane of class cls at all (spec.md §4.6: crippled or
// spacelift-carrying fleets cannot cross Restricted lanes).
func CanTraverse(cls state.LaneClass, hasCrippled, hasSpacelift bool) bool {
	if cls == state.LaneRestricted && (hasCrippled || hasSpacelift) {
		return false
	}
	return true
}

type pqItem struct {
	sys      id.SystemId
	priority int
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].sys.Less(pq[j].sys)
}
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index, pq[j].index = i, j }
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// FindPath runs A* over st's lane graph from start to goal, honoring
// CanTraverse. Returns the system sequence including both endpoints, or nil
// if unreachable. Ties are broken by system id so the result is
// deterministic (spec.md §6.4).
func FindPath(st *state.GameState, start, goal id.SystemId, hasCrippled, hasSpacelift bool) []id.SystemId {
	if start == goal {
		return []id.SystemId{start}
	}
	goalSys, ok := st.GetSystem(goal)
	if !ok {
		return nil
	}

	open := &priorityQueue{}
	heap.Init(open)
	heap.Push(open, &pqItem{sys: start, priority: 0})

	cameFrom := make(map[id.SystemId]id.SystemId)
	gScore := map[id.SystemId]int{start: 0}
	visited := make(map[id.SystemId]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqItem).sys
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur == goal {
			return reconstruct(cameFrom, start, goal)
		}
		curSys, ok := st.GetSystem(cur)
		if !ok {
			continue
		}
		neighbors := sortedAdjacency(curSys.Adjacency)
		for _, adj := range neighbors {
			if !CanTraverse(adj.Class, hasCrippled, hasSpacelift) {
				continue
			}
			tentative := gScore[cur] + 1
			if existing, ok := gScore[adj.To]; !ok || tentative < existing {
				gScore[adj.To] = tentative
				cameFrom[adj.To] = cur
				nSys, ok := st.GetSystem(adj.To)
				h := 0
				if ok {
					h = hexDistance(nSys, goalSys)
				}
				heap.Push(open, &pqItem{sys: adj.To, priority: tentative + h})
			}
		}
	}
	return nil
}

// sortedAdjacency returns a copy of adjs ordered by target system id, the
// canonical tie-break order for neighbor expansion (spec.md §9,
// "Deterministic iteration").
func sortedAdjacency(adjs []state.Adjacency) []state.Adjacency {
	out := append([]state.Adjacency(nil), adjs...)
	sort.Slice(out, func(i, j int) bool { return out[i].To.Less(out[j].To) })
	return out
}

func reconstruct(cameFrom map[id.SystemId]id.SystemId, start, goal id.SystemId) []id.SystemId {
	path := []id.SystemId{goal}
	cur := goal
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// HopsAllowedThisTurn returns 2 if every edge of path is Major class and
// every intermediate system (excluding the final destination) is owned by
// owner, else 1 (spec.md §4.6, "two-hop controlled-major movement").
func HopsAllowedThisTurn(st *state.GameState, path []id.SystemId, owner id.HouseId) int {
	if len(path) < 2 {
		return 1
	}
	for i := 0; i < len(path)-1; i++ {
		cls, ok := laneClassBetween(st, path[i], path[i+1])
		if !ok || cls != state.LaneMajor {
			return 1
		}
	}
	for i := 1; i < len(path)-1; i++ {
		col, ok := st.ColonyAtSystem(path[i])
		if !ok || col.Owner != owner {
			return 1
		}
	}
	return 2
}

func laneClassBetween(st *state.GameState, a, b id.SystemId) (state.LaneClass, bool) {
	sys, ok := st.GetSystem(a)
	if !ok {
		return "", false
	}
	for _, adj := range sys.Adjacency {
		if adj.To == b {
			return adj.Class, true
		}
	}
	return "", false
}

