package graph

import (
	"fmt"

	"github.com/zyedidia/generic/queue"
)

// Traversal is the outcome of a breadth-first search.
type Traversal struct {
	// Order lists rooms in dequeue order.
	Order []int
	// Depth maps each reached room to its edge distance from the start.
	Depth map[int]int
}

// BFS walks the graph breadth-first from start, visiting neighbors in edge
// insertion order.
//
// Postcondition: Order[0] == start for a valid start; rooms not reachable from
// start are absent from Depth. An invalid start yields an empty Traversal.
func (g *Graph) BFS(start int) Traversal {
	res := Traversal{Depth: make(map[int]int)}
	if !g.valid(start) {
		return res
	}
	q := queue.New[int]()
	q.Enqueue(start)
	res.Depth[start] = 0
	for !q.Empty() {
		current := q.Dequeue()
		res.Order = append(res.Order, current)
		for _, nbr := range g.adj[current] {
			if _, seen := res.Depth[nbr]; seen {
				continue
			}
			res.Depth[nbr] = res.Depth[current] + 1
			q.Enqueue(nbr)
		}
	}
	return res
}

// FurthestFrom returns the reachable room with the greatest BFS depth from
// start, and that depth. Among rooms at the maximum depth, the one dequeued
// last wins. Unreachable rooms are never returned.
//
// Postcondition: returns (start, 0) when start has no reachable neighbor, and
// (-1, 0) for an invalid start.
func (g *Graph) FurthestFrom(start int) (room, depth int) {
	t := g.BFS(start)
	if len(t.Order) == 0 {
		return -1, 0
	}
	room = start
	for _, r := range t.Order {
		if d := t.Depth[r]; d >= depth {
			room, depth = r, d
		}
	}
	return room, depth
}

// Reachable reports whether b can be reached from a.
func (g *Graph) Reachable(a, b int) bool {
	_, ok := g.BFS(a).Depth[b]
	return ok
}

// Components partitions the rooms into connected components. Components are
// ordered by their smallest room and list rooms in BFS order from it.
func (g *Graph) Components() [][]int {
	assigned := make([]bool, g.n)
	var comps [][]int
	for i := 0; i < g.n; i++ {
		if assigned[i] {
			continue
		}
		order := g.BFS(i).Order
		for _, r := range order {
			assigned[r] = true
		}
		comps = append(comps, order)
	}
	return comps
}

// Connected returns nil when every room is reachable from every other, or a
// *DisconnectedError wrapping ErrDisconnected.
func (g *Graph) Connected() error {
	if comps := g.Components(); len(comps) > 1 {
		return &DisconnectedError{Components: comps}
	}
	return nil
}

// DisconnectedError carries the components of a disconnected graph.
type DisconnectedError struct {
	Components [][]int
}

func (e *DisconnectedError) Error() string {
	return fmt.Sprintf("%v: %d components", ErrDisconnected, len(e.Components))
}

// Unwrap lets errors.Is match ErrDisconnected.
func (e *DisconnectedError) Unwrap() error { return ErrDisconnected }
