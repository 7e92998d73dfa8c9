// Package pathfind implements A* search over a bounded 4-connected grid with
// a static obstacle set.
package pathfind

import (
	"errors"

	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
	"github.com/cory-johannsen/dungeon/internal/dungeon/pqueue"
)

// ErrNoPath reports that the goal cannot be reached from the start. Callers
// treat it as a recoverable outcome.
var ErrNoPath = errors.New("pathfind: no path found")

// Pathfinder searches for shortest unit-cost paths on a width×height grid.
//
// Invariant: the obstacle set is never mutated by the Pathfinder.
type Pathfinder struct {
	walls  mapset.Set[geom.Tile]
	width  int
	height int
}

// New returns a Pathfinder over [0,width)×[0,height) that never enters walls.
// A zero-value walls set means no obstacles.
//
// Precondition: width > 0 and height > 0.
func New(walls mapset.Set[geom.Tile], width, height int) *Pathfinder {
	return &Pathfinder{walls: walls, width: width, height: height}
}

// InBounds reports whether t lies on the grid.
func (p *Pathfinder) InBounds(t geom.Tile) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < p.width && t.Y < p.height
}

// FindPath returns a shortest 4-directional path from start to goal,
// inclusive of both endpoints, or nil when the goal is unreachable.
//
// Neighbors are explored up, down, left, right; equal f-scores are expanded
// in enqueue order, so the returned path is deterministic.
//
// Postcondition: a non-nil result has length g(goal)+1, starts at start and
// ends at goal, and every consecutive pair differs by one unit step.
func (p *Pathfinder) FindPath(start, goal geom.Tile) []geom.Tile {
	open := pqueue.New[geom.Tile]()
	open.Enqueue(start, geom.Manhattan(start, goal))

	closed := mapset.New[geom.Tile]()
	cameFrom := make(map[geom.Tile]geom.Tile)
	gScore := map[geom.Tile]int{start: 0}

	for open.Len() > 0 {
		current, err := open.Dequeue()
		if err != nil {
			// Len() > 0 guarantees an entry.
			panic(err)
		}
		if current == goal {
			return reconstruct(cameFrom, start, goal)
		}
		if closed.Has(current) {
			continue
		}
		closed.Put(current)

		for _, dir := range geom.Directions4 {
			next := current.Add(dir)
			if !p.InBounds(next) || p.walls.Has(next) || closed.Has(next) {
				continue
			}
			tentative := gScore[current] + 1
			if best, seen := gScore[next]; seen && tentative >= best {
				continue
			}
			cameFrom[next] = current
			gScore[next] = tentative
			open.Enqueue(next, tentative+geom.Manhattan(next, goal))
		}
	}
	return nil
}

// Route wraps FindPath with an error result for callers that propagate
// failures.
//
// Postcondition: err is ErrNoPath iff path is nil.
func (p *Pathfinder) Route(start, goal geom.Tile) ([]geom.Tile, error) {
	path := p.FindPath(start, goal)
	if path == nil {
		return nil, ErrNoPath
	}
	return path, nil
}

func reconstruct(cameFrom map[geom.Tile]geom.Tile, start, goal geom.Tile) []geom.Tile {
	path := []geom.Tile{goal}
	for current := goal; current != start; {
		current = cameFrom[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
