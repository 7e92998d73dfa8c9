package generator

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
	"github.com/cory-johannsen/dungeon/internal/dungeon/pathfind"
)

// connectRooms carves a corridor from each room to the next in placement
// order. A pair with no path is logged and skipped.
func (r *run) connectRooms() {
	for i := 1; i < len(r.d.Rooms); i++ {
		if !r.carve(i-1, i, false) {
			r.warn(WarnNoPathFound, []int{i - 1, i}, pathfind.ErrNoPath.Error())
		}
	}
	r.logger.Info("rooms connected", zap.Int("corridors", len(r.d.Corridors)))
}

// carve runs A* between the centers of a and b and, on success, records the
// corridor, the graph edge, and the corridor floor tiles.
func (r *run) carve(a, b int, repair bool) bool {
	from, to := r.d.Rooms[a].Center(), r.d.Rooms[b].Center()
	path, err := r.pf.Route(from, to)
	if err != nil {
		r.logger.Debug("corridor attempt failed",
			zap.Int("from_room", a),
			zap.Int("to_room", b),
			zap.Bool("repair", repair),
			zap.Error(err),
		)
		return false
	}

	r.d.corridors[pairOf(a, b)] = len(r.d.Corridors)
	r.d.Corridors = append(r.d.Corridors, Corridor{A: a, B: b, Path: path, Repair: repair})
	if err := r.d.adjacency.AddEdge(a, b); err != nil {
		// Room indices come from r.d.Rooms and a != b.
		panic(err)
	}
	for _, t := range path {
		if r.interior.Has(t) || r.floorSet.Has(t) {
			continue
		}
		r.floorSet.Put(t)
		r.d.floor = append(r.d.floor, t)
	}
	r.logger.Debug("corridor carved",
		zap.Int("from_room", a),
		zap.Int("to_room", b),
		zap.Int("length", len(path)),
		zap.Bool("repair", repair),
	)
	return true
}

type candidate struct {
	a, b int
	dist int
}

// repairConnectivity joins the component holding room 0 to the rest of the
// graph, one corridor at a time, trying the closest room pairs first. When
// repair is disabled or a component cannot be reached, the disconnection is
// recorded as a warning.
func (r *run) repairConnectivity() {
	n := len(r.d.Rooms)
	if n < 2 {
		return
	}
	for {
		comps := r.d.adjacency.Components()
		if len(comps) == 1 {
			return
		}
		reached := mapset.Of(comps[0]...)
		var outside []int
		for i := 0; i < n; i++ {
			if !reached.Has(i) {
				outside = append(outside, i)
			}
		}
		if !r.opts.EnsureConnectivity {
			r.warn(WarnDisconnectedGraph, outside, fmt.Sprintf("%d components", len(comps)))
			return
		}

		var cands []candidate
		for a := 0; a < n; a++ {
			if !reached.Has(a) {
				continue
			}
			for _, b := range outside {
				cands = append(cands, candidate{a: a, b: b, dist: geom.Manhattan(r.d.Rooms[a].Center(), r.d.Rooms[b].Center())})
			}
		}
		sort.Slice(cands, func(i, j int) bool {
			ci, cj := cands[i], cands[j]
			if ci.dist != cj.dist {
				return ci.dist < cj.dist
			}
			if ci.a != cj.a {
				return ci.a < cj.a
			}
			return ci.b < cj.b
		})

		joined := false
		for _, c := range cands {
			if r.carve(c.a, c.b, true) {
				joined = true
				break
			}
		}
		if !joined {
			r.warn(WarnDisconnectedGraph, outside, fmt.Sprintf("%d components; no repair corridor found", len(comps)))
			return
		}
	}
}

// placeSpecials picks the start room (smallest center by x, then y), puts
// the chest there, and puts the key in the room furthest from it by corridor
// count. When no other room is reachable from the start, the key goes to the
// room whose center is furthest from the start center; that room is not
// reachable from the start, and a WarnKeyRoomFallback warning says so.
func (r *run) placeSpecials() {
	rooms := r.d.Rooms
	if len(rooms) == 0 {
		r.warn(WarnNoRooms, nil, "no leaf received a room")
		return
	}

	start := 0
	for i := 1; i < len(rooms); i++ {
		if rooms[i].Center().Less(rooms[start].Center()) {
			start = i
		}
	}
	key, depth := r.d.adjacency.FurthestFrom(start)

	if key == start && len(rooms) > 1 {
		best, bestDist := -1, -1
		for i := range rooms {
			if i == start {
				continue
			}
			if d := geom.Manhattan(rooms[start].Center(), rooms[i].Center()); d > bestDist {
				best, bestDist = i, d
			}
		}
		r.warn(WarnKeyRoomFallback, []int{start, best}, "start room reaches no other room")
		key = best
	}

	r.d.StartRoom, r.d.KeyRoom = start, key
	r.d.Chest = rooms[start].Center()
	r.d.Key = rooms[key].Center()
	r.logger.Info("specials placed",
		zap.Int("start_room", start),
		zap.Int("key_room", key),
		zap.Int("key_depth", depth),
	)
}

// placeObstacles rolls once per non-special room and places at most one
// obstacle at its center.
func (r *run) placeObstacles() {
	for _, room := range r.d.Rooms {
		if room.Index == r.d.StartRoom || room.Index == r.d.KeyRoom {
			continue
		}
		if r.src.Float64() > r.opts.ObstacleChance {
			continue
		}
		kind := r.opts.ObstacleKinds[r.src.Intn(len(r.opts.ObstacleKinds))]
		r.d.Obstacles = append(r.d.Obstacles, Spawn{ID: r.newID(), Kind: kind, Room: room.Index, Tile: room.Center()})
	}
	r.logger.Debug("obstacles placed", zap.Int("obstacles", len(r.d.Obstacles)))
}
