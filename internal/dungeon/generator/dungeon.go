package generator

import (
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
	"github.com/cory-johannsen/dungeon/internal/dungeon/graph"
)

// Spawn is one enemy or obstacle instance placed in a room.
type Spawn struct {
	ID   uuid.UUID
	Kind string
	Room int
	Tile geom.Tile
}

// Room is a placed room. Rooms are indexed in placement order and never
// change after the run completes.
type Room struct {
	Index  int
	Bounds geom.Rect
	// Leaf is the partition leaf the room was placed in.
	Leaf geom.Rect
	// Template is the id of the placed template, or empty for a carved room.
	Template string
	Walls    []geom.Tile
	Doors    []geom.Tile
	Enemies  []Spawn
}

// Center returns the room center used as the corridor endpoint.
func (r Room) Center() geom.Tile { return r.Bounds.Center() }

// Corridor is one carved path between two room centers, inclusive of both
// endpoints. Repair corridors were added after the consecutive pass to join
// otherwise unreachable rooms.
type Corridor struct {
	A, B   int
	Path   []geom.Tile
	Repair bool
}

// WarningKind classifies a recoverable condition met during a run.
type WarningKind string

const (
	WarnMissingTemplateMetadata WarningKind = "missing_template_metadata"
	WarnNoFittingTemplate       WarningKind = "no_fitting_template"
	WarnNoPathFound             WarningKind = "no_path_found"
	WarnDisconnectedGraph       WarningKind = "disconnected_graph"
	WarnKeyRoomFallback         WarningKind = "key_room_fallback"
	WarnNoRooms                 WarningKind = "no_rooms"
)

// Warning records a recoverable condition. Rooms lists the room indices
// involved, if any.
type Warning struct {
	Kind   WarningKind
	Rooms  []int
	Detail string
}

type pair struct{ a, b int }

func pairOf(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

// Dungeon is the result of one generation run.
//
// Invariant: StartRoom and KeyRoom are -1 only when Rooms is empty; the chest
// is in StartRoom.
type Dungeon struct {
	Width     int
	Height    int
	Rooms     []Room
	Corridors []Corridor
	StartRoom int
	KeyRoom   int
	Chest     geom.Tile
	Key       geom.Tile
	Obstacles []Spawn
	Warnings  []Warning

	adjacency *graph.Graph
	corridors map[pair]int
	walls     mapset.Set[geom.Tile]
	floor     []geom.Tile
}

// RoomCount returns the number of placed rooms.
func (d *Dungeon) RoomCount() int { return len(d.Rooms) }

// RoomBounds returns the bounds of room i.
func (d *Dungeon) RoomBounds(i int) (geom.Rect, bool) {
	if i < 0 || i >= len(d.Rooms) {
		return geom.Rect{}, false
	}
	return d.Rooms[i].Bounds, true
}

// ConnectedRooms returns the rooms joined to i by a corridor, in the order
// the corridors were carved.
func (d *Dungeon) ConnectedRooms(i int) []int {
	if d.adjacency == nil {
		return nil
	}
	return d.adjacency.Neighbors(i)
}

// CorridorTiles returns a copy of the corridor path between a and b in
// either order, oriented from a to b. It returns nil when no corridor joins
// them.
func (d *Dungeon) CorridorTiles(a, b int) []geom.Tile {
	idx, ok := d.corridors[pairOf(a, b)]
	if !ok {
		return nil
	}
	c := d.Corridors[idx]
	out := append([]geom.Tile(nil), c.Path...)
	if c.A != a {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// CorridorFloorTiles returns every corridor tile outside all room bounds,
// de-duplicated, in carve order.
func (d *Dungeon) CorridorFloorTiles() []geom.Tile {
	return append([]geom.Tile(nil), d.floor...)
}

// IsWall reports whether t blocks movement.
func (d *Dungeon) IsWall(t geom.Tile) bool {
	return d.walls.Has(t)
}

// Connected reports whether every room is reachable from every other.
func (d *Dungeon) Connected() bool {
	return d.adjacency == nil || d.adjacency.Connected() == nil
}

// RoomAt returns the index of the room whose bounds contain t.
func (d *Dungeon) RoomAt(t geom.Tile) (int, bool) {
	for _, r := range d.Rooms {
		if r.Bounds.Contains(t) {
			return r.Index, true
		}
	}
	return -1, false
}
