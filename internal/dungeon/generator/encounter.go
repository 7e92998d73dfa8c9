package generator

import (
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
)

// RoomCleared is emitted when the last enemy of a room is defeated.
// OpenedTiles are the room's doorways that corridors to connected rooms pass
// through; the presentation layer opens them.
type RoomCleared struct {
	Room        int
	OpenedTiles []geom.Tile
}

// Encounter tracks which enemies are still alive in each room of a Dungeon.
//
// Encounter is not safe for concurrent use.
type Encounter struct {
	d       *Dungeon
	owner   map[uuid.UUID]int
	live    []mapset.Set[uuid.UUID]
	cleared []bool
}

// NewEncounter starts tracking every enemy spawned in d. Rooms spawned
// without enemies start cleared.
func NewEncounter(d *Dungeon) *Encounter {
	e := &Encounter{
		d:       d,
		owner:   make(map[uuid.UUID]int),
		live:    make([]mapset.Set[uuid.UUID], len(d.Rooms)),
		cleared: make([]bool, len(d.Rooms)),
	}
	for i, room := range d.Rooms {
		e.live[i] = mapset.New[uuid.UUID]()
		for _, s := range room.Enemies {
			e.live[i].Put(s.ID)
			e.owner[s.ID] = i
		}
		e.cleared[i] = e.live[i].Size() == 0
	}
	return e
}

// Initial returns a RoomCleared for every room that started without enemies,
// in room order.
func (e *Encounter) Initial() []RoomCleared {
	var out []RoomCleared
	for i, done := range e.cleared {
		if done && len(e.d.Rooms[i].Enemies) == 0 {
			out = append(out, e.event(i))
		}
	}
	return out
}

// Defeat marks enemy id as dead.
//
// Postcondition: returns the room's RoomCleared and true exactly once, when
// id was the last live enemy of its room. Unknown or already defeated ids
// return false.
func (e *Encounter) Defeat(id uuid.UUID) (RoomCleared, bool) {
	room, ok := e.owner[id]
	if !ok || !e.live[room].Has(id) {
		return RoomCleared{}, false
	}
	e.live[room].Remove(id)
	if e.live[room].Size() > 0 {
		return RoomCleared{}, false
	}
	e.cleared[room] = true
	return e.event(room), true
}

// Cleared reports whether room has no live enemies.
func (e *Encounter) Cleared(room int) bool {
	return room >= 0 && room < len(e.cleared) && e.cleared[room]
}

// Remaining returns the number of live enemies in room.
func (e *Encounter) Remaining(room int) int {
	if room < 0 || room >= len(e.live) {
		return 0
	}
	return e.live[room].Size()
}

func (e *Encounter) event(room int) RoomCleared {
	doors := mapset.Of(e.d.Rooms[room].Doors...)
	seen := mapset.New[geom.Tile]()
	var opened []geom.Tile
	for _, other := range e.d.ConnectedRooms(room) {
		for _, t := range e.d.CorridorTiles(room, other) {
			if doors.Has(t) && !seen.Has(t) {
				seen.Put(t)
				opened = append(opened, t)
			}
		}
	}
	return RoomCleared{Room: room, OpenedTiles: opened}
}
