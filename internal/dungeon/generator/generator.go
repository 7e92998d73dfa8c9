// Package generator builds dungeons: it partitions the map, places one room
// per leaf, connects rooms with shortest corridors, and chooses the start,
// chest, and key rooms.
//
// Random values are drawn in a fixed order so a seeded source reproduces a
// dungeon exactly:
//
//  1. partition orientation and offsets
//  2. carved room size and position (when no templates are configured)
//  3. per-leaf template shuffle (when templates are configured)
//  4. per-room enemy count, kind, position, and id, in room order
//  5. per-room obstacle roll, kind, and id, in room order
package generator

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/dungeon/bsp"
	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
	"github.com/cory-johannsen/dungeon/internal/dungeon/graph"
	"github.com/cory-johannsen/dungeon/internal/dungeon/pathfind"
	"github.com/cory-johannsen/dungeon/internal/dungeon/template"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

// TemplateSource supplies room templates. A source with no ids selects
// carved rooms.
type TemplateSource interface {
	template.Lookup
	IDs() []string
	Get(id string) (*template.Template, bool)
}

// Generator produces dungeons from Options and a random source.
//
// A Generator is not safe for concurrent use: all runs share its source.
type Generator struct {
	opts      Options
	src       dice.Rand
	templates TemplateSource
	logger    *zap.Logger
	observer  RoomObserver
}

// New returns a Generator. templates may be nil for carved rooms; observers
// are notified once per room, in room order.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns an error wrapping ErrInvalidConfig when opts fail
// Validate.
func New(opts Options, src dice.Rand, templates TemplateSource, logger *zap.Logger, observers ...RoomObserver) (*Generator, error) {
	if src == nil {
		panic("generator.New: src must not be nil")
	}
	if logger == nil {
		panic("generator.New: logger must not be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		opts:      opts,
		src:       src,
		templates: templates,
		logger:    logger,
		observer:  MultiObserver(observers),
	}, nil
}

// run holds the state of one Generate call.
type run struct {
	*Generator
	d        *Dungeon
	tree     *bsp.Tree
	roller   *dice.Roller
	ids      io.Reader
	interior mapset.Set[geom.Tile]
	floorSet mapset.Set[geom.Tile]
	missing  mapset.Set[string]
	pf       *pathfind.Pathfinder
}

// Generate runs every phase once and returns the finished dungeon.
// Recoverable conditions never abort the run; they are logged and listed in
// Dungeon.Warnings.
//
// Postcondition: room bounds never overlap; every room lies inside its leaf
// with a margin of at least one tile; StartRoom != KeyRoom when more than one
// room is connected to the start.
func (g *Generator) Generate() *Dungeon {
	r := &run{
		Generator: g,
		d: &Dungeon{
			Width:     g.opts.Width,
			Height:    g.opts.Height,
			StartRoom: -1,
			KeyRoom:   -1,
			corridors: make(map[pair]int),
		},
		roller:   dice.NewLoggedRoller(g.src, g.logger),
		ids:      dice.Reader(g.src),
		interior: mapset.New[geom.Tile](),
		floorSet: mapset.New[geom.Tile](),
		missing:  mapset.New[string](),
	}

	r.partition()
	r.placeRooms()
	r.populate()
	r.collectWalls()
	r.connectRooms()
	r.repairConnectivity()
	r.placeSpecials()
	r.placeObstacles()

	g.logger.Info("dungeon generated",
		zap.Int("rooms", len(r.d.Rooms)),
		zap.Int("corridors", len(r.d.Corridors)),
		zap.Int("start_room", r.d.StartRoom),
		zap.Int("key_room", r.d.KeyRoom),
		zap.Int("warnings", len(r.d.Warnings)),
	)
	return r.d
}

func (r *run) warn(kind WarningKind, rooms []int, detail string) {
	r.d.Warnings = append(r.d.Warnings, Warning{Kind: kind, Rooms: rooms, Detail: detail})
	r.logger.Warn("generation degraded",
		zap.String("kind", string(kind)),
		zap.Ints("rooms", rooms),
		zap.String("detail", detail),
	)
}

func (r *run) newID() uuid.UUID {
	return uuid.Must(uuid.NewRandomFromReader(r.ids))
}

func (r *run) partition() {
	area := geom.Rect{Width: r.opts.Width, Height: r.opts.Height}
	r.tree = bsp.Partition(area, r.opts.partition(), r.src)
	r.logger.Info("map partitioned",
		zap.Stringer("area", area),
		zap.Int("leaves", len(r.tree.Leaves())),
	)
}

func (r *run) placeRooms() {
	var ids []string
	if r.templates != nil {
		ids = r.templates.IDs()
	}
	for _, leaf := range r.tree.Leaves() {
		if len(ids) == 0 {
			if leaf.CarveRoom(r.opts.MinRoomWidth, r.opts.MinRoomHeight, r.src) {
				bounds, _ := leaf.Room()
				r.addRoom(leaf.Area, bounds, nil)
			}
			continue
		}
		r.placeTemplate(leaf, ids)
	}
	r.logger.Info("rooms placed",
		zap.Int("rooms", len(r.d.Rooms)),
		zap.Bool("templated", len(ids) > 0),
	)
}

// placeTemplate tries the catalog in a fresh Fisher-Yates order and centers
// the first template that fits leaf with a margin of at least one tile.
func (r *run) placeTemplate(leaf *bsp.Node, ids []string) {
	order := append([]string(nil), ids...)
	for i := len(order) - 1; i > 0; i-- {
		j := r.src.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	area := leaf.Area
	for _, id := range order {
		w, h, err := r.templates.Size(id)
		if err != nil {
			if !r.missing.Has(id) {
				r.missing.Put(id)
				r.warn(WarnMissingTemplateMetadata, nil, err.Error())
			}
			w, h = 0, 0
		}
		if w <= 0 || h <= 0 || w+2 > area.Width || h+2 > area.Height {
			continue
		}
		bounds := geom.Rect{
			X:      area.X + (area.Width-w)/2,
			Y:      area.Y + (area.Height-h)/2,
			Width:  w,
			Height: h,
		}
		if !leaf.AssignRoom(bounds) {
			continue
		}
		t, _ := r.templates.Get(id)
		r.addRoom(area, bounds, t)
		return
	}
	r.warn(WarnNoFittingTemplate, nil, fmt.Sprintf("leaf %v: %v", area, template.ErrNoFittingTemplate))
}

func (r *run) addRoom(leaf, bounds geom.Rect, t *template.Template) {
	origin := geom.Tile{X: bounds.X, Y: bounds.Y}
	room := Room{Index: len(r.d.Rooms), Bounds: bounds, Leaf: leaf}
	if t != nil {
		room.Template = t.ID
		room.Walls = t.WallTiles(origin)
		room.Doors = t.DoorTiles(origin)
	} else {
		room.Walls = template.PerimeterWalls(origin, bounds.Width, bounds.Height)
		room.Doors = template.PerimeterDoors(origin, bounds.Width, bounds.Height)
	}
	for _, tile := range bounds.Tiles() {
		r.interior.Put(tile)
	}
	r.d.Rooms = append(r.d.Rooms, room)
}

// populate spawns enemies in every room, then notifies observers. Enemies
// stand inside the room inset by two tiles; rooms too small for that, and
// positions that land on a template wall, use the center.
func (r *run) populate() {
	for i := range r.d.Rooms {
		room := &r.d.Rooms[i]
		b := room.Bounds
		walls := mapset.Of(room.Walls...)
		count := max(r.roller.Roll(r.opts.EnemiesPerRoom).Total(), 0)
		for k := 0; k < count; k++ {
			kind := r.opts.EnemyKinds[r.src.Intn(len(r.opts.EnemyKinds))]
			pos := b.Center()
			if inset, ok := b.Inset(2); ok {
				pos = geom.Tile{X: inset.X + r.src.Intn(inset.Width), Y: inset.Y + r.src.Intn(inset.Height)}
				if walls.Has(pos) {
					pos = b.Center()
				}
			}
			room.Enemies = append(room.Enemies, Spawn{ID: r.newID(), Kind: kind, Room: room.Index, Tile: pos})
		}
		r.observer.RoomPlaced(*room)
	}
}

func (r *run) collectWalls() {
	walls := mapset.New[geom.Tile]()
	for _, room := range r.d.Rooms {
		for _, t := range room.Walls {
			walls.Put(t)
		}
	}
	r.d.walls = walls
	r.pf = pathfind.New(walls, r.opts.Width, r.opts.Height)
	r.d.adjacency = graph.New(len(r.d.Rooms))
	r.logger.Debug("walls collected", zap.Int("tiles", walls.Size()))
}
