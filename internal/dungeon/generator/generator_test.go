package generator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/dungeon/generator"
	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
	"github.com/cory-johannsen/dungeon/internal/dungeon/graph"
	"github.com/cory-johannsen/dungeon/internal/dungeon/template"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

func generate(t testing.TB, opts generator.Options, seed uint64, templates generator.TemplateSource, observers ...generator.RoomObserver) *generator.Dungeon {
	t.Helper()
	g, err := generator.New(opts, dice.NewSeededSource(seed), templates, zap.NewNop(), observers...)
	require.NoError(t, err)
	return g.Generate()
}

func hasWarning(d *generator.Dungeon, kind generator.WarningKind) bool {
	for _, w := range d.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	opts := generator.DefaultOptions()
	opts.MinLeafSize = 5
	_, err := generator.New(opts, dice.NewSeededSource(1), nil, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrInvalidConfig))
}

func TestNew_PanicsOnNilCollaborators(t *testing.T) {
	opts := generator.DefaultOptions()
	assert.Panics(t, func() { _, _ = generator.New(opts, nil, nil, zap.NewNop()) })
	assert.Panics(t, func() { _, _ = generator.New(opts, dice.NewSeededSource(1), nil, nil) })
}

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	opts, err := generator.OptionsFromConfig(cfg.Generator)
	require.NoError(t, err)
	assert.Equal(t, generator.DefaultOptions().Width, opts.Width)
	assert.Equal(t, "1d5", opts.EnemiesPerRoom.Raw)

	cfg.Generator.EnemiesPerRoom = "many"
	_, err = generator.OptionsFromConfig(cfg.Generator)
	assert.ErrorIs(t, err, generator.ErrInvalidConfig)

	cfg.Generator.EnemiesPerRoom = "50000000d6"
	_, err = generator.OptionsFromConfig(cfg.Generator)
	assert.ErrorIs(t, err, generator.ErrInvalidConfig)

	cfg.Generator.EnemiesPerRoom = "1d5"
	cfg.Generator.MinRoomWidth = 2
	_, err = generator.OptionsFromConfig(cfg.Generator)
	assert.ErrorIs(t, err, generator.ErrInvalidConfig)
}

func TestGenerate_CarvedDungeonInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		d := generate(t, generator.DefaultOptions(), seed, nil)

		if d.RoomCount() < 2 {
			rt.Fatalf("expected at least two rooms on a 100x100 map, got %d", d.RoomCount())
		}
		for i, a := range d.Rooms {
			if !a.Leaf.ContainsWithMargin(a.Bounds, 1) {
				rt.Fatalf("room %d %v not inside leaf %v with margin", i, a.Bounds, a.Leaf)
			}
			for j := i + 1; j < len(d.Rooms); j++ {
				if a.Bounds.Overlaps(d.Rooms[j].Bounds) {
					rt.Fatalf("rooms %d and %d overlap", i, j)
				}
			}
			for _, e := range a.Enemies {
				if !a.Bounds.Contains(e.Tile) {
					rt.Fatalf("enemy %v outside room %d", e.Tile, i)
				}
			}
		}
		if len(d.Warnings) != 0 {
			rt.Fatalf("unexpected warnings: %+v", d.Warnings)
		}
		if !d.Connected() {
			rt.Fatalf("dungeon not connected")
		}
		if len(d.Corridors) != d.RoomCount()-1 {
			rt.Fatalf("got %d corridors for %d rooms", len(d.Corridors), d.RoomCount())
		}
		if d.StartRoom == d.KeyRoom {
			rt.Fatalf("chest and key share room %d", d.StartRoom)
		}
	})
}

func TestGenerate_SameSeedSameDungeon(t *testing.T) {
	a := generate(t, generator.DefaultOptions(), 42, nil)
	b := generate(t, generator.DefaultOptions(), 42, nil)

	assert.Equal(t, a.Rooms, b.Rooms)
	assert.Equal(t, a.Corridors, b.Corridors)
	assert.Equal(t, a.StartRoom, b.StartRoom)
	assert.Equal(t, a.KeyRoom, b.KeyRoom)
	assert.Equal(t, a.Obstacles, b.Obstacles)
	assert.Equal(t, a.CorridorFloorTiles(), b.CorridorFloorTiles())
	assert.Equal(t, a.Render(), b.Render())
}

func TestGenerate_SameSeedSameTemplatedDungeon(t *testing.T) {
	catalog, err := template.LoadCatalog("../../../content/templates")
	require.NoError(t, err)
	require.Greater(t, catalog.Len(), 1)

	for _, seed := range []uint64{1, 42, 1337} {
		a := generate(t, generator.DefaultOptions(), seed, catalog)
		b := generate(t, generator.DefaultOptions(), seed, catalog)

		require.NotZero(t, a.RoomCount())
		assert.Equal(t, a.Rooms, b.Rooms, "seed %d", seed)
		assert.Equal(t, a.Corridors, b.Corridors, "seed %d", seed)
		assert.Equal(t, a.Obstacles, b.Obstacles, "seed %d", seed)
		assert.Equal(t, a.Render(), b.Render(), "seed %d", seed)
		if a.RoomCount() > 1 {
			assert.NotEqual(t, a.StartRoom, a.KeyRoom, "seed %d", seed)
		}
		for i, r := range a.Rooms {
			for _, o := range a.Rooms[i+1:] {
				assert.False(t, r.Bounds.Overlaps(o.Bounds), "seed %d: rooms %d and %d overlap", seed, r.Index, o.Index)
			}
		}
	}
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	a := generate(t, generator.DefaultOptions(), 1, nil)
	b := generate(t, generator.DefaultOptions(), 2, nil)
	assert.NotEqual(t, a.Render(), b.Render())
}

func TestGenerate_StartIsSmallestCenter(t *testing.T) {
	d := generate(t, generator.DefaultOptions(), 7, nil)
	start := d.Rooms[d.StartRoom].Center()
	for _, r := range d.Rooms {
		assert.False(t, r.Center().Less(start), "room %d center %v precedes start %v", r.Index, r.Center(), start)
	}
	assert.Equal(t, start, d.Chest)
	assert.Equal(t, d.Rooms[d.KeyRoom].Center(), d.Key)
}

func TestGenerate_KeyIsFurthestByCorridors(t *testing.T) {
	d := generate(t, generator.DefaultOptions(), 11, nil)

	g := graph.New(d.RoomCount())
	for _, c := range d.Corridors {
		require.NoError(t, g.AddEdge(c.A, c.B))
	}
	key, depth := g.FurthestFrom(d.StartRoom)
	assert.Equal(t, key, d.KeyRoom)
	assert.Equal(t, depth, g.BFS(d.StartRoom).Depth[d.KeyRoom])
}

func TestGenerate_CorridorQueries(t *testing.T) {
	d := generate(t, generator.DefaultOptions(), 3, nil)
	require.NotEmpty(t, d.Corridors)

	for _, c := range d.Corridors {
		path := d.CorridorTiles(c.A, c.B)
		require.NotEmpty(t, path)
		assert.Equal(t, d.Rooms[c.A].Center(), path[0])
		assert.Equal(t, d.Rooms[c.B].Center(), path[len(path)-1])
		for i := 1; i < len(path); i++ {
			assert.Equal(t, 1, geom.Manhattan(path[i-1], path[i]))
		}
		for _, tile := range path {
			assert.False(t, d.IsWall(tile), "corridor crosses wall at %v", tile)
		}

		back := d.CorridorTiles(c.B, c.A)
		assert.Equal(t, path[0], back[len(back)-1])
		assert.Contains(t, d.ConnectedRooms(c.A), c.B)
		assert.Contains(t, d.ConnectedRooms(c.B), c.A)
	}

	seen := map[geom.Tile]bool{}
	for _, tile := range d.CorridorFloorTiles() {
		assert.False(t, seen[tile], "duplicate floor tile %v", tile)
		seen[tile] = true
		_, inRoom := d.RoomAt(tile)
		assert.False(t, inRoom, "floor tile %v inside a room", tile)
	}

	assert.Nil(t, d.CorridorTiles(0, 0))
	_, ok := d.RoomBounds(d.RoomCount())
	assert.False(t, ok)
	b, ok := d.RoomBounds(0)
	assert.True(t, ok)
	assert.Equal(t, d.Rooms[0].Bounds, b)
}

func TestGenerate_ObstacleChance(t *testing.T) {
	opts := generator.DefaultOptions()
	opts.ObstacleChance = 1
	d := generate(t, opts, 5, nil)
	assert.Len(t, d.Obstacles, d.RoomCount()-2)
	for _, o := range d.Obstacles {
		assert.NotEqual(t, d.StartRoom, o.Room)
		assert.NotEqual(t, d.KeyRoom, o.Room)
		assert.Equal(t, d.Rooms[o.Room].Center(), o.Tile)
		assert.Contains(t, opts.ObstacleKinds, o.Kind)
	}
}

func TestGenerate_EnemyCountsFollowExpression(t *testing.T) {
	opts := generator.DefaultOptions()
	opts.EnemiesPerRoom = dice.MustParse("3")
	d := generate(t, opts, 9, nil)
	ids := map[string]bool{}
	for _, r := range d.Rooms {
		require.Len(t, r.Enemies, 3)
		for _, e := range r.Enemies {
			assert.Equal(t, r.Index, e.Room)
			assert.Contains(t, opts.EnemyKinds, e.Kind)
			assert.False(t, ids[e.ID.String()], "duplicate id %s", e.ID)
			ids[e.ID.String()] = true
		}
	}
}

func TestGenerate_TemplatesCenteredInLeaves(t *testing.T) {
	catalog, err := template.NewCatalog(
		&template.Template{ID: "hall", Width: 12, Height: 8},
		&template.Template{ID: "cell", Width: 7, Height: 7},
	)
	require.NoError(t, err)

	d := generate(t, generator.DefaultOptions(), 21, catalog)
	require.NotZero(t, d.RoomCount())
	for _, r := range d.Rooms {
		tmpl, ok := catalog.Get(r.Template)
		require.True(t, ok, "room %d has template %q", r.Index, r.Template)
		assert.Equal(t, tmpl.Width, r.Bounds.Width)
		assert.Equal(t, tmpl.Height, r.Bounds.Height)
		assert.Equal(t, r.Leaf.X+(r.Leaf.Width-tmpl.Width)/2, r.Bounds.X)
		assert.Equal(t, r.Leaf.Y+(r.Leaf.Height-tmpl.Height)/2, r.Bounds.Y)
		assert.Len(t, r.Doors, 4)
	}
	assert.True(t, d.Connected())
}

func TestGenerate_MissingMetadataWarnsOnce(t *testing.T) {
	catalog, err := template.NewCatalog(
		&template.Template{ID: "ghost"},
		&template.Template{ID: "cell", Width: 7, Height: 7},
	)
	require.NoError(t, err)

	d := generate(t, generator.DefaultOptions(), 4, catalog)
	count := 0
	for _, w := range d.Warnings {
		if w.Kind == generator.WarnMissingTemplateMetadata {
			count++
		}
	}
	assert.LessOrEqual(t, count, 1)
	for _, r := range d.Rooms {
		assert.Equal(t, "cell", r.Template)
	}
}

func TestGenerate_NoTemplateFits(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	catalog, err := template.NewCatalog(&template.Template{ID: "huge", Width: 95, Height: 95})
	require.NoError(t, err)

	g, err := generator.New(generator.DefaultOptions(), dice.NewSeededSource(8), catalog, zap.New(core))
	require.NoError(t, err)
	d := g.Generate()

	assert.Zero(t, d.RoomCount())
	assert.Equal(t, -1, d.StartRoom)
	assert.Equal(t, -1, d.KeyRoom)
	assert.True(t, hasWarning(d, generator.WarnNoFittingTemplate))
	assert.True(t, hasWarning(d, generator.WarnNoRooms))
	assert.Equal(t, len(d.Warnings), logs.FilterMessage("generation degraded").Len())
	assert.NotEmpty(t, d.Render())
}

var sealed = &template.Template{
	ID: "room", Width: 7, Height: 7,
	Layout: []string{
		"#######",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	},
}

// sealedSecond serves one 7x7 template id but hands out a doorless variant
// for the second placed room.
type sealedSecond struct {
	gets int
}

func (s *sealedSecond) IDs() []string { return []string{"room"} }

func (s *sealedSecond) Size(string) (int, int, error) { return 7, 7, nil }

func (s *sealedSecond) Get(string) (*template.Template, bool) {
	s.gets++
	if s.gets == 2 {
		return sealed, true
	}
	return &template.Template{ID: "room", Width: 7, Height: 7}, true
}

func TestGenerate_RepairJoinsAroundSealedRoom(t *testing.T) {
	d := generate(t, generator.DefaultOptions(), 13, &sealedSecond{})
	require.GreaterOrEqual(t, d.RoomCount(), 3)

	var noPath, disconnected []generator.Warning
	for _, w := range d.Warnings {
		switch w.Kind {
		case generator.WarnNoPathFound:
			noPath = append(noPath, w)
		case generator.WarnDisconnectedGraph:
			disconnected = append(disconnected, w)
		}
	}
	require.Len(t, noPath, 2)
	assert.Equal(t, []int{0, 1}, noPath[0].Rooms)
	assert.Equal(t, []int{1, 2}, noPath[1].Rooms)
	require.Len(t, disconnected, 1)
	assert.Equal(t, []int{1}, disconnected[0].Rooms)

	repaired := false
	for _, c := range d.Corridors {
		repaired = repaired || c.Repair
	}
	assert.True(t, repaired)
	assert.Empty(t, d.ConnectedRooms(1))

	g := graph.New(d.RoomCount())
	for _, c := range d.Corridors {
		require.NoError(t, g.AddEdge(c.A, c.B))
	}
	for i := 0; i < d.RoomCount(); i++ {
		if i != 1 {
			assert.True(t, g.Reachable(0, i), "room %d unreachable", i)
		}
	}
}

func TestGenerate_DisconnectedWithoutRepair(t *testing.T) {
	opts := generator.DefaultOptions()
	opts.EnsureConnectivity = false
	catalog, err := template.NewCatalog(sealed)
	require.NoError(t, err)

	d := generate(t, opts, 17, catalog)
	require.GreaterOrEqual(t, d.RoomCount(), 2)
	assert.Empty(t, d.Corridors)
	assert.False(t, d.Connected())
	assert.True(t, hasWarning(d, generator.WarnNoPathFound))
	assert.True(t, hasWarning(d, generator.WarnDisconnectedGraph))
	assert.True(t, hasWarning(d, generator.WarnKeyRoomFallback))

	assert.NotEqual(t, d.StartRoom, d.KeyRoom)
	assert.NotContains(t, d.ConnectedRooms(d.StartRoom), d.KeyRoom)
	start := d.Rooms[d.StartRoom].Center()
	keyDist := geom.Manhattan(start, d.Key)
	for _, r := range d.Rooms {
		assert.LessOrEqual(t, geom.Manhattan(start, r.Center()), keyDist)
	}
}

func TestGenerate_ObserversSeePopulatedRoomsInOrder(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var seen []int
	rec := generator.RoomObserverFunc(func(r generator.Room) {
		seen = append(seen, r.Index)
		assert.NotEmpty(t, r.Enemies)
	})

	d := generate(t, generator.DefaultOptions(), 6, nil, rec, generator.NewLogObserver(zap.New(core)), nil)
	want := make([]int, d.RoomCount())
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, seen)
	assert.Equal(t, d.RoomCount(), logs.FilterMessage("room placed").Len())
}

func TestRender_Shape(t *testing.T) {
	opts := generator.DefaultOptions()
	opts.Width, opts.Height = 60, 45
	d := generate(t, opts, 10, nil)

	out := d.Render()
	lines := splitLines(out)
	require.Len(t, lines, 45)
	for _, l := range lines {
		assert.Len(t, l, 60)
	}
	assert.Contains(t, out, string(generator.GlyphChest))
	assert.Contains(t, out, string(generator.GlyphKey))
	assert.Contains(t, out, string(generator.GlyphWall))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}
