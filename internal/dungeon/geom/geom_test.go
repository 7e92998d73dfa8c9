package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
)

func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, geom.Manhattan(geom.Tile{X: 3, Y: 4}, geom.Tile{X: 3, Y: 4}))
	assert.Equal(t, 7, geom.Manhattan(geom.Tile{X: 0, Y: 0}, geom.Tile{X: 3, Y: -4}))
}

func TestRect_CenterAndContains(t *testing.T) {
	r := geom.Rect{X: 10, Y: 20, Width: 5, Height: 4}
	assert.Equal(t, geom.Tile{X: 12, Y: 22}, r.Center())
	assert.True(t, r.Contains(geom.Tile{X: 10, Y: 20}))
	assert.True(t, r.Contains(geom.Tile{X: 14, Y: 23}))
	assert.False(t, r.Contains(geom.Tile{X: 15, Y: 23}))
	assert.False(t, r.Contains(geom.Tile{X: 14, Y: 24}))
}

func TestRect_Overlaps(t *testing.T) {
	a := geom.Rect{X: 0, Y: 0, Width: 4, Height: 4}
	assert.True(t, a.Overlaps(geom.Rect{X: 3, Y: 3, Width: 2, Height: 2}))
	assert.False(t, a.Overlaps(geom.Rect{X: 4, Y: 0, Width: 2, Height: 2}), "touching edges do not overlap")
	assert.False(t, a.Overlaps(geom.Rect{X: 0, Y: 4, Width: 4, Height: 1}))
}

func TestRect_Inset(t *testing.T) {
	in, ok := geom.Rect{X: 0, Y: 0, Width: 6, Height: 5}.Inset(2)
	assert.True(t, ok)
	assert.Equal(t, geom.Rect{X: 2, Y: 2, Width: 2, Height: 1}, in)

	_, ok = geom.Rect{X: 0, Y: 0, Width: 4, Height: 9}.Inset(2)
	assert.False(t, ok)
}

func TestRect_ContainsWithMargin(t *testing.T) {
	leaf := geom.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, leaf.ContainsWithMargin(geom.Rect{X: 1, Y: 1, Width: 8, Height: 8}, 1))
	assert.False(t, leaf.ContainsWithMargin(geom.Rect{X: 0, Y: 1, Width: 8, Height: 8}, 1))
	assert.False(t, leaf.ContainsWithMargin(geom.Rect{X: 1, Y: 1, Width: 9, Height: 8}, 1))
}

func TestRect_Tiles(t *testing.T) {
	tiles := geom.Rect{X: 1, Y: 1, Width: 2, Height: 2}.Tiles()
	assert.Equal(t, []geom.Tile{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}, tiles)
	assert.Nil(t, geom.Rect{}.Tiles())
}

func TestIntersection_Symmetric_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := func(label string) geom.Rect {
			return geom.Rect{
				X:      rapid.IntRange(-20, 20).Draw(rt, label+"x"),
				Y:      rapid.IntRange(-20, 20).Draw(rt, label+"y"),
				Width:  rapid.IntRange(1, 15).Draw(rt, label+"w"),
				Height: rapid.IntRange(1, 15).Draw(rt, label+"h"),
			}
		}
		a, b := gen("a"), gen("b")
		assert.Equal(rt, a.Intersection(b).Area(), b.Intersection(a).Area())
		assert.Equal(rt, a.Overlaps(b), b.Overlaps(a))
		assert.True(rt, a.Contains(a.Center()))
	})
}
