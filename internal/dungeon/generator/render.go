package generator

import (
	"strings"

	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
)

// Map glyphs used by Render.
const (
	GlyphRock     = ' '
	GlyphWall     = '#'
	GlyphDoor     = '+'
	GlyphFloor    = '.'
	GlyphCorridor = ':'
	GlyphEnemy    = 'e'
	GlyphObstacle = 'O'
	GlyphChest    = 'C'
	GlyphKey      = 'K'
)

// Render draws the dungeon as text, highest row first so y grows upward.
// Later layers overwrite earlier ones: rooms, corridors, enemies, obstacles,
// then the chest and key.
func (d *Dungeon) Render() string {
	if d.Width <= 0 || d.Height <= 0 {
		return ""
	}
	grid := make([][]byte, d.Height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(string(GlyphRock), d.Width))
	}
	set := func(t geom.Tile, g byte) {
		if t.X >= 0 && t.Y >= 0 && t.X < d.Width && t.Y < d.Height {
			grid[t.Y][t.X] = g
		}
	}

	for _, room := range d.Rooms {
		for _, t := range room.Bounds.Tiles() {
			set(t, GlyphFloor)
		}
		for _, t := range room.Walls {
			set(t, GlyphWall)
		}
		for _, t := range room.Doors {
			set(t, GlyphDoor)
		}
	}
	for _, t := range d.floor {
		set(t, GlyphCorridor)
	}
	for _, room := range d.Rooms {
		for _, s := range room.Enemies {
			set(s.Tile, GlyphEnemy)
		}
	}
	for _, s := range d.Obstacles {
		set(s.Tile, GlyphObstacle)
	}
	if d.StartRoom >= 0 {
		set(d.Chest, GlyphChest)
		set(d.Key, GlyphKey)
	}

	var b strings.Builder
	b.Grow((d.Width + 1) * d.Height)
	for y := d.Height - 1; y >= 0; y-- {
		b.Write(grid[y])
		b.WriteByte('\n')
	}
	return b.String()
}
