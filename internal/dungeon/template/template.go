// Package template holds the catalog of prefabricated room footprints the
// generator places into partition leaves.
package template

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
)

var (
	// ErrMissingMetadata reports a template id with no usable footprint. The
	// caller degrades the candidate to size (0,0), which never fits a leaf.
	ErrMissingMetadata = errors.New("template: missing room size metadata")
	// ErrNoFittingTemplate reports that no candidate fits a leaf. The leaf
	// stays roomless.
	ErrNoFittingTemplate = errors.New("template: no template fits leaf")
)

// Layout glyphs.
const (
	GlyphWall  = '#'
	GlyphFloor = '.'
	GlyphDoor  = '+'
)

// Template describes one room footprint.
//
// Layout rows are listed top to bottom: row 0 is the highest y of the placed
// room. An empty Layout means a rectangular room whose perimeter is wall with
// one doorway at the middle of each side.
type Template struct {
	ID     string
	Width  int
	Height int
	Layout []string
}

// Size returns the footprint of the template.
func (t *Template) Size() (int, int) { return t.Width, t.Height }

// Validate checks that the template is internally consistent.
//
// Postcondition: returns nil when the id is set, the layout (if any) matches
// Width×Height using only known glyphs, and the room center is not a wall.
// A zero-size template without a layout is valid; it is reported later as
// missing metadata.
func (t *Template) Validate() error {
	if t.ID == "" {
		return errors.New("template id must not be empty")
	}
	if t.Width < 0 || t.Height < 0 {
		return fmt.Errorf("template %q: negative size %dx%d", t.ID, t.Width, t.Height)
	}
	if len(t.Layout) == 0 {
		return nil
	}
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("template %q: layout given with empty size %dx%d", t.ID, t.Width, t.Height)
	}
	if len(t.Layout) != t.Height {
		return fmt.Errorf("template %q: layout has %d rows, height is %d", t.ID, len(t.Layout), t.Height)
	}
	for r, row := range t.Layout {
		if len(row) != t.Width {
			return fmt.Errorf("template %q: layout row %d has %d columns, width is %d", t.ID, r, len(row), t.Width)
		}
		for c := 0; c < len(row); c++ {
			switch row[c] {
			case GlyphWall, GlyphFloor, GlyphDoor:
			default:
				return fmt.Errorf("template %q: unknown glyph %q at row %d column %d", t.ID, row[c], r, c)
			}
		}
	}
	if t.glyphAt(t.Width/2, t.Height/2) == GlyphWall {
		return fmt.Errorf("template %q: center tile is a wall", t.ID)
	}
	return nil
}

// glyphAt returns the glyph at room-local (dx, dy) with dy measured upward
// from the bottom row.
func (t *Template) glyphAt(dx, dy int) byte {
	if len(t.Layout) == 0 {
		return perimeterGlyph(t.Width, t.Height, dx, dy)
	}
	return t.Layout[t.Height-1-dy][dx]
}

func perimeterGlyph(w, h, dx, dy int) byte {
	edgeX := dx == 0 || dx == w-1
	edgeY := dy == 0 || dy == h-1
	if !edgeX && !edgeY {
		return GlyphFloor
	}
	if edgeX && edgeY {
		return GlyphWall
	}
	if edgeY && dx == w/2 {
		return GlyphDoor
	}
	if edgeX && dy == h/2 {
		return GlyphDoor
	}
	return GlyphWall
}

// PerimeterWalls returns the wall tiles of a w×h perimeter-walled room at
// origin, in row-major order from the bottom row.
func PerimeterWalls(origin geom.Tile, w, h int) []geom.Tile {
	return collect(origin, w, h, GlyphWall, func(dx, dy int) byte { return perimeterGlyph(w, h, dx, dy) })
}

// PerimeterDoors returns the doorway tiles of a w×h perimeter-walled room.
func PerimeterDoors(origin geom.Tile, w, h int) []geom.Tile {
	return collect(origin, w, h, GlyphDoor, func(dx, dy int) byte { return perimeterGlyph(w, h, dx, dy) })
}

// WallTiles returns the global wall tiles of the template placed with its
// bottom-left corner at origin.
func (t *Template) WallTiles(origin geom.Tile) []geom.Tile {
	return collect(origin, t.Width, t.Height, GlyphWall, t.glyphAt)
}

// DoorTiles returns the global doorway tiles of the template placed at origin.
func (t *Template) DoorTiles(origin geom.Tile) []geom.Tile {
	return collect(origin, t.Width, t.Height, GlyphDoor, t.glyphAt)
}

func collect(origin geom.Tile, w, h int, want byte, glyph func(dx, dy int) byte) []geom.Tile {
	var out []geom.Tile
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if glyph(dx, dy) == want {
				out = append(out, geom.Tile{X: origin.X + dx, Y: origin.Y + dy})
			}
		}
	}
	return out
}
