// Package geom provides the integer grid primitives shared by every stage of
// dungeon generation: tile coordinates and axis-aligned rectangles.
package geom

import "fmt"

// Tile identifies one grid cell. Y grows upward.
type Tile struct {
	X int
	Y int
}

// Direction offsets in the fixed exploration order used by pathfinding.
var (
	Up    = Tile{X: 0, Y: 1}
	Down  = Tile{X: 0, Y: -1}
	Left  = Tile{X: -1, Y: 0}
	Right = Tile{X: 1, Y: 0}
)

// Directions4 lists the 4-connected neighbor offsets: up, down, left, right.
var Directions4 = [4]Tile{Up, Down, Left, Right}

// Add returns the component-wise sum of t and o.
func (t Tile) Add(o Tile) Tile {
	return Tile{X: t.X + o.X, Y: t.Y + o.Y}
}

// Less orders tiles by X, then Y.
func (t Tile) Less(o Tile) bool {
	if t.X != o.X {
		return t.X < o.X
	}
	return t.Y < o.Y
}

// String renders the tile as "(x,y)".
func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
//
// Postcondition: result >= 0 and Manhattan(a, b) == Manhattan(b, a).
func Manhattan(a, b Tile) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rect is an axis-aligned rectangle of tiles. It covers X..X+Width-1 and
// Y..Y+Height-1.
//
// Invariant: a valid Rect has Width > 0 and Height > 0.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Valid reports whether r has a positive area.
func (r Rect) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the exclusive top edge.
func (r Rect) MaxY() int { return r.Y + r.Height }

// Area returns Width*Height, or 0 for invalid rectangles.
func (r Rect) Area() int {
	if !r.Valid() {
		return 0
	}
	return r.Width * r.Height
}

// Center returns (X + Width/2, Y + Height/2) using integer division.
//
// Postcondition: r.Contains(r.Center()) for every valid r.
func (r Rect) Center() Tile {
	return Tile{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether t lies inside r.
func (r Rect) Contains(t Tile) bool {
	return t.X >= r.X && t.X < r.MaxX() && t.Y >= r.Y && t.Y < r.MaxY()
}

// Intersection returns the overlapping rectangle of r and o. The result is
// invalid (zero area) when they do not overlap.
func (r Rect) Intersection(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.MaxX(), o.MaxX()), min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Overlaps reports whether r and o share at least one tile.
func (r Rect) Overlaps(o Rect) bool {
	return r.Intersection(o).Area() > 0
}

// Inset shrinks r by n tiles on every side.
//
// Postcondition: ok is false when the result would have no area.
func (r Rect) Inset(n int) (Rect, bool) {
	in := Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
	return in, in.Valid()
}

// ContainsWithMargin reports whether inner lies inside r with at least margin
// free tiles between inner and every edge of r.
func (r Rect) ContainsWithMargin(inner Rect, margin int) bool {
	return inner.X >= r.X+margin &&
		inner.Y >= r.Y+margin &&
		inner.MaxX() <= r.MaxX()-margin &&
		inner.MaxY() <= r.MaxY()-margin
}

// Tiles returns every tile of r in row-major order starting at (X, Y).
func (r Rect) Tiles() []Tile {
	if !r.Valid() {
		return nil
	}
	out := make([]Tile, 0, r.Area())
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			out = append(out, Tile{X: x, Y: y})
		}
	}
	return out
}

// String renders the rectangle as "[x,y wxh]".
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.Width, r.Height)
}
