// Package bsp partitions a rectangular map into a binary space-partition tree
// whose terminal leaves each host at most one room.
package bsp

import (
	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

// aspectLimit forces the split orientation once one side is this many times
// longer than the other.
const aspectLimit = 1.25

// Content is what a node holds: nothing (an empty terminal leaf), a Branch,
// or a Room. The interface is sealed so a node can never own children and a
// room at the same time.
type Content interface {
	isContent()
}

// Branch is the content of a split node.
type Branch struct {
	Left  *Node
	Right *Node
}

// Room is the content of a terminal leaf that received a room.
type Room struct {
	Bounds geom.Rect
}

func (*Branch) isContent() {}
func (Room) isContent()    {}

// Node is one region of the partition.
//
// Invariant: Content is nil, a *Branch with two non-nil children, or a Room
// whose Bounds lie inside Area with a margin of at least one tile.
type Node struct {
	Area    geom.Rect
	Content Content
}

// Terminal reports whether n has not been split.
func (n *Node) Terminal() bool {
	_, split := n.Content.(*Branch)
	return !split
}

// Children returns the two children of a split node.
func (n *Node) Children() (left, right *Node, ok bool) {
	b, ok := n.Content.(*Branch)
	if !ok {
		return nil, nil, false
	}
	return b.Left, b.Right, true
}

// Room returns the room bounds of a terminal leaf, if one was assigned.
func (n *Node) Room() (geom.Rect, bool) {
	r, ok := n.Content.(Room)
	return r.Bounds, ok
}

// AssignRoom records bounds as the room of the terminal leaf n.
//
// Precondition: n is terminal, roomless, and
// n.Area.ContainsWithMargin(bounds, 1).
// Postcondition: returns false and leaves n unchanged when a precondition fails.
func (n *Node) AssignRoom(bounds geom.Rect) bool {
	if n.Content != nil || !bounds.Valid() || !n.Area.ContainsWithMargin(bounds, 1) {
		return false
	}
	n.Content = Room{Bounds: bounds}
	return true
}

// Split divides a terminal, empty node into two children along a random
// offset in [minLeafSize, dim-minLeafSize).
//
// The orientation is drawn first. It is then overridden when the area is
// elongated: width >= 1.25×height splits the width, height >= 1.25×width
// splits the height. The orientation is always drawn, even when overridden,
// so the random sequence does not depend on the area's shape.
//
// Postcondition: returns false, without drawing an offset, when the split
// dimension minus minLeafSize is <= minLeafSize.
func (n *Node) Split(minLeafSize int, src dice.Rand) bool {
	if n.Content != nil {
		return false
	}
	a := n.Area
	horizontal := src.Float64() > 0.5
	w, h := float64(a.Width), float64(a.Height)
	if a.Width > a.Height && w/h >= aspectLimit {
		horizontal = false
	} else if a.Height > a.Width && h/w >= aspectLimit {
		horizontal = true
	}

	dim := a.Width
	if horizontal {
		dim = a.Height
	}
	hi := dim - minLeafSize
	if hi <= minLeafSize {
		return false
	}
	offset := minLeafSize + src.Intn(hi-minLeafSize)

	var left, right geom.Rect
	if horizontal {
		left = geom.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: offset}
		right = geom.Rect{X: a.X, Y: a.Y + offset, Width: a.Width, Height: a.Height - offset}
	} else {
		left = geom.Rect{X: a.X, Y: a.Y, Width: offset, Height: a.Height}
		right = geom.Rect{X: a.X + offset, Y: a.Y, Width: a.Width - offset, Height: a.Height}
	}
	n.Content = &Branch{Left: &Node{Area: left}, Right: &Node{Area: right}}
	return true
}

// CarveRoom assigns a random room to the terminal leaf n: width in
// [minWidth, Area.Width-2], height in [minHeight, Area.Height-2], origin
// chosen so at least one free tile separates the room from every leaf edge.
// Draw order: width, height, x offset, y offset.
//
// Postcondition: returns false, drawing nothing, when n is not an empty
// terminal leaf or the leaf cannot fit the minimum room with its margin.
func (n *Node) CarveRoom(minWidth, minHeight int, src dice.Source) bool {
	a := n.Area
	maxW, maxH := a.Width-2, a.Height-2
	if n.Content != nil || minWidth < 1 || minHeight < 1 || maxW < minWidth || maxH < minHeight {
		return false
	}
	w := minWidth + src.Intn(maxW-minWidth+1)
	h := minHeight + src.Intn(maxH-minHeight+1)
	x := a.X + 1 + src.Intn(a.Width-w-1)
	y := a.Y + 1 + src.Intn(a.Height-h-1)
	return n.AssignRoom(geom.Rect{X: x, Y: y, Width: w, Height: h})
}
