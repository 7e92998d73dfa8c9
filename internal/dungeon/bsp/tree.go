package bsp

import (
	"github.com/cory-johannsen/dungeon/internal/dungeon/geom"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
)

// Options control partitioning.
type Options struct {
	// MinLeafSize is the smallest side a split may produce.
	MinLeafSize int
	// MaxLeafSize forces a split attempt on any leaf with a larger side.
	MaxLeafSize int
	// ContinueChance is the probability that a leaf already within
	// MaxLeafSize still attempts a split in a pass.
	ContinueChance float64
}

// Tree is a partition of one rectangular area.
type Tree struct {
	Root *Node
	// nodes holds every node in creation order: the root, then each split's
	// left and right child as they are produced.
	nodes []*Node
}

// Partition splits area until a full pass over the leaves produces no split.
//
// In each pass every terminal leaf, in creation order, attempts a split when
// one of its sides exceeds MaxLeafSize or, failing that, when a Float64 draw
// is below ContinueChance. Children created in a pass are first visited in
// the next pass.
//
// Precondition: area.Valid() and opts.MinLeafSize > 0.
// Postcondition: every leaf side is >= MinLeafSize unless area itself was smaller.
func Partition(area geom.Rect, opts Options, src dice.Rand) *Tree {
	root := &Node{Area: area}
	t := &Tree{Root: root, nodes: []*Node{root}}

	for didSplit := true; didSplit; {
		didSplit = false
		pass := append([]*Node(nil), t.nodes...)
		for _, n := range pass {
			if !n.Terminal() {
				continue
			}
			if n.Area.Width <= opts.MaxLeafSize && n.Area.Height <= opts.MaxLeafSize &&
				src.Float64() >= opts.ContinueChance {
				continue
			}
			if n.Split(opts.MinLeafSize, src) {
				l, r, _ := n.Children()
				t.nodes = append(t.nodes, l, r)
				didSplit = true
			}
		}
	}
	return t
}

// Nodes returns every node in creation order.
func (t *Tree) Nodes() []*Node {
	return append([]*Node(nil), t.nodes...)
}

// Leaves returns the terminal nodes in creation order.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	for _, n := range t.nodes {
		if n.Terminal() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Walk visits n and its descendants depth-first, left before right.
func Walk(n *Node, fn func(*Node)) {
	fn(n)
	if l, r, ok := n.Children(); ok {
		Walk(l, fn)
		Walk(r, fn)
	}
}
