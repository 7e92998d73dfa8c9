// Package graph maintains the undirected room-adjacency graph built while
// corridors are carved and answers breadth-first distance queries over it.
package graph

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// ErrDisconnected reports that some rooms cannot be reached from the others.
var ErrDisconnected = errors.New("graph: rooms are not all connected")

type edge struct{ a, b int }

func key(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a: a, b: b}
}

// Graph is an undirected graph over rooms 0..n-1.
//
// Invariant: adjacency is symmetric and each neighbor list holds rooms in the
// order their edges were first added.
type Graph struct {
	n     int
	adj   [][]int
	edges mapset.Set[edge]
}

// New returns a graph of n isolated rooms.
//
// Precondition: n >= 0.
func New(n int) *Graph {
	return &Graph{n: n, adj: make([][]int, n), edges: mapset.New[edge]()}
}

// Len returns the number of rooms.
func (g *Graph) Len() int { return g.n }

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int { return g.edges.Size() }

func (g *Graph) valid(i int) bool { return i >= 0 && i < g.n }

// AddEdge connects a and b. Adding an existing edge, in either direction, is
// a no-op.
//
// Postcondition: returns an error for out-of-range rooms or a == b;
// otherwise HasEdge(a, b) and HasEdge(b, a).
func (g *Graph) AddEdge(a, b int) error {
	if !g.valid(a) || !g.valid(b) {
		return fmt.Errorf("graph: edge %d-%d out of range [0,%d)", a, b, g.n)
	}
	if a == b {
		return fmt.Errorf("graph: self edge on room %d", a)
	}
	k := key(a, b)
	if g.edges.Has(k) {
		return nil
	}
	g.edges.Put(k)
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	return nil
}

// HasEdge reports whether a and b are directly connected.
func (g *Graph) HasEdge(a, b int) bool {
	return g.edges.Has(key(a, b))
}

// Neighbors returns a copy of the rooms directly connected to i, in edge
// insertion order. Unknown rooms have no neighbors.
func (g *Graph) Neighbors(i int) []int {
	if !g.valid(i) {
		return nil
	}
	return append([]int{}, g.adj[i]...)
}
