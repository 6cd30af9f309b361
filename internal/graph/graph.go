package graph

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ---------------------------------------------------------------------------
// Transaction graph — directed, edge-weighted multigraph over dense indices
// ---------------------------------------------------------------------------

// ErrVertexOutOfRange reports an edge endpoint outside [0, Vertices()).
var ErrVertexOutOfRange = errors.New("graph: vertex index out of range")

// Edge is one directed transaction. The graph owns the Amount; it is never
// aliased with caller memory.
type Edge struct {
	To     int
	Amount *big.Int
}

// Graph holds one adjacency list per vertex. Multiple edges between the same
// ordered pair and self-loops are permitted; nothing is deduplicated or
// summed. A graph is built once and immutable afterward.
type Graph struct {
	adj   [][]Edge
	edges int
}

// New allocates a graph with vertexCount empty adjacency lists.
func New(vertexCount int) *Graph {
	return &Graph{adj: make([][]Edge, vertexCount)}
}

// InsertEdge records the transaction from -> to. Out-of-range endpoints are
// rejected without aborting the run. O(1).
func (g *Graph) InsertEdge(from, to int, amount *big.Int) error {
	if from < 0 || from >= len(g.adj) {
		return fmt.Errorf("%w: from=%d vertices=%d", ErrVertexOutOfRange, from, len(g.adj))
	}
	if to < 0 || to >= len(g.adj) {
		return fmt.Errorf("%w: to=%d vertices=%d", ErrVertexOutOfRange, to, len(g.adj))
	}
	g.adj[from] = append(g.adj[from], Edge{To: to, Amount: new(big.Int).Set(amount)})
	g.edges++
	return nil
}

// Vertices returns the vertex count.
func (g *Graph) Vertices() int {
	return len(g.adj)
}

// Edges returns the total number of edges inserted.
func (g *Graph) Edges() int {
	return g.edges
}

// OutDegree returns the number of outgoing edges of v.
func (g *Graph) OutDegree(v int) int {
	return len(g.adj[v])
}

// EdgeAt returns the i-th outgoing edge of v, most recently inserted first.
func (g *Graph) EdgeAt(v, i int) Edge {
	list := g.adj[v]
	return list[len(list)-1-i]
}

// Stats summarizes the graph.
type Stats struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
}

// Stats returns vertex and edge counts.
func (g *Graph) Stats() Stats {
	return Stats{Vertices: len(g.adj), Edges: g.edges}
}

// String renders the adjacency lists for debugging.
func (g *Graph) String() string {
	var b strings.Builder
	b.WriteString("/--- GRAPH ADJACENCY LIST ---/\n")
	for v := range g.adj {
		fmt.Fprintf(&b, "%d: ", v)
		for i := 0; i < g.OutDegree(v); i++ {
			e := g.EdgeAt(v, i)
			fmt.Fprintf(&b, "%d (Value: %s) -> ", e.To, e.Amount.String())
		}
		b.WriteString("NULL\n")
	}
	b.WriteString("/--------------------------/\n")
	return b.String()
}
