package cycle

import (
	"fmt"
	"math/big"

	"github.com/cycletrace/cycletrace/internal/graph"
	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Cycle detection — DFS over the transaction graph, O(V+E)
// ---------------------------------------------------------------------------

// vertexState tracks DFS progress per vertex.
type vertexState uint8

const (
	stateUnvisited vertexState = iota
	stateOnStack               // on the active recursion path
	stateDone                  // fully explored, never re-expanded
)

// Sink receives each cycle the instant it is detected. path is the closed
// walk (first vertex repeated at the end) and max the largest edge amount
// among the edges composing it, the closing back-edge included. Both are only
// valid for the duration of the call; implementations copy what they keep.
// A sink error aborts the traversal.
type Sink interface {
	EmitCycle(n int, path []int, max *big.Int) error
}

// Detector enumerates every cycle reachable by depth-first traversal. The
// outer sweep visits all vertices, so cycles in components unreachable from
// vertex 0 are found too.
type Detector struct {
	log zerolog.Logger
}

// NewDetector creates a detector that reports traversal progress to log.
func NewDetector(log zerolog.Logger) *Detector {
	return &Detector{log: log}
}

// Detect runs the full sweep over g, emitting every detected cycle to sink.
// Returns the total cycle count.
func (d *Detector) Detect(g *graph.Graph, sink Sink) (int, error) {
	t := &traversal{
		g:     g,
		sink:  sink,
		log:   d.log,
		state: make([]vertexState, g.Vertices()),
	}

	for v := 0; v < g.Vertices(); v++ {
		if t.state[v] == stateUnvisited {
			if err := t.visit(v); err != nil {
				return t.cycles, err
			}
		}
	}
	return t.cycles, nil
}

// traversal is the state of one full DFS sweep.
type traversal struct {
	g    *graph.Graph
	sink Sink
	log  zerolog.Logger

	state []vertexState
	path  []int      // active recursion path, one entry per OnStack vertex
	taken []*big.Int // taken[i] = amount of the edge currently taken from path[i]

	cycles    int
	cyclePath []int // reusable emission buffer
}

func (t *traversal) visit(v int) error {
	t.state[v] = stateOnStack
	t.path = append(t.path, v)
	t.taken = append(t.taken, nil)

	deg := t.g.OutDegree(v)
	for i := 0; i < deg; i++ {
		e := t.g.EdgeAt(v, i)
		t.taken[len(t.taken)-1] = e.Amount

		switch t.state[e.To] {
		case stateUnvisited:
			t.log.Debug().Int("from", v).Int("to", e.To).Msg("cycle: expanding edge")
			if err := t.visit(e.To); err != nil {
				return err
			}
		case stateOnStack:
			if err := t.emit(e); err != nil {
				return err
			}
		}
		// stateDone: already fully explored, skip.
	}

	t.state[v] = stateDone
	t.path = t.path[:len(t.path)-1]
	t.taken = t.taken[:len(t.taken)-1]
	return nil
}

// emit reconstructs the cycle closed by back-edge e: the path segment from
// the first occurrence of e.To up to the current vertex, plus the back-edge.
func (t *traversal) emit(e graph.Edge) error {
	t.cycles++

	start := 0
	for start < len(t.path) && t.path[start] != e.To {
		start++
	}

	// taken[start..top-1] are the path-internal edges, taken[top] is the
	// back-edge itself.
	max := new(big.Int)
	for i := start; i < len(t.taken); i++ {
		if max.Cmp(t.taken[i]) < 0 {
			max.Set(t.taken[i])
		}
	}

	t.cyclePath = append(t.cyclePath[:0], t.path[start:]...)
	t.cyclePath = append(t.cyclePath, e.To)

	t.log.Debug().Ints("path", t.cyclePath).Str("max", max.String()).Msg("cycle: detected")

	if err := t.sink.EmitCycle(t.cycles, t.cyclePath, max); err != nil {
		return fmt.Errorf("cycle: emit cycle %d: %w", t.cycles, err)
	}
	return nil
}
