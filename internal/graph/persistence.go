package graph

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ---------------------------------------------------------------------------
// Graph persistence — gob-encoded snapshots of a built graph and its index
// ---------------------------------------------------------------------------

// snapshot is the serializable state of a built graph. big.Int implements
// GobEncoder, so edge amounts round-trip exactly.
type snapshot struct {
	Wallets   []string
	Adjacency [][]Edge
	EdgeCount int
	CreatedAt time.Time
}

// SaveSnapshot persists g and idx to a gob-encoded file. The snapshot is
// written to a temp file and renamed into place so a crash never leaves a
// truncated snapshot at path.
func SaveSnapshot(g *Graph, idx *VertexIndex, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("graph: create snapshot dir: %w", err)
	}

	snap := snapshot{
		Wallets:   idx.wallets,
		Adjacency: g.adj,
		EdgeCount: g.edges,
		CreatedAt: time.Now(),
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("graph: create snapshot file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(&snap); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("graph: encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("graph: close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("graph: rename snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores a graph and its vertex index from path. A missing
// file surfaces as an error wrapping os.ErrNotExist.
func LoadSnapshot(path string) (*Graph, *VertexIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("graph: open snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, nil, fmt.Errorf("graph: decode snapshot: %w", err)
	}

	if snap.Adjacency == nil {
		snap.Adjacency = make([][]Edge, len(snap.Wallets))
	}
	if len(snap.Adjacency) != len(snap.Wallets) {
		return nil, nil, fmt.Errorf("graph: snapshot is inconsistent: %d adjacency lists for %d wallets",
			len(snap.Adjacency), len(snap.Wallets))
	}

	idx := NewVertexIndex()
	for _, wallet := range snap.Wallets {
		idx.LookupOrInsert(wallet)
	}

	g := &Graph{adj: snap.Adjacency, edges: snap.EdgeCount}
	return g, idx, nil
}
