package graph

import (
	"errors"
	"fmt"
)

// ErrUnknownVertex reports a wallet address that was never indexed. Under the
// two-pass build protocol every address seen in pass 2 was inserted in pass 1,
// so hitting this error means the protocol was violated.
var ErrUnknownVertex = errors.New("graph: unknown wallet address")

// VertexIndex assigns each distinct wallet address a dense zero-based index in
// first-seen order. The mapping is injective and indices are never reused or
// skipped. An index is owned by a single build/run, not shared globally.
type VertexIndex struct {
	byWallet map[string]int
	wallets  []string
}

// NewVertexIndex creates an empty index.
func NewVertexIndex() *VertexIndex {
	return &VertexIndex{byWallet: make(map[string]int)}
}

// LookupOrInsert returns the index for wallet, assigning the next sequential
// index on first sight. Amortized O(1).
func (x *VertexIndex) LookupOrInsert(wallet string) int {
	if idx, ok := x.byWallet[wallet]; ok {
		return idx
	}
	idx := len(x.wallets)
	x.byWallet[wallet] = idx
	x.wallets = append(x.wallets, wallet)
	return idx
}

// Lookup returns the index assigned to wallet, or ErrUnknownVertex if the
// wallet was never inserted.
func (x *VertexIndex) Lookup(wallet string) (int, error) {
	idx, ok := x.byWallet[wallet]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVertex, wallet)
	}
	return idx, nil
}

// Wallet is the reverse lookup: the address assigned to index.
func (x *VertexIndex) Wallet(index int) (string, bool) {
	if index < 0 || index >= len(x.wallets) {
		return "", false
	}
	return x.wallets[index], true
}

// Len returns the number of distinct wallets indexed so far.
func (x *VertexIndex) Len() int {
	return len(x.wallets)
}
