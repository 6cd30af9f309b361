package report

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/cycletrace/cycletrace/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_EmitCycle(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	require.NoError(t, w.EmitCycle(1, []int{0, 1, 2, 0}, big.NewInt(20)))

	assert.Equal(t, "Cycle #1: 0 -> 1 -> 2 -> 0\nMax Flow: 20 WEI\n", buf.String())
}

func TestWriter_EmitCycleSelfLoop(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	require.NoError(t, w.EmitCycle(4, []int{3, 3}, big.NewInt(7)))

	assert.Equal(t, "Cycle #4: 3 -> 3\nMax Flow: 7 WEI\n", buf.String())
}

func TestWriter_EmitCycleBigAmount(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	huge, ok := new(big.Int).SetString("340282366920938463463374607431768211456", 10)
	require.True(t, ok)
	require.NoError(t, w.EmitCycle(1, []int{0, 0}, huge))

	assert.Contains(t, buf.String(), "Max Flow: 340282366920938463463374607431768211456 WEI")
}

func TestWriter_ResolvesWallets(t *testing.T) {
	idx := graph.NewVertexIndex()
	idx.LookupOrInsert("0xaaa")
	idx.LookupOrInsert("0xbbb")

	var buf bytes.Buffer
	w := NewWriter(&buf, idx)

	require.NoError(t, w.EmitCycle(1, []int{0, 1, 0}, big.NewInt(5)))

	assert.Equal(t, "Cycle #1: 0xaaa -> 0xbbb -> 0xaaa\nMax Flow: 5 WEI\n", buf.String())
}

func TestWriter_Summary(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	require.NoError(t, w.WriteSummary(Summary{
		RunID:         "run-123",
		Vertices:      10,
		Edges:         25,
		Cycles:        3,
		SkippedLines:  1,
		ParseFailures: 2,
	}))

	out := buf.String()
	assert.Contains(t, out, "Run ID: run-123")
	assert.Contains(t, out, "Total unique wallets (vertices): 10")
	assert.Contains(t, out, "Total transactions (edges): 25")
	assert.Contains(t, out, "Total cycles found: 3")
	assert.Contains(t, out, "Skipped records: 1 malformed, 2 unparsable")
}

func TestWriter_SummaryOmitsCleanSkipLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil)

	require.NoError(t, w.WriteSummary(Summary{Cycles: 1}))
	assert.NotContains(t, buf.String(), "Skipped records")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_WriteError(t *testing.T) {
	w := NewWriter(failingWriter{}, nil)

	err := w.EmitCycle(1, []int{0, 0}, big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write cycle record")
}

func TestDefaultOutputName(t *testing.T) {
	now := time.Date(2026, 8, 24, 13, 5, 9, 0, time.UTC)
	assert.Equal(t, "output--2026-08-24_13-05-09.txt", DefaultOutputName(now))
}
