package report

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/cycletrace/cycletrace/internal/graph"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Cycle report — human-readable records plus the end-of-run summary
// ---------------------------------------------------------------------------

// Writer renders detected cycles to an output stream. It implements
// cycle.Sink. When an index is supplied, vertices are rendered as wallet
// addresses; otherwise as dense indices.
type Writer struct {
	w   io.Writer
	idx *graph.VertexIndex
}

// NewWriter creates a report writer. idx may be nil to render dense indices.
func NewWriter(w io.Writer, idx *graph.VertexIndex) *Writer {
	return &Writer{w: w, idx: idx}
}

// EmitCycle writes one cycle record:
//
//	Cycle #3: 0 -> 5 -> 2 -> 0
//	Max Flow: 12000000000000000000 WEI
func (r *Writer) EmitCycle(n int, path []int, max *big.Int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Cycle #%d: ", n)
	for i, v := range path {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(r.label(v))
	}
	fmt.Fprintf(&b, "\nMax Flow: %s WEI\n", decimal.NewFromBigInt(max, 0).String())

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("report: write cycle record: %w", err)
	}
	return nil
}

func (r *Writer) label(v int) string {
	if r.idx != nil {
		if wallet, ok := r.idx.Wallet(v); ok {
			return wallet
		}
	}
	return strconv.Itoa(v)
}

// Summary describes one completed run for the end-of-report trailer.
type Summary struct {
	RunID          string
	Vertices       int
	Edges          int
	Cycles         int
	SkippedLines   int
	ParseFailures  int
	IndexDuration  time.Duration
	BuildDuration  time.Duration
	DetectDuration time.Duration
}

// WriteSummary appends the run summary to the report.
func (r *Writer) WriteSummary(s Summary) error {
	var b strings.Builder
	b.WriteString("-----------------------------------\n")
	fmt.Fprintf(&b, "Run ID: %s\n", s.RunID)
	fmt.Fprintf(&b, "Total unique wallets (vertices): %d\n", s.Vertices)
	fmt.Fprintf(&b, "Total transactions (edges): %d\n", s.Edges)
	if s.SkippedLines > 0 || s.ParseFailures > 0 {
		fmt.Fprintf(&b, "Skipped records: %d malformed, %d unparsable\n", s.SkippedLines, s.ParseFailures)
	}
	fmt.Fprintf(&b, "Total cycles found: %d\n", s.Cycles)
	fmt.Fprintf(&b, "Runtime: index %s, build %s, detect %s\n",
		s.IndexDuration, s.BuildDuration, s.DetectDuration)
	b.WriteString("-----------------------------------\n")

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("report: write summary: %w", err)
	}
	return nil
}

// DefaultOutputName returns the timestamped filename used when the caller
// does not name an output file.
func DefaultOutputName(now time.Time) string {
	return "output--" + now.Format("2006-01-02_15-04-05") + ".txt"
}
