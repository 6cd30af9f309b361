package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cycletrace/cycletrace/internal/wei"
	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Two-pass graph construction from whitespace-separated transaction records
// ---------------------------------------------------------------------------

// maxWalletLen bounds wallet tokens ("0x" + 40 hex characters).
const maxWalletLen = 42

// BuildStats describes one graph construction.
type BuildStats struct {
	Lines         int           `json:"lines"`
	Vertices      int           `json:"vertices"`
	Edges         int           `json:"edges"`
	SkippedLines  int           `json:"skipped_lines"`
	ParseFailures int           `json:"parse_failures"`
	IndexDuration time.Duration `json:"index_duration"`
	BuildDuration time.Duration `json:"build_duration"`
}

// Builder constructs a Graph plus its VertexIndex from a transaction stream.
// The builder owns a reusable wei.Parser, so one builder can serve many runs
// sequentially.
type Builder struct {
	log    zerolog.Logger
	parser *wei.Parser
}

// NewBuilder creates a builder that logs progress and per-line diagnostics to
// log.
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{log: log, parser: wei.NewParser()}
}

// BuildFromReader reads every `<from> <to> <value>` line of rs twice: pass 1
// discovers the distinct wallets and fixes the vertex count, pass 2 (after
// rewinding) parses each value and inserts the edges. Malformed lines and
// unparsable values are logged and skipped; the run continues. A vertex-index
// miss in pass 2 aborts the build, since it can only mean the two-pass
// protocol was violated.
func (b *Builder) BuildFromReader(rs io.ReadSeeker) (*Graph, *VertexIndex, BuildStats, error) {
	var stats BuildStats

	b.log.Info().Msg("graph: indexing wallets")
	idx := NewVertexIndex()
	start := time.Now()

	sc := bufio.NewScanner(rs)
	for sc.Scan() {
		stats.Lines++
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		from, to, _, ok := splitRecord(sc.Text())
		if !ok {
			continue // diagnosed in pass 2
		}
		idx.LookupOrInsert(from)
		idx.LookupOrInsert(to)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, stats, fmt.Errorf("graph: scan input (pass 1): %w", err)
	}
	stats.IndexDuration = time.Since(start)
	stats.Vertices = idx.Len()
	b.log.Info().
		Int("vertices", idx.Len()).
		Dur("elapsed", stats.IndexDuration).
		Msg("graph: wallet index built")

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, nil, stats, fmt.Errorf("graph: rewind input: %w", err)
	}

	b.log.Info().Msg("graph: building adjacency lists")
	g := New(idx.Len())
	start = time.Now()

	sc = bufio.NewScanner(rs)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		from, to, value, ok := splitRecord(line)
		if !ok {
			stats.SkippedLines++
			b.log.Warn().Int("line", lineNo).Msg("graph: malformed transaction line, skipping")
			continue
		}

		amount, err := b.parser.Parse(value)
		if err != nil {
			stats.ParseFailures++
			b.log.Warn().Err(err).
				Int("line", lineNo).
				Str("value", value).
				Msg("graph: unparsable value, skipping transaction")
			continue
		}

		fromIdx, err := idx.Lookup(from)
		if err != nil {
			return nil, nil, stats, fmt.Errorf("graph: pass 2 resolved an unindexed wallet: %w", err)
		}
		toIdx, err := idx.Lookup(to)
		if err != nil {
			return nil, nil, stats, fmt.Errorf("graph: pass 2 resolved an unindexed wallet: %w", err)
		}

		if err := g.InsertEdge(fromIdx, toIdx, amount); err != nil {
			return nil, nil, stats, fmt.Errorf("graph: insert edge: %w", err)
		}
		stats.Edges++
	}
	if err := sc.Err(); err != nil {
		return nil, nil, stats, fmt.Errorf("graph: scan input (pass 2): %w", err)
	}
	stats.BuildDuration = time.Since(start)

	b.log.Info().
		Int("edges", stats.Edges).
		Int("skipped", stats.SkippedLines).
		Int("parse_failures", stats.ParseFailures).
		Dur("elapsed", stats.BuildDuration).
		Msg("graph: build complete")

	return g, idx, stats, nil
}

// splitRecord extracts the three transaction fields from a line. Blank lines
// never reach this point; a line with fewer than three fields or an oversized
// wallet token is malformed. Extra trailing fields are ignored.
func splitRecord(line string) (from, to, value string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return "", "", "", false
	}
	if len(fields[0]) > maxWalletLen || len(fields[1]) > maxWalletLen {
		return "", "", "", false
	}
	return fields[0], fields[1], fields[2], true
}
