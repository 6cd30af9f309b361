package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/cycletrace/cycletrace/internal/cycle"
	"github.com/cycletrace/cycletrace/internal/graph"
	"github.com/cycletrace/cycletrace/internal/report"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Pipeline — one full run: build graph, detect cycles, write the report
// ---------------------------------------------------------------------------

// Config describes one run.
type Config struct {
	// InputPath is the transaction file, one `<from> <to> <value>` per line.
	InputPath string
	// OutputPath of the cycle report. Empty means a timestamped default in
	// the working directory.
	OutputPath string
	// SnapshotPath, when set, receives a gob snapshot of the built graph.
	SnapshotPath string
	// ResolveWallets renders wallet addresses instead of vertex indices.
	ResolveWallets bool
	// ShowGraph dumps the adjacency lists to stdout after the build.
	ShowGraph bool
}

// RunStats summarizes a completed run.
type RunStats struct {
	RunID string
	graph.BuildStats
	Cycles         int
	DetectDuration time.Duration
	OutputPath     string
}

// Run executes the whole pipeline. Per-record problems are logged and
// skipped inside the build; any error returned here is fatal for the run.
// The injected logger is the verbose/silent capability: pass zerolog.Nop()
// for a quiet run.
func Run(cfg Config, log zerolog.Logger) (RunStats, error) {
	stats := RunStats{RunID: uuid.New().String()}
	log = log.With().Str("run_id", stats.RunID).Logger()

	in, err := os.Open(cfg.InputPath)
	if err != nil {
		return stats, fmt.Errorf("pipeline: open input: %w", err)
	}
	defer in.Close()

	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = report.DefaultOutputName(time.Now())
	}
	stats.OutputPath = outPath
	out, err := os.Create(outPath)
	if err != nil {
		return stats, fmt.Errorf("pipeline: create output: %w", err)
	}
	defer out.Close()
	log.Info().Str("output", outPath).Msg("pipeline: report destination")

	g, idx, buildStats, err := graph.NewBuilder(log).BuildFromReader(in)
	if err != nil {
		return stats, err
	}
	stats.BuildStats = buildStats

	if cfg.ShowGraph {
		fmt.Print(g.String())
	}

	var resolver *graph.VertexIndex
	if cfg.ResolveWallets {
		resolver = idx
	}
	bw := bufio.NewWriter(out)
	sink := report.NewWriter(bw, resolver)

	log.Info().Msg("pipeline: starting cycle detection")
	start := time.Now()
	cycles, err := cycle.NewDetector(log).Detect(g, sink)
	if err != nil {
		return stats, err
	}
	stats.Cycles = cycles
	stats.DetectDuration = time.Since(start)

	if err := sink.WriteSummary(report.Summary{
		RunID:          stats.RunID,
		Vertices:       buildStats.Vertices,
		Edges:          buildStats.Edges,
		Cycles:         cycles,
		SkippedLines:   buildStats.SkippedLines,
		ParseFailures:  buildStats.ParseFailures,
		IndexDuration:  buildStats.IndexDuration,
		BuildDuration:  buildStats.BuildDuration,
		DetectDuration: stats.DetectDuration,
	}); err != nil {
		return stats, err
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("pipeline: flush report: %w", err)
	}

	if cfg.SnapshotPath != "" {
		if err := graph.SaveSnapshot(g, idx, cfg.SnapshotPath); err != nil {
			return stats, err
		}
		log.Info().Str("path", cfg.SnapshotPath).Msg("pipeline: graph snapshot saved")
	}

	log.Info().
		Int("cycles", cycles).
		Int("vertices", buildStats.Vertices).
		Int("edges", buildStats.Edges).
		Dur("detect_elapsed", stats.DetectDuration).
		Msg("pipeline: cycle detection completed")

	return stats, nil
}
