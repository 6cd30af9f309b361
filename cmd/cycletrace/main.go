package main

import (
	"fmt"
	"os"

	"github.com/cycletrace/cycletrace/internal/config"
	"github.com/cycletrace/cycletrace/internal/pipeline"
	flags "github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	Config    string `short:"c" long:"config" description:"Path to a YAML configuration file"`
	Output    string `short:"o" long:"output" description:"Report output file (default: timestamped file in the working directory)"`
	Snapshot  string `short:"s" long:"snapshot" description:"Write a gob snapshot of the built graph to this path"`
	Verbose   bool   `short:"v" long:"verbose" description:"Enable progress logging to stdout"`
	Wallets   bool   `short:"w" long:"wallets" description:"Render wallet addresses instead of vertex indices in the report"`
	ShowGraph bool   `long:"show-graph" description:"Dump the adjacency lists to stdout after the build"`

	Args struct {
		Input string `positional-arg-name:"INPUT" description:"Transaction file, one '<from> <to> <value>' per line"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] INPUT"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override config file settings.
	if opts.Output != "" {
		cfg.Report.OutputPath = opts.Output
	}
	if opts.Snapshot != "" {
		cfg.Snapshot.Path = opts.Snapshot
	}
	if opts.Verbose {
		cfg.General.Verbose = true
	}
	if opts.Wallets {
		cfg.Report.ResolveWallets = true
	}

	input := opts.Args.Input
	if input == "" {
		input = cfg.Input.Path
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, "Incorrect usage: an input file is required.")
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	// The silent/verbose logger capability: a no-op logger unless verbose.
	logger := zerolog.Nop()
	if cfg.General.Verbose {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro
		level, err := zerolog.ParseLevel(cfg.General.LogLevel)
		if err != nil {
			level = zerolog.InfoLevel
		}
		logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("service", "cycletrace").
			Logger().Level(level)
	}
	log.Logger = logger

	stats, err := pipeline.Run(pipeline.Config{
		InputPath:      input,
		OutputPath:     cfg.Report.OutputPath,
		SnapshotPath:   cfg.Snapshot.Path,
		ResolveWallets: cfg.Report.ResolveWallets,
		ShowGraph:      opts.ShowGraph,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cycletrace: %v\n", err)
		os.Exit(1)
	}

	logger.Info().
		Int("cycles", stats.Cycles).
		Str("output", stats.OutputPath).
		Msg("Run complete")
}
