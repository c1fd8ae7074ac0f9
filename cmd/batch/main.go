package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/begriplab/definitie-validator/internal/batch"
	"github.com/begriplab/definitie-validator/internal/setup"
	"github.com/begriplab/definitie-validator/internal/setup/logger"
)

func main() {
	startTime := time.Now()

	// Structured logs on stderr; stdout carries the results.
	appLogger := logger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = appLogger

	input := flag.String("input", "", "Input JSONL file, or '-' for stdin")
	output := flag.String("output", "", "Output file; stdout when empty")
	format := flag.String("format", "jsonl", "Output format: 'jsonl' or 'summary'")
	workers := flag.Int("workers", 5, "Concurrent validation workers")
	dryRun := flag.Bool("dry-run", false, "Parse input without validating")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, nil, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Open input
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	reader := batch.NewReader(inputFile, deps.Logger)

	var records []batch.InputRecord
	for record := range reader.ReadAll(ctx) {
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Msg("Input file parsed")

	if *dryRun {
		log.Info().Int("records", len(records)).Msg("Dry run complete")
		return
	}

	// Open output
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	processor := batch.NewProcessor(deps.Orchestrator, *workers, deps.Logger)
	results := processor.Process(ctx, records)

	for _, result := range results {
		if err := writer.Write(result); err != nil {
			log.Error().Err(err).Msg("Failed to write result")
		}
	}

	if err := writer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to finalize output")
	}

	acceptable := 0
	for _, r := range results {
		if r.IsAcceptable {
			acceptable++
		}
	}

	log.Info().
		Int("total", len(results)).
		Int("acceptable", acceptable).
		Dur("elapsed", time.Since(startTime)).
		Msg("Batch validation complete")
}
