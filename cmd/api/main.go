package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/begriplab/definitie-validator/internal/api"
	"github.com/begriplab/definitie-validator/internal/api/middleware"
	"github.com/begriplab/definitie-validator/internal/metric"
	"github.com/begriplab/definitie-validator/internal/setup"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()
	metrics := metric.New()

	deps, err := setup.Wire(ctx, cfg, metrics, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Reload the rule set when the config file changes on disk.
	go func() {
		if err := deps.RuleCache.Watch(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("rule config watcher stopped")
		}
	}()

	// API
	handler := api.NewHandler(deps.Orchestrator, deps.RuleCache, deps.Generator, &logger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger(&logger))
	container.Filter(middleware.RecoverPanic(&logger))
	api.RegisterRoutes(container, handler)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", container)

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	port := os.Getenv("VALIDATOR_API_PORT")
	if port == "" {
		port = "18090"
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("address", addr).Msg("Starting definition validator API")

	server := http.Server{
		Addr:    addr,
		Handler: corsHandler.Handler(mux),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
