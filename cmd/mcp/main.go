package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/begriplab/definitie-validator/internal/mapper"
	"github.com/begriplab/definitie-validator/internal/mcpadapter"
	"github.com/begriplab/definitie-validator/internal/setup"
	setuplogger "github.com/begriplab/definitie-validator/internal/setup/logger"
)

func main() {
	// Stdout is the MCP transport; logs go to stderr.
	appLogger := setuplogger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = appLogger
	logger := appLogger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, nil, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "definitie-validator",
			Version: mapper.EngineVersion,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_text",
		Description: "Validate a Dutch legal definition text against the full rule set (structure, language, legal, content)",
	}, mcpadapter.NewValidateTextHandler(deps.Orchestrator))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_definition",
		Description: "Validate a complete definition object (term, text, category)",
	}, mcpadapter.NewValidateDefinitionHandler(deps.Orchestrator))

	return server
}
