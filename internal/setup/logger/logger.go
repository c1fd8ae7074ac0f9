package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a structured logger on stderr, leaving stdout free for payload
// output (batch results, MCP stdio transport).
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
