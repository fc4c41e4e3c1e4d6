package logger_test

import (
	"log/slog"

	"github.com/soundprediction/orgchart/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Info("Merging employee rows") // Will be green in terminal
	log.Warn("This is a warning message")
	log.Error("This is an error message")
}

func ExampleParseLevel() {
	log := logger.NewDefaultLogger(logger.ParseLevel("info"))

	log.Info("Processing upload", "request_id", "12345", "rows", 42)
	log.Warn("Several employees share the queried name", "name", "Sam Lee", "count", 2)
	log.Error("Graph store unavailable", "error", "timeout", "attempt", 3)
}
