// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for the CLI commands and the HTTP
// server. The debug level selects Zap's development configuration; other
// levels use the production configuration at the requested level.
//
// # Context Awareness
//
// WithRayID extracts the RayID (Request ID) from a Fiber context and attaches
// it to the log entry, so every log line of a request can be correlated.
// WithRunID does the same for a single reconciliation or generation run.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Reconciliation started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
