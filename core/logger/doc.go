// Package logger provides a structured logging facility based on Zap.
//
// It builds the process logger from configuration (development config for the debug
// level, production otherwise) and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, so all logs related to a specific request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: console (colored capital levels) or json
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Check started", zap.String("root", layout.Root))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
