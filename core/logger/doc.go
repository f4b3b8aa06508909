// Package logger provides a structured logging facility based on Zap.
//
// A debug level selects zap's development configuration; any other level uses the
// production configuration at that level. Format "console" switches to the
// human-readable encoder with coloured levels.
//
// # Context
//
// WithRayID extracts the ray id set by the rayid middleware from a Fiber context,
// so every log line of one request can be correlated. WithCategory scopes a
// logger to one device category; the sync orchestrator logs every phase through it.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	l := logger.WithCategory(log, "Valves")
//	l.Info("Phase finished", zap.String("phase", "sizing"))
package logger
