// Package log provides structured logging for textomat.
//
// Package: log
// Title: Structured Logging Framework
// Description: Leveled, structured logging with persistent context fields and
//              JSON, text or console output. Every component derives its own
//              logger with WithField("component", ...).
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Factory for configuration driven loggers
//
// Usage:
//
//	import mdwlog "github.com/msto63/textomat/foundation/core/log"
//
//	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug}).
//		WithField("component", "interpreter")
//
//	logger.Debug("command compiled", mdwlog.Fields{"source": cmd.Source})
//
//	timer := logger.StartTimer("process")
//	// ...
//	timer.Stop()
package log
