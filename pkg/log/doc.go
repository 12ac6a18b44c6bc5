// Package log provides Dunfell's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. It is backed by log/slog through a
// bridge handler that renders records with our own formatters and writes
// them to one or more outputs.
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("parser"))
//	l.Info("log loaded", log.Int("events", 1200))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level, text or
// JSON format, console/file/null outputs, redaction and sampling).
//
// # Interop
//
// ToStdLogger and RedirectStdLog adapt the facade for libraries that log
// through the standard library's *log.Logger, such as Pebble.
package log
