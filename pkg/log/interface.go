// Package log provides a structured logging interface for GaussGo numerical operations.
//
// This package defines a minimal, slog-compatible logging interface that allows for
// flexible implementation switching while providing domain-specific structured logging
// capabilities. The interface is designed to integrate seamlessly with Go's standard
// log/slog package; the default provider is backed by zerolog.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("gaussgo.gp")
//	logger.Debug("Computing covariance",
//	    log.OperationKey, "compute",
//	    log.SamplesKey, 100,
//	    log.FeaturesKey, 3,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// This interface provides the core logging methods with structured field support.
// It is implementation-agnostic, enabling switching between logging backends
// while maintaining a consistent API. Contextual loggers with pre-populated
// fields are created through the With method.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields,
	// given as alternating key-value pairs.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error value, it is recorded under the
	// standard error attribute.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to avoid building expensive attribute values that would be
	// discarded.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider defines an interface for creating and configuring loggers.
// It allows dependency injection and testing with different logger
// implementations.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific name/component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
