// Package log provides the default zerolog-backed logger provider.
//
// This file contains the concrete Logger implementation used unless a
// different LoggerProvider is injected via SetLoggerProvider (tests use the
// TestLogger provider from testing.go).

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl    zerolog.Logger
	level Level
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// emit attaches the alternating key-value fields to the event and sends it.
// Values implementing zerolog.LogObjectMarshaler (all gaussgo error types)
// are recorded as structured objects.
func emit(e *zerolog.Event, msg string, fields ...any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

// Debug implements Logger.Debug.
func (z *zerologLogger) Debug(msg string, fields ...any) {
	emit(z.zl.Debug(), msg, fields...)
}

// Info implements Logger.Info.
func (z *zerologLogger) Info(msg string, fields ...any) {
	emit(z.zl.Info(), msg, fields...)
}

// Warn implements Logger.Warn.
func (z *zerologLogger) Warn(msg string, fields ...any) {
	emit(z.zl.Warn(), msg, fields...)
}

// Error implements Logger.Error. A leading error value is recorded under
// the standard error attribute.
func (z *zerologLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			emit(z.zl.Error().Err(err), msg, fields[1:]...)
			return
		}
	}
	emit(z.zl.Error(), msg, fields...)
}

// With implements Logger.With.
func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			ctx = ctx.AnErr(key, v)
		default:
			ctx = ctx.Interface(key, v)
		}
	}
	return &zerologLogger{zl: ctx.Logger(), level: z.level}
}

// Enabled implements Logger.Enabled.
func (z *zerologLogger) Enabled(ctx context.Context, level Level) bool {
	return level >= z.level
}

// ZerologProvider is the default LoggerProvider, writing JSON lines through
// zerolog.
type ZerologProvider struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// NewZerologProvider creates a provider writing to w with the given minimum
// level.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{out: w, level: level}
}

func (p *ZerologProvider) newLogger() *zerologLogger {
	p.mu.Lock()
	defer p.mu.Unlock()
	zl := zerolog.New(p.out).Level(toZerologLevel(p.level)).With().Timestamp().Logger()
	return &zerologLogger{zl: zl, level: p.level}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	return p.newLogger()
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return p.newLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

var (
	providerMu sync.RWMutex
	// The library stays quiet unless the caller lowers the level.
	provider LoggerProvider = NewZerologProvider(os.Stderr, LevelWarn)
)

// GetLogger returns the default logger from the current provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLogger()
}

// GetLoggerWithName returns a component-scoped logger from the current provider.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// SetLoggerProvider replaces the global provider. Pass a TestLoggerProvider
// in tests to capture output.
func SetLoggerProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

// SetLevel sets the minimum level on the current provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	provider.SetLevel(level)
}
