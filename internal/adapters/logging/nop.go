package logging

import (
	"context"

	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// NopLogger discards every entry. It backs tests and the paths that have
// no logging destination.
type NopLogger struct {
	level ports.Level
}

// NewNopLogger creates a NopLogger.
func NewNopLogger() *NopLogger {
	return &NopLogger{level: ports.LevelInfo}
}

func (l *NopLogger) Debug(context.Context, string, ...ports.Field) {}
func (l *NopLogger) Info(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Error(context.Context, string, ...ports.Field) {}

// With returns the logger unchanged; there are no fields to carry.
func (l *NopLogger) With(...ports.Field) ports.Logger {
	return l
}

// Level returns the configured level. Entries are discarded either way.
func (l *NopLogger) Level() ports.Level {
	return l.level
}

// SetLevel records the level.
func (l *NopLogger) SetLevel(level ports.Level) {
	l.level = level
}

var _ ports.Logger = (*NopLogger)(nil)
