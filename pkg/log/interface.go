package log

import (
	"go.uber.org/zap/zapcore"
)

// CheckedEntry is an entry that the logger already agreed to write. It must
// not be retained after calling Write.
type CheckedEntry = zapcore.CheckedEntry

// Logger is a leveled structured logger. Implementations are safe for
// concurrent use.
type Logger interface {
	// Check returns a CheckedEntry if lvl is enabled, nil otherwise.
	Check(lvl Level, msg string) *CheckedEntry

	// Named appends s to the logger name, segments joined by periods.
	Named(s string) Logger

	// With returns a child logger carrying fields.
	With(fields ...Field) Logger

	// WithLevel returns a child logger restricted to lvl and above. A child
	// can only be more restrictive than its parent.
	WithLevel(lvl Level) Logger

	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Level reports the minimum enabled level.
	Level() Level

	// Sync flushes buffered entries.
	Sync() error
}
