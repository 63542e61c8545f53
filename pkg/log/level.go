package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// A Level is a logging priority. Higher levels are more important.
type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// AtomicLevel is a level that can be changed safely while loggers use it.
type AtomicLevel = zap.AtomicLevel

// NewAtomicLevelAt returns an AtomicLevel set to l.
func NewAtomicLevelAt(l Level) AtomicLevel {
	return zap.NewAtomicLevelAt(l)
}

// ParseLevel parses "debug", "info", "warn" or "error", case insensitive.
func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}
