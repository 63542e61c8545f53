package log

import (
	"context"
)

type logCtxKey struct{}

// Context returns a copy of ctx carrying l. The package level functions log
// through it.
func Context(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, l)
}

// FromContext returns the logger set with Context, or nil.
func FromContext(ctx context.Context) Logger {
	l, _ := ctx.Value(logCtxKey{}).(Logger)
	return l
}

// Named returns a copy of ctx whose logger has s appended to its name.
func Named(ctx context.Context, s string) context.Context {
	return Context(ctx, getLogger(ctx).Named(s))
}

// With returns a copy of ctx whose logger carries fields.
func With(ctx context.Context, fields ...Field) context.Context {
	return Context(ctx, getLogger(ctx).With(fields...))
}

// Enabled reports whether the context logger writes entries at lvl.
func Enabled(ctx context.Context, lvl Level) bool {
	return getLogger(ctx).Check(lvl, "") != nil
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	getLogger(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	getLogger(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	getLogger(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	getLogger(ctx).Error(msg, fields...)
}

func getLogger(ctx context.Context) Logger {
	if l, ok := ctx.Value(logCtxKey{}).(Logger); ok {
		return l
	}
	return DefaultLogger
}
