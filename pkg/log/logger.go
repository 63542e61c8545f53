package log

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogger is used when a context carries no logger. It discards
// everything; replace it to get library logs without threading a context.
var DefaultLogger Logger = &logger{Logger: zap.NewNop()}

// NewLogger returns a logger writing entries at lvl and above. The level may
// be changed at runtime through lvl.
//
// By default it writes JSON to standard error, annotates the caller and adds
// stacktraces to entries at ErrorLevel and above.
func NewLogger(lvl *AtomicLevel, opts ...Option) Logger {
	cfg := logConfig{
		levelKey:   "level",
		caller:     true,
		callerSkip: 1,
		stacktrace: true,
		writer:     _stderr,
		encoder:    zapcore.NewJSONEncoder,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	var zapOptions []zap.Option
	if cfg.caller {
		zapOptions = append(zapOptions, zap.AddCaller(), zap.AddCallerSkip(cfg.callerSkip))
	}
	if cfg.stacktrace {
		zapOptions = append(zapOptions, zap.AddStacktrace(zap.ErrorLevel))
	}
	zapOptions = append(zapOptions, wrapCoreWithLevel(lvl))

	return &logger{Logger: zap.New(newCore(cfg), zapOptions...)}
}

type logger struct {
	*zap.Logger
}

var _ Logger = (*logger)(nil)

func (l *logger) WithLevel(level Level) Logger {
	lvl := zap.NewAtomicLevelAt(level)
	return &logger{Logger: l.Logger.WithOptions(wrapCoreWithLevel(&lvl))}
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{Logger: l.Logger.With(fields...)}
}

func (l *logger) Named(s string) Logger {
	return &logger{Logger: l.Logger.Named(s)}
}

func (l *logger) Level() Level {
	return zapcore.LevelOf(l.Core())
}

// WriteSyncer is an io.Writer that can flush buffered data.
type WriteSyncer interface {
	io.Writer
	Sync() error
}

type logConfig struct {
	levelKey   string
	caller     bool
	callerSkip int
	stacktrace bool
	writer     WriteSyncer
	encoder    func(zapcore.EncoderConfig) zapcore.Encoder
}

// Option configures a Logger built by NewLogger.
type Option func(*logConfig)

// WithLevelKey sets the key holding the entry level. Defaults to "level".
func WithLevelKey(key string) Option {
	return func(c *logConfig) { c.levelKey = key }
}

// WithCaller toggles the "caller" annotation.
func WithCaller(enabled bool) Option {
	return func(c *logConfig) { c.caller = enabled }
}

// WithCallerSkip sets how many frames the caller annotation skips.
func WithCallerSkip(skip int) Option {
	return func(c *logConfig) { c.callerSkip = skip }
}

// WithStacktraceOnError toggles stacktraces on ErrorLevel and above.
func WithStacktraceOnError(enabled bool) Option {
	return func(c *logConfig) { c.stacktrace = enabled }
}

// WithJSONEncoding encodes entries as JSON objects. This is the default.
func WithJSONEncoding() Option {
	return func(c *logConfig) { c.encoder = zapcore.NewJSONEncoder }
}

// WithConsoleEncoding encodes entries for humans reading a terminal.
func WithConsoleEncoding() Option {
	return func(c *logConfig) { c.encoder = zapcore.NewConsoleEncoder }
}

// WithWriter sets the destination of entries. Defaults to standard error.
func WithWriter(w WriteSyncer) Option {
	return func(c *logConfig) { c.writer = w }
}

// Writes from every logger to stderr go through one lock.
var _stderr = zapcore.Lock(zapcore.AddSync(os.Stderr))

func newCore(cfg logConfig) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       cfg.levelKey,
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     rfc3339MicroTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// The core accepts everything; coreWithLevel does the filtering.
	return zapcore.NewCore(cfg.encoder(encoderConfig), cfg.writer, zap.DebugLevel)
}

// rfc3339MicroTimeEncoder writes UTC timestamps with fixed width microsecond
// precision.
func rfc3339MicroTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	const rfc3339Micro = "2006-01-02T15:04:05.000000Z07:00"

	enc.AppendString(t.UTC().Format(rfc3339Micro))
}
