// Package telemetry records client side metrics through DataDog statsd and
// NewRelic segments. The client in use travels in the context; functions of
// this package fall back to DefaultTracer, which discards everything.
package telemetry

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/newrelic/go-agent/v3/newrelic"
)

var (
	_defaultBufferLen = 500
	_defaultTimeout   = 200 * time.Millisecond
	_defaultRate      = 1.0
	_shutdownTimeout  = 5 * time.Second
)

// DefaultTracer is used when the context carries no Client. It discards all
// metrics.
var DefaultTracer = NewNoOpClient()

// Client is a handle for recording metrics and spans. Implementations are
// safe for concurrent use.
type Client interface {
	Close() error
	StartSpan(ctx context.Context, name string) (context.Context, Span)
	Gauge(name string, value float64, tags []string)
	Count(name string, value int64, tags []string)
	Incr(name string, tags []string)
	Histogram(name string, value float64, tags []string)
	Timing(name string, value time.Duration, tags []string)
}

type client struct {
	nrApp  *newrelic.Application
	statsd statsd.ClientInterface
}

var _ Client = (*client)(nil)

// Config contains the attributes NewClient bootstraps from.
type Config struct {
	// ApplicationName is the name shown on NewRelic.
	ApplicationName string

	// NewRelicLicense identifies the NewRelic account. NewRelic is disabled
	// when empty.
	NewRelicLicense string

	// DatadogAddress is the statsd agent address, for example
	// "127.0.0.1:8125" or "unix:///var/run/datadog/dsd.socket".
	DatadogAddress string
}

// NewClient returns a client connected to the configured providers.
func NewClient(cfg Config) (Client, error) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigEnabled(cfg.NewRelicLicense != ""),
		newrelic.ConfigLicense(cfg.NewRelicLicense),
		newrelic.ConfigAppName(cfg.ApplicationName),
		newrelic.ConfigDistributedTracerEnabled(false),
		newrelic.ConfigFromEnvironment(),
	)
	if err != nil {
		return nil, err
	}

	s, err := statsd.New(cfg.DatadogAddress,
		statsd.WithMaxMessagesPerPayload(_defaultBufferLen),
		statsd.WithWriteTimeout(_defaultTimeout),
	)
	if err != nil {
		return nil, err
	}

	return &client{nrApp: app, statsd: s}, nil
}

// NewNoOpClient returns a client that does nothing.
func NewNoOpClient() Client {
	app, _ := newrelic.NewApplication(newrelic.ConfigEnabled(false))
	return &client{
		nrApp:  app,
		statsd: &statsd.NoOpClient{},
	}
}

// Close flushes buffered metrics and shuts NewRelic down.
func (c *client) Close() error {
	if c.nrApp != nil {
		c.nrApp.Shutdown(_shutdownTimeout)
	}
	return c.statsd.Close()
}

// StartSpan begins a non-web NewRelic transaction, or a segment when ctx
// already carries a transaction. The returned Span is never nil and must be
// finished.
func (c *client) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	if tx := newrelic.FromContext(ctx); tx != nil {
		return StartSpan(ctx, name)
	}

	tx := c.nrApp.StartTransaction(name)

	return Context(newrelic.NewContext(ctx, tx), c), &nrTransactionSpan{Transaction: tx}
}

func (c *client) Gauge(name string, value float64, tags []string) {
	_ = c.statsd.Gauge(name, value, tags, _defaultRate)
}

func (c *client) Count(name string, value int64, tags []string) {
	_ = c.statsd.Count(name, value, tags, _defaultRate)
}

func (c *client) Incr(name string, tags []string) {
	_ = c.statsd.Incr(name, tags, _defaultRate)
}

func (c *client) Histogram(name string, value float64, tags []string) {
	_ = c.statsd.Histogram(name, value, tags, _defaultRate)
}

func (c *client) Timing(name string, value time.Duration, tags []string) {
	_ = c.statsd.Timing(name, value, tags, _defaultRate)
}
