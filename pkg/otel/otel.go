// Package otel bootstraps the OpenTelemetry tracer and meter providers that
// the executor spans and transport.OpenTelemetryDecorator report to. Both are
// exported over OTLP/gRPC and installed as the global providers.
package otel

import (
	"context"
	"errors"
	"net"
	"os"

	otelcontrib "go.opentelemetry.io/contrib"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"

	"github.com/luizaranda/go-apiwrapper/pkg/internal"
)

const (
	_defaultAgentHost = "otel-agent"
	_defaultAgentPort = "4317"

	_otelAgentHostEnv = "OTEL_HOST"
	_otelAgentPortEnv = "OTEL_PORT"
)

// ShutdownFunc flushes and stops what Start installed.
type ShutdownFunc func(ctx context.Context) error

// Config configures Start. The zero value is usable.
type Config struct {
	// Endpoint is the OTLP collector "host:port". When empty it is built from
	// OTEL_HOST and OTEL_PORT, defaulting to "otel-agent:4317".
	Endpoint string

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string

	// SampleRatio is the fraction of root spans sampled, in [0, 1]. Spans
	// with a parent follow the parent decision.
	SampleRatio float64

	// DisableMetrics skips the meter provider.
	DisableMetrics bool
}

// Start installs the global tracer provider, propagators and, unless
// disabled, the meter provider.
func Start(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = endpointFromEnv()
	}

	res := newResource(cfg.ServiceName)

	shutdownTracing, err := startTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	if cfg.DisableMetrics {
		return shutdownTracing, nil
	}

	shutdownMetrics, err := startMeterProvider(ctx, cfg, res)
	if err != nil {
		return nil, errors.Join(err, shutdownTracing(ctx))
	}

	return func(ctx context.Context) error {
		return errors.Join(shutdownTracing(ctx), shutdownMetrics(ctx))
	}, nil
}

func endpointFromEnv() string {
	host := os.Getenv(_otelAgentHostEnv)
	if host == "" {
		host = _defaultAgentHost
	}
	port := os.Getenv(_otelAgentPortEnv)
	if port == "" {
		port = _defaultAgentPort
	}
	return net.JoinHostPort(host, port)
}

func newResource(serviceName string) *resource.Resource {
	attrs := []attribute.KeyValue{
		semconv.TelemetrySDKLanguageGo,
		// otelhttp wraps the handle transport.
		semconv.TelemetryAutoVersionKey.String(otelcontrib.Version()),
		attribute.String("apiwrapper.version", internal.Version),
	}
	if serviceName != "" {
		attrs = append(attrs, semconv.ServiceNameKey.String(serviceName))
	}
	return resource.NewSchemaless(attrs...)
}
