package easy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/luizaranda/go-apiwrapper/pkg/internal"
	"github.com/luizaranda/go-apiwrapper/pkg/response"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	_instrumentationName = "github.com/luizaranda/go-apiwrapper/pkg/easy"
	_transferSpanName    = "EasyTransfer"
	_durationMetricName  = "http.client.duration"

	_endpointSpanAttribute   = attribute.Key("apiwrapper.easy.endpoint")
	_bodySizeSpanAttribute   = attribute.Key("apiwrapper.easy.response_body_size")
	_customVerbSpanAttribute = attribute.Key("apiwrapper.easy.custom_request")
	_failedMetricAttribute   = attribute.Key("apiwrapper.easy.failed")
)

func newSpan(req *http.Request, customRequest bool) (context.Context, trace.Span) {
	tracer := otel.Tracer(_instrumentationName, trace.WithInstrumentationVersion(internal.Version))

	ctx, span := tracer.Start(req.Context(), fmt.Sprintf("%s %s", _transferSpanName, req.Method),
		trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(semconv.HTTPClientAttributesFromHTTPRequest(req)...)
	span.SetAttributes(
		_endpointSpanAttribute.String(tracing.EndpointTemplate(ctx)),
		_customVerbSpanAttribute.Bool(customRequest),
	)

	return ctx, span
}

func recordResponseAttributes(span trace.Span, res *http.Response, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetAttributes(semconv.HTTPAttributesFromHTTPStatusCode(res.StatusCode)...)
	span.SetStatus(semconv.SpanStatusFromHTTPStatusCode(res.StatusCode))
}

func recordBodySize(span trace.Span, n int64) {
	span.SetAttributes(_bodySizeSpanAttribute.Int64(n))
}

// recordDuration adds one transfer to the duration histogram of mp, the
// global meter provider when nil. Failed transfers carry no status code.
func recordDuration(ctx context.Context, mp otelmetric.MeterProvider, method string, status response.Status, elapsed time.Duration, err error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(_instrumentationName, otelmetric.WithInstrumentationVersion(internal.Version))
	duration, herr := meter.Int64Histogram(_durationMetricName,
		otelmetric.WithUnit("ms"),
		otelmetric.WithDescription("Duration of easy transfers, body included."))
	if herr != nil {
		return
	}

	attrs := []attribute.KeyValue{
		semconv.HTTPMethodKey.String(method),
		_endpointSpanAttribute.String(tracing.EndpointTemplate(ctx)),
		_failedMetricAttribute.Bool(err != nil),
	}
	if code, ok := status.Code(); ok {
		attrs = append(attrs, semconv.HTTPStatusCodeKey.Int(code))
	}

	duration.Record(ctx, elapsed.Milliseconds(), otelmetric.WithAttributes(attrs...))
}
