package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/http/httptrace"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/luizaranda/go-apiwrapper/pkg/telemetry"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
	"github.com/newrelic/go-agent/v3/newrelic"
)

const (
	_httpDNSTimingMetric          = "apiwrapper.http.client.dns.time"
	_httpTCPConnectTimingMetric   = "apiwrapper.http.client.tcp_connect.time"
	_httpTLSHandshakeTimingMetric = "apiwrapper.http.client.tls_handshake.time"

	_httpConnectionGotTimingMetric = "apiwrapper.http.client.got_connection.time"

	_httpRequestMetric                    = "apiwrapper.http.client.request.time"
	_httpWroteRequestTimingMetric         = "apiwrapper.http.client.request_written.time"
	_httpGotFirstResponseByteTimingMetric = "apiwrapper.http.client.response_first_byte.time"
	_httpResponseFullyReadTimingMetric    = "apiwrapper.http.client.response_fully_read.time"
)

// TraceDecorator returns a RoundTripDecorator that records one timing metric
// per transfer and opens a NewRelic external segment.
func TraceDecorator() RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return &TracedRoundTripper{Transport: base}
	}
}

// ExtendedTraceDecorator is like TraceDecorator but also records the timing
// of every connection stage and of the moment the body was fully read.
func ExtendedTraceDecorator() RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return &TracedRoundTripper{Transport: base, Extended: true}
	}
}

// TracedRoundTripper instruments transfers with metrics sent through the
// telemetry.Client found in the request context. Metrics are tagged with the
// target id set with tracing.WithTargetID, if any.
//
// The NewRelic segment is only recorded when the context carries a NewRelic
// transaction.
type TracedRoundTripper struct {
	Transport http.RoundTripper

	// Extended enables connection stage and body read metrics.
	Extended bool
}

// RoundTrip implements http.RoundTripper.
func (t *TracedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// Mutates req, see newrelic.StartExternalSegment.
	segment := newrelic.StartExternalSegment(nil, req)
	segment.Procedure = segmentProcedure(req)

	ctx := req.Context()
	tags := commonTags(req)
	start := time.Now()

	outgoing := req
	if t.Extended {
		outgoing = withClientTrace(req, tags, start)
	}

	res, err := t.Transport.RoundTrip(outgoing)
	if err != nil {
		segment.AddAttribute("error", err.Error())
	} else if t.Extended {
		res.Body = &errorReadCloser{
			R: res.Body,
			OnErr: func(readErr error) {
				if errors.Is(readErr, io.EOF) {
					readErr = nil
				}
				recordResponse(ctx, tags, start, _httpResponseFullyReadTimingMetric, res, readErr)
			},
		}
	}
	segment.Response = res
	segment.End()

	recordResponse(ctx, tags, start, _httpRequestMetric, res, err)

	return res, err
}

func commonTags(req *http.Request) []string {
	tags := []string{"technology:go", "method:" + strings.ToLower(req.Method)}

	if targetID := tracing.TargetID(req.Context()); targetID != "" {
		tags = append(tags, "target_id:"+targetID)
	}

	return tags
}

func segmentProcedure(req *http.Request) string {
	ctx := req.Context()

	if tmpl := tracing.EndpointTemplate(ctx); tmpl != "" {
		return req.Method + " " + tmpl
	}

	if targetID := tracing.TargetID(ctx); targetID != "" {
		return req.Method + " " + targetID
	}

	return ""
}

func recordResponse(ctx context.Context, tags []string, start time.Time, metric string, res *http.Response, err error) {
	status, class := "error", "error"
	switch {
	case err == nil:
		status = strconv.Itoa(res.StatusCode)
		class = strconv.Itoa(res.StatusCode/100) + "xx"
	case os.IsTimeout(err):
		status = "timeout"
	}

	recordTimeSince(ctx, metric, start, withTags(tags, "status:"+status, "status_class:"+class))
}

// withClientTrace attaches an httptrace.ClientTrace reporting the duration of
// DNS lookup, TCP connect and TLS handshake when a new connection is dialed,
// followed by connection acquisition, request write and first response byte.
func withClientTrace(req *http.Request, tags []string, start time.Time) *http.Request {
	ctx := req.Context()

	var dnsStart, connectStart, tlsStart time.Time

	trace := &httptrace.ClientTrace{
		DNSStart:          func(httptrace.DNSStartInfo) { dnsStart = time.Now() },
		ConnectStart:      func(string, string) { connectStart = time.Now() },
		TLSHandshakeStart: func() { tlsStart = time.Now() },
		DNSDone: func(info httptrace.DNSDoneInfo) {
			recordTimeSince(ctx, _httpDNSTimingMetric, dnsStart, withTags(tags, statusTag(info.Err)))
		},
		ConnectDone: func(_, _ string, err error) {
			recordTimeSince(ctx, _httpTCPConnectTimingMetric, connectStart, withTags(tags, statusTag(err)))
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			recordTimeSince(ctx, _httpTLSHandshakeTimingMetric, tlsStart, withTags(tags, statusTag(err)))
		},
		GotConn: func(info httptrace.GotConnInfo) {
			recordTimeSince(ctx, _httpConnectionGotTimingMetric, start, withTags(tags,
				"reused:"+strconv.FormatBool(info.Reused),
				"was_idle:"+strconv.FormatBool(info.WasIdle)))
		},
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			recordTimeSince(ctx, _httpWroteRequestTimingMetric, start, withTags(tags, statusTag(info.Err)))
		},
		GotFirstResponseByte: func() {
			recordTimeSince(ctx, _httpGotFirstResponseByteTimingMetric, start, tags)
		},
	}

	return req.WithContext(httptrace.WithClientTrace(ctx, trace))
}

// withTags never appends into the backing array of tags, which is shared by
// concurrent trace callbacks.
func withTags(tags []string, extra ...string) []string {
	out := make([]string, 0, len(tags)+len(extra))
	return append(append(out, tags...), extra...)
}

func statusTag(err error) string {
	switch {
	case err == nil:
		return "status:ok"
	case os.IsTimeout(err):
		return "status:timeout"
	default:
		return "status:error"
	}
}

func recordTimeSince(ctx context.Context, metric string, start time.Time, tags []string) {
	if start.IsZero() {
		return
	}

	telemetry.Timing(ctx, metric, time.Since(start), tags)
}

// errorReadCloser calls OnErr with every error returned by Read, io.EOF
// included.
type errorReadCloser struct {
	R     io.ReadCloser
	OnErr func(error)
}

func (r *errorReadCloser) Read(p []byte) (int, error) {
	n, err := r.R.Read(p)
	if err != nil {
		r.OnErr(err)
	}
	return n, err
}

func (r *errorReadCloser) Close() error {
	return r.R.Close()
}
