package httpclient

import (
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/luizaranda/go-apiwrapper/pkg/telemetry"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
	"github.com/luizaranda/go-apiwrapper/pkg/transport"
)

const _forwardedHeaderDiffMetric = "apiwrapper.http.client.forwarded_header.diff"

// DefaultTimeout bounds a whole request made by a client built without
// WithTimeout or DisableTimeout.
var DefaultTimeout = 3 * time.Second

var _sharedPool = transport.NewPooled("apiwrapper-default")

// DefaultTransport returns the pool shared by every client built without
// WithTransport.
func DefaultTransport() *transport.PooledTransport {
	return _sharedPool
}

// NoRedirect is a http.Client.CheckRedirect returning the redirect response
// itself.
func NoRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

type settings struct {
	timeout       time.Duration
	checkRedirect func(*http.Request, []*http.Request) error
	pool          *transport.PooledTransport
	reqHooks      []transport.RequestHook
	resHooks      []transport.ResponseHook
	targetID      string
	userAgent     string
	clientTrace   bool
}

// Option configures New.
type Option func(*settings)

// WithTransport sends requests through pool. A plain *http.Transport can be
// wrapped with transport.NewPooledFromTransport.
func WithTransport(pool *transport.PooledTransport) Option {
	return func(s *settings) { s.pool = pool }
}

// WithTimeout bounds each request, zero meaning no bound. Negative values
// are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// DisableTimeout leaves requests bounded only by their context and the
// transport dial and TLS timeouts.
func DisableTimeout() Option { return WithTimeout(0) }

// FollowRedirects makes the client follow up to 10 redirects. Without it the
// redirect response is returned as is.
func FollowRedirects(follow bool) Option {
	return func(s *settings) {
		s.checkRedirect = NoRedirect
		if follow {
			s.checkRedirect = nil
		}
	}
}

// WithRequestHook runs hooks before each request is sent.
func WithRequestHook(hooks ...transport.RequestHook) Option {
	return func(s *settings) { s.reqHooks = append(s.reqHooks, hooks...) }
}

// WithResponseHook runs hooks on each response received.
func WithResponseHook(hooks ...transport.ResponseHook) Option {
	return func(s *settings) { s.resHooks = append(s.resHooks, hooks...) }
}

// WithTargetID tags requests whose context has no target id.
func WithTargetID(targetID string) Option {
	return func(s *settings) { s.targetID = targetID }
}

// WithUserAgent sets the User-Agent of requests that carry none.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithEnableClientTrace records connection level metrics (DNS, connect, TLS,
// first byte) for every request.
func WithEnableClientTrace() Option {
	return func(s *settings) { s.clientTrace = true }
}

// New returns a client that records telemetry for every request and does not
// follow redirects unless told to.
func New(opts ...Option) *http.Client {
	s := settings{
		timeout:       DefaultTimeout,
		checkRedirect: NoRedirect,
		pool:          DefaultTransport(),
		reqHooks:      []transport.RequestHook{ForwardTracingHeadersRequestHook},
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &http.Client{
		Timeout:       s.timeout,
		CheckRedirect: s.checkRedirect,
		Transport:     s.chain().Apply(s.pool),
	}
}

// chain lists the decorators outermost first. The OpenTelemetry decorator
// sits next to the pool so its span covers only the wire exchange.
func (s *settings) chain() transport.RoundTripChain {
	chain := transport.RoundTripChain{transport.UserAgentDecorator(s.userAgent)}

	if s.targetID != "" {
		chain = append(chain, transport.TargetDecorator(s.targetID))
	}

	chain = append(chain, transport.HookDecorator(s.reqHooks, s.resHooks))

	if s.clientTrace {
		chain = append(chain, transport.ExtendedTraceDecorator())
	} else {
		chain = append(chain, transport.TraceDecorator())
	}

	return append(chain, transport.OpenTelemetryDecorator())
}

// ForwardTracingHeadersRequestHook copies the headers stored with
// tracing.WithForwardedHeaders into req. Headers the caller already set are
// kept, and a differing value is counted as a metric.
func ForwardTracingHeadersRequestHook(req *http.Request) error {
	ctx := req.Context()

	for name, values := range tracing.ForwardedHeaders(ctx) {
		if len(values) == 0 {
			continue
		}

		key := textproto.CanonicalMIMEHeaderKey(name)
		if current := req.Header[key]; len(current) > 0 {
			if current[0] != values[0] {
				telemetry.Incr(ctx, _forwardedHeaderDiffMetric, telemetry.Tags(
					"header", strings.ToLower(key),
					"target_id", telemetry.SanitizeMetricTagValue(tracing.TargetID(ctx)),
				))
			}
			continue
		}

		req.Header[key] = append([]string(nil), values...)
	}

	return nil
}
