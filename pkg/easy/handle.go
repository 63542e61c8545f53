package easy

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/luizaranda/go-apiwrapper/pkg/response"
	"github.com/luizaranda/go-apiwrapper/pkg/transport/httpclient"
	otelmetric "go.opentelemetry.io/otel/metric"
	"golang.org/x/net/http/httpguts"
)

var _defaultRequester Requester = httpclient.New(httpclient.DisableTimeout())

// Requester performs the HTTP round trip of a Handle. *http.Client and the
// clients built by package httpclient satisfy it, as can a mock in tests.
type Requester interface {
	Do(*http.Request) (*http.Response, error)
}

// Handle describes one configurable and executable HTTP request.
//
// Its zero value is not usable, create handles with NewHandle.
type Handle struct {
	url           *url.URL
	method        string
	customRequest string
	headers       HeaderList
	body          []byte
	form          *Form
	userAgent     string
	timeout       time.Duration
	writeFunc     WriteFunc

	basicAuth bool
	username  string
	password  string

	requester     Requester
	meterProvider otelmetric.MeterProvider
	status        response.Status
}

// Option configures a Handle at creation.
type Option func(h *Handle)

// WithRequester sets the Requester executing the handle transfers.
//
// Default is a client built with httpclient.New with its timeout disabled.
func WithRequester(r Requester) Option {
	return func(h *Handle) {
		h.requester = r
	}
}

// WithMeterProvider sets where transfer durations are recorded. Default is
// the global OpenTelemetry meter provider.
func WithMeterProvider(mp otelmetric.MeterProvider) Option {
	return func(h *Handle) {
		h.meterProvider = mp
	}
}

// WithTimeout sets the handle timeout, see Handle.SetTimeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Handle) {
		h.SetTimeout(d)
	}
}

// WithUserAgent sets the User-Agent sent by the handle.
func WithUserAgent(ua string) Option {
	return func(h *Handle) {
		h.userAgent = ua
	}
}

// NewHandle returns a GET handle with no URL.
func NewHandle(opts ...Option) *Handle {
	h := &Handle{
		method:    http.MethodGet,
		requester: _defaultRequester,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Clone returns a copy of h that can be configured independently. The form,
// if any, is shared.
func (h *Handle) Clone() *Handle {
	c := *h
	if h.url != nil {
		u := *h.url
		c.url = &u
	}
	c.headers = h.headers.Clone()
	c.status = response.StatusUnknown
	return &c
}

// SetURL sets the URL to request. It must be an absolute URL as defined by
// url.ParseRequestURI.
func (h *Handle) SetURL(rawURL string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return err
	}

	h.url = u
	return nil
}

// URL returns the URL to request, or an empty string if none was set.
func (h *Handle) URL() string {
	if h.url == nil {
		return ""
	}
	return h.url.String()
}

// SetPost switches the handle to POST. Passing false reverts it to GET.
func (h *Handle) SetPost(post bool) {
	h.setMethod(http.MethodPost, post)
}

// SetPut switches the handle to PUT. Passing false reverts it to GET.
func (h *Handle) SetPut(put bool) {
	h.setMethod(http.MethodPut, put)
}

func (h *Handle) setMethod(method string, on bool) {
	switch {
	case on:
		h.method = method
	case h.method == method:
		h.method = http.MethodGet
	}
}

// SetCustomRequest overrides the verb sent on the request line, keeping the
// rest of the configuration (payload included) untouched. An empty verb
// removes the override.
func (h *Handle) SetCustomRequest(verb string) error {
	if verb != "" && !httpguts.ValidHeaderFieldName(verb) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, verb)
	}

	h.customRequest = verb
	return nil
}

// Method returns the verb the next execution will send.
func (h *Handle) Method() string {
	if h.customRequest != "" {
		return h.customRequest
	}
	return h.method
}

// SetHTTPHeaders replaces the headers sent with the request.
func (h *Handle) SetHTTPHeaders(list HeaderList) {
	h.headers = list.Clone()
}

// Headers returns a copy of the headers sent with the request.
func (h *Handle) Headers() HeaderList { return h.headers.Clone() }

// SetBody sets the payload uploaded by POST and PUT requests. A nil body
// sends no payload.
func (h *Handle) SetBody(body []byte) {
	h.body = body
}

// SetForm sets the multipart form sent by POST requests. A form takes
// precedence over any body set with SetBody. A nil form removes it.
func (h *Handle) SetForm(form *Form) {
	h.form = form
}

// SetTimeout bounds the time a whole transfer may take. Zero, the default,
// means the transfer is only bounded by the context given to the executor.
// Negative values are ignored.
func (h *Handle) SetTimeout(d time.Duration) {
	if d >= 0 {
		h.timeout = d
	}
}

// SetUserAgent sets the User-Agent header value.
func (h *Handle) SetUserAgent(ua string) { h.userAgent = ua }

// SetWriteFunction registers fn to observe every chunk of the response body
// as it is received, before it is accumulated. Returning less than the chunk
// length aborts the transfer.
func (h *Handle) SetWriteFunction(fn WriteFunc) { h.writeFunc = fn }

// ResponseCode returns the status received by the last transfer,
// response.StatusUnknown if there was none or it failed before receiving
// headers.
func (h *Handle) ResponseCode() response.Status { return h.status }
