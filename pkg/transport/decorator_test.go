package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luizaranda/go-apiwrapper/pkg/telemetry"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
	"github.com/luizaranda/go-apiwrapper/pkg/transport"
)

func okResponse(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("ok")),
		Request:    req,
	}
}

func TestRoundTripChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) transport.RoundTripDecorator {
		return func(base http.RoundTripper) http.RoundTripper {
			return transport.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return base.RoundTrip(req)
			})
		}
	}

	rt := transport.RoundTripChain{mark("outer"), mark("inner")}.Apply(
		transport.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			order = append(order, "base")
			return okResponse(req), nil
		}))

	req := httptest.NewRequest(http.MethodGet, "http://api.test/", nil)
	_, err := rt.RoundTrip(req)

	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "base"}, order)
}

func TestUserAgentDecorator(t *testing.T) {
	var got string
	base := transport.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		got = req.UserAgent()
		return okResponse(req), nil
	})

	rt := transport.UserAgentDecorator("wrapper/1.0")(base)

	req := httptest.NewRequest(http.MethodGet, "http://api.test/", nil)
	req.Header.Del("User-Agent")
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "wrapper/1.0", got)
	assert.Empty(t, req.UserAgent(), "caller request must not be modified")

	req.Header.Set("User-Agent", "caller/2.0")
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "caller/2.0", got)

	req.Header.Del("User-Agent")
	_, err = transport.UserAgentDecorator("")(base).RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, transport.DefaultUserAgent, got)
}

func TestHookDecorator(t *testing.T) {
	var seenStatus int
	reqHook := func(req *http.Request) error {
		req.Header.Set("X-Hooked", "yes")
		return nil
	}
	resHook := func(req *http.Request, res *http.Response, err error) {
		if err == nil {
			seenStatus = res.StatusCode
		}
	}

	var hooked string
	base := transport.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		hooked = req.Header.Get("X-Hooked")
		return okResponse(req), nil
	})

	rt := transport.HookDecorator([]transport.RequestHook{reqHook}, []transport.ResponseHook{resHook})(base)

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.test/", nil))

	require.NoError(t, err)
	assert.Equal(t, "yes", hooked)
	assert.Equal(t, http.StatusOK, seenStatus)
}

func TestHookDecorator_RequestHookAborts(t *testing.T) {
	denied := errors.New("denied")
	called := false

	rt := transport.HookDecorator([]transport.RequestHook{
		func(*http.Request) error { return denied },
	}, nil)(transport.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		called = true
		return okResponse(req), nil
	}))

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.test/", nil))

	assert.ErrorIs(t, err, denied)
	assert.False(t, called)
}

func TestTargetDecorator(t *testing.T) {
	var got string
	rt := transport.TargetDecorator("users-api")(transport.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		got = tracing.TargetID(req.Context())
		return okResponse(req), nil
	}))

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.test/", nil))
	require.NoError(t, err)
	assert.Equal(t, "users-api", got)

	req := httptest.NewRequest(http.MethodGet, "http://api.test/", nil)
	req = req.WithContext(tracing.WithTargetID(context.Background(), "explicit"))
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "explicit", got)
}

func TestTraceDecorators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "traced")
	}))
	defer srv.Close()

	for name, decorator := range map[string]transport.RoundTripDecorator{
		"basic":    transport.TraceDecorator(),
		"extended": transport.ExtendedTraceDecorator(),
	} {
		t.Run(name, func(t *testing.T) {
			client := &http.Client{Transport: decorator(http.DefaultTransport)}

			res, err := client.Get(srv.URL)
			require.NoError(t, err)
			defer res.Body.Close()

			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.Equal(t, "traced", string(body))
		})
	}
}

func TestPooledTransport_Stats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	pool := transport.NewPooled("stats-test")
	client := &http.Client{Transport: pool}

	res, err := client.Get(srv.URL)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, res.Body)
	require.NoError(t, res.Body.Close())

	stats := pool.Stats()
	assert.Equal(t, int64(1), stats["tcp:"+srv.Listener.Addr().String()])

	pool.CloseIdleConnections()
	assert.Eventually(t, func() bool {
		return pool.Stats()["tcp:"+srv.Listener.Addr().String()] == 0
	}, time.Second, 10*time.Millisecond)
}

type gaugeRecorder struct {
	telemetry.Client

	gauges map[string]float64
}

func (g *gaugeRecorder) Gauge(name string, value float64, tags []string) {
	g.gauges[name+" "+strings.Join(tags, ",")] = value
}

func TestPooledTransport_ReportStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	pool := transport.NewPooled("report-test")
	defer pool.CloseIdleConnections()

	res, err := (&http.Client{Transport: pool}).Get(srv.URL)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())

	rec := &gaugeRecorder{Client: telemetry.NewNoOpClient(), gauges: map[string]float64{}}
	pool.ReportStats(telemetry.Context(context.Background(), rec))

	key := "apiwrapper.http.client.conn_pool pool:report-test,address:tcp:" + srv.Listener.Addr().String()
	assert.Equal(t, map[string]float64{key: 1}, rec.gauges)
}
