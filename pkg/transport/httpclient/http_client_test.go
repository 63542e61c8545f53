package httpclient_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
	"github.com/luizaranda/go-apiwrapper/pkg/transport/httpclient"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/target", http.StatusFound)
	})
	r.Get("/target", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "target")
	})
	r.Get("/headers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Agent", r.UserAgent())
		w.Header().Set("X-Seen-Request-Id", r.Header.Get("X-Request-Id"))
	})
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_DoesNotFollowRedirects(t *testing.T) {
	srv := newServer(t)

	res, err := httpclient.New().Get(srv.URL + "/redirect")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/target", res.Header.Get("Location"))
}

func TestNew_FollowRedirects(t *testing.T) {
	srv := newServer(t)

	res, err := httpclient.New(httpclient.FollowRedirects(true)).Get(srv.URL + "/redirect")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "target", string(body))
}

func TestNew_Timeout(t *testing.T) {
	srv := newServer(t)

	_, err := httpclient.New(httpclient.WithTimeout(50 * time.Millisecond)).Get(srv.URL + "/slow")

	require.Error(t, err)
	var timeout interface{ Timeout() bool }
	require.True(t, errors.As(err, &timeout))
	assert.True(t, timeout.Timeout())
}

func TestNew_DisableTimeout(t *testing.T) {
	assert.Zero(t, httpclient.New(httpclient.DisableTimeout()).Timeout)
	assert.Equal(t, httpclient.DefaultTimeout, httpclient.New().Timeout)
	assert.Equal(t, httpclient.DefaultTimeout, httpclient.New(httpclient.WithTimeout(-time.Second)).Timeout)
}

func TestNew_UserAgentAndForwardedHeaders(t *testing.T) {
	srv := newServer(t)
	client := httpclient.New(httpclient.WithUserAgent("wrapper-test/1.0"))

	ctx := tracing.WithForwardedHeaders(context.Background(), http.Header{"X-Request-Id": {"req-1"}})
	req, err := httpclient.NewRequest(ctx, http.MethodGet, srv.URL+"/headers", nil)
	require.NoError(t, err)

	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "wrapper-test/1.0", res.Header.Get("X-Seen-Agent"))
	assert.Equal(t, "req-1", res.Header.Get("X-Seen-Request-Id"))
}

func TestNew_ForwardedHeadersKeepCallerValue(t *testing.T) {
	srv := newServer(t)

	ctx := tracing.WithForwardedHeaders(context.Background(), http.Header{"X-Request-Id": {"from-context"}})
	req, err := httpclient.NewRequest(ctx, http.MethodGet, srv.URL+"/headers", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "from-caller")

	res, err := httpclient.New().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "from-caller", res.Header.Get("X-Seen-Request-Id"))
}

func TestNew_RequestHookError(t *testing.T) {
	srv := newServer(t)
	denied := errors.New("denied")

	client := httpclient.New(httpclient.WithRequestHook(func(*http.Request) error { return denied }))

	_, err := client.Get(srv.URL + "/target")

	assert.ErrorIs(t, err, denied)
}

func TestNewRequest_Bodies(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		length int64
		want   string
	}{
		{"nil", nil, 0, ""},
		{"bytes", []byte("abc"), 3, "abc"},
		{"empty bytes", []byte{}, 0, ""},
		{"buffer", bytes.NewBufferString("buffer"), 6, "buffer"},
		{"bytes reader", bytes.NewReader([]byte("reader")), 6, "reader"},
		{"plain reader", strings.NewReader("plain"), 5, "plain"},
		{"reader func", httpclient.ReaderFunc(func() (io.Reader, error) {
			return bytes.NewReader([]byte("func")), nil
		}), 4, "func"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := httpclient.NewRequest(context.Background(), http.MethodPost, "http://api.test/", tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.length, req.ContentLength)

			if tt.body == nil {
				return
			}

			first, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(first))

			replay, err := req.GetBody()
			require.NoError(t, err)
			again, err := io.ReadAll(replay)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(again))
		})
	}
}

func TestNewRequest_UnknownLengthReaderFunc(t *testing.T) {
	body := httpclient.ReaderFunc(func() (io.Reader, error) {
		return io.LimitReader(strings.NewReader("streamed"), 100), nil
	})

	req, err := httpclient.NewRequest(context.Background(), http.MethodPut, "http://api.test/", body)

	require.NoError(t, err)
	assert.Equal(t, int64(-1), req.ContentLength)
}

func TestNewRequest_UnsupportedBody(t *testing.T) {
	_, err := httpclient.NewRequest(context.Background(), http.MethodPost, "http://api.test/", 42)

	assert.Error(t, err)
}
