package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luizaranda/go-apiwrapper/pkg/api"
	"github.com/luizaranda/go-apiwrapper/pkg/easy"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
)

type fakeAPI struct {
	root    string
	headers easy.HeaderList
}

func (f *fakeAPI) BaseHandle() *easy.Handle {
	return easy.NewHandle(easy.WithUserAgent("fake-api/1.0"))
}

func (f *fakeAPI) BaseHeaders() easy.HeaderList { return f.headers.Clone() }

func (f *fakeAPI) RootURL() string { return f.root }

func newFakeAPI(t *testing.T, root string) *fakeAPI {
	t.Helper()

	var headers easy.HeaderList
	require.NoError(t, easy.AddHeader(&headers, "X-Api-Key", "secret"))

	return &fakeAPI{root: root, headers: headers}
}

func TestRoute(t *testing.T) {
	a := newFakeAPI(t, "http://api.test/v1")

	tests := []struct {
		name   string
		route  string
		params map[string]string
		want   string
	}{
		{
			name:  "plain path",
			route: "/users",
			want:  "http://api.test/v1/users",
		},
		{
			name:   "path placeholder is path escaped",
			route:  "/users/{id}",
			params: map[string]string{"id": "a b/c"},
			want:   "http://api.test/v1/users/a%20b%2Fc",
		},
		{
			name:   "query placeholder is query escaped",
			route:  "/search?q={q}&page=2",
			params: map[string]string{"q": "go & http"},
			want:   "http://api.test/v1/search?q=go+%26+http&page=2",
		},
		{
			name:   "empty query value is allowed",
			route:  "/search?q={q}",
			params: map[string]string{"q": ""},
			want:   "http://api.test/v1/search?q=",
		},
		{
			name:  "query only",
			route: "?page=2",
			want:  "http://api.test/v1?page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := api.Route(a, tt.route, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoute_TrailingSlashRoot(t *testing.T) {
	got, err := api.Route(newFakeAPI(t, "http://api.test/v1/"), "/users", nil)

	require.NoError(t, err)
	assert.Equal(t, "http://api.test/v1/users", got)
}

func TestRoute_Errors(t *testing.T) {
	a := newFakeAPI(t, "http://api.test")

	_, err := api.Route(a, "/users/{id}", nil)
	assert.ErrorIs(t, err, api.ErrMissingParam)

	_, err = api.Route(a, "/users/{id}", map[string]string{"id": ""})
	assert.ErrorIs(t, err, api.ErrEmptyParam)

	_, err = api.Route(a, "/search?q={q}", map[string]string{})
	assert.ErrorIs(t, err, api.ErrMissingParam)

	_, err = api.Route(newFakeAPI(t, "http://[::1"), "/users", nil)
	assert.Error(t, err)
}

func TestBaseData(t *testing.T) {
	a := newFakeAPI(t, "http://api.test")

	h, headers := api.BaseData(a)

	require.NotNil(t, h)
	assert.Equal(t, easy.HeaderList{"X-Api-Key: secret"}, headers)
}

func TestRequest(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", chi.URLParam(r, "id"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "fake-api/1.0", r.UserAgent())
		_, _ = w.Write([]byte(`{"id":"42"}`))
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newFakeAPI(t, srv.URL+"/v1")

	ctx, h, err := api.Request(context.Background(), a, "/users/{id}", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/users/{id}", tracing.EndpointTemplate(ctx))
	assert.Equal(t, srv.URL+"/v1/users/42", h.URL())

	res, err := easy.Get(ctx, h)
	require.NoError(t, err)

	code, ok := res.Status.Code()
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":"42"}`, string(res.RawData))
}

func TestRequest_RouteError(t *testing.T) {
	a := newFakeAPI(t, "http://api.test")

	_, h, err := api.Request(context.Background(), a, "/users/{id}", nil)

	assert.ErrorIs(t, err, api.ErrMissingParam)
	assert.Nil(t, h)
}
