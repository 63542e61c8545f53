package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})
	r.Get("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":42,"name":"gopher"}`)
	})
	r.Get("/agent", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.UserAgent())
	})
	r.Get("/auth", func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		_, _ = io.WriteString(w, user+"/"+pass)
	})
	r.Get("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hello", http.StatusFound)
	})
	r.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.Method+" "+r.Header.Get("X-Trace")+" ")
		_, _ = io.Copy(w, r.Body)
	})
	r.Post("/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, fh, err := r.FormFile("doc")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, r.FormValue("name")+" "+fh.Filename+" "+fh.Header.Get("Content-Type"))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// execute runs the command with args and returns its stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	color.NoColor = true

	envFile := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o600))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--env-file", envFile}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRun_Get(t *testing.T) {
	srv := newServer(t)

	stdout, stderr, err := execute(t, srv.URL+"/hello")

	require.NoError(t, err)
	assert.Equal(t, "hello", stdout)
	assert.Contains(t, stderr, "HTTP 200 OK")
}

func TestRun_PostData(t *testing.T) {
	srv := newServer(t)

	stdout, _, err := execute(t, "-d", "payload", "-H", "X-Trace: t-1", srv.URL+"/echo")

	require.NoError(t, err)
	assert.Equal(t, "POST t-1 payload", stdout)
}

func TestRun_PutDataFromFile(t *testing.T) {
	srv := newServer(t)

	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	stdout, _, err := execute(t, "-X", "put", "-d", "@"+path, srv.URL+"/echo")

	require.NoError(t, err)
	assert.Equal(t, `PUT  {"a":1}`, stdout)
}

func TestRun_DeleteAndCustomVerb(t *testing.T) {
	srv := newServer(t)

	stdout, _, err := execute(t, "-X", "DELETE", srv.URL+"/echo")
	require.NoError(t, err)
	assert.Equal(t, "DELETE  ", stdout)

	stdout, _, err = execute(t, "-X", "PATCH", "-d", "patch", srv.URL+"/echo")
	require.NoError(t, err)
	assert.Equal(t, "PATCH  patch", stdout)
}

func TestRun_Form(t *testing.T) {
	srv := newServer(t)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	stdout, _, err := execute(t, "-F", "name=gopher", "-F", "doc=@"+path, srv.URL+"/upload")

	require.NoError(t, err)
	assert.Equal(t, "gopher report.pdf application/pdf", stdout)
}

func TestRun_BasicAuth(t *testing.T) {
	srv := newServer(t)

	stdout, _, err := execute(t, "-u", "alice:pa:ss", srv.URL+"/auth")

	require.NoError(t, err)
	assert.Equal(t, "alice/pa:ss", stdout)
}

func TestRun_JSON(t *testing.T) {
	srv := newServer(t)

	stdout, _, err := execute(t, "--json", srv.URL+"/json")
	require.NoError(t, err)

	var doc struct {
		Status *int           `json:"status"`
		Body   map[string]any `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.NotNil(t, doc.Status)
	assert.Equal(t, http.StatusOK, *doc.Status)
	assert.Equal(t, "gopher", doc.Body["name"])

	stdout, _, err = execute(t, "--json", srv.URL+"/hello")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200,"body":"hello"}`, stdout)
}

func TestRun_Redirects(t *testing.T) {
	srv := newServer(t)

	_, stderr, err := execute(t, srv.URL+"/redirect")
	require.NoError(t, err)
	assert.Contains(t, stderr, "HTTP 302 Found")

	stdout, _, err := execute(t, "-L", srv.URL+"/redirect")
	require.NoError(t, err)
	assert.Equal(t, "hello", stdout)
}

func TestRun_UserAgentFromEnvironment(t *testing.T) {
	srv := newServer(t)
	t.Setenv("APIWRAP_USER_AGENT", "from-env/1.0")

	stdout, _, err := execute(t, srv.URL+"/agent")
	require.NoError(t, err)
	assert.Equal(t, "from-env/1.0", stdout)

	stdout, _, err = execute(t, "-A", "from-flag/2.0", srv.URL+"/agent")
	require.NoError(t, err)
	assert.Equal(t, "from-flag/2.0", stdout)
}

func TestRun_ConfigFile(t *testing.T) {
	srv := newServer(t)

	path := filepath.Join(t.TempDir(), "apiwrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_agent: from-file/3.0\nlog_level: error\n"), 0o600))

	stdout, _, err := execute(t, "--config", path, srv.URL+"/agent")

	require.NoError(t, err)
	assert.Equal(t, "from-file/3.0", stdout)
}

func TestRun_EnvFile(t *testing.T) {
	srv := newServer(t)

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("APIWRAP_USER_AGENT=from-dotenv/4.0\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("APIWRAP_USER_AGENT") })

	stdout, _, err := execute(t, "--env-file", path, srv.URL+"/agent")

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv/4.0", stdout)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "http://api.test/")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRun_TransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	stdout, _, err := execute(t, "http://"+addr+"/")

	require.Error(t, err)
	assert.Empty(t, stdout)
}

func TestRun_RejectsInvalidRequests(t *testing.T) {
	srv := newServer(t)

	_, _, err := execute(t, "-X", "GET", "-d", "body", srv.URL+"/echo")
	assert.ErrorIs(t, err, errBodyWithGet)

	_, _, err = execute(t, "-X", "PUT", "-F", "a=b", srv.URL+"/echo")
	assert.ErrorIs(t, err, errFormNeedsPost)

	_, _, err = execute(t, "-H", "no colon", srv.URL+"/echo")
	assert.Error(t, err)

	_, _, err = execute(t, "not a url")
	assert.Error(t, err)
}

func TestParseHeaders(t *testing.T) {
	list, err := parseHeaders([]string{"Accept: application/json", "X-Empty:", "X-Spaces:   padded  "})

	require.NoError(t, err)
	assert.Equal(t, []string{"Accept: application/json", "X-Empty: ", "X-Spaces: padded"}, []string(list))

	_, err = parseHeaders([]string{"Bad Key: v"})
	assert.Error(t, err)
}

func TestParseForm(t *testing.T) {
	form, err := parseForm(nil)
	require.NoError(t, err)
	assert.Nil(t, form)

	form, err = parseForm([]string{"a=1", "b=", "c=@/tmp/file.png", "d=x=y"})
	require.NoError(t, err)

	parts := form.Parts()
	require.Len(t, parts, 4)
	assert.Equal(t, "1", string(parts[0].Contents))
	assert.Empty(t, parts[1].Contents)
	assert.Equal(t, "/tmp/file.png", parts[2].FilePath)
	assert.Equal(t, "image/png", parts[2].ContentType)
	assert.Equal(t, "x=y", string(parts[3].Contents))

	_, err = parseForm([]string{"novalue"})
	assert.Error(t, err)
}

func TestReadData(t *testing.T) {
	data, err := readData("")
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = readData("inline")
	require.NoError(t, err)
	assert.Equal(t, []byte("inline"), data)

	_, err = readData("@" + filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
