package api

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/valyala/fasttemplate"
)

var (
	// ErrMissingParam is returned when a route placeholder has no value.
	ErrMissingParam = errors.New("api: missing route param")

	// ErrEmptyParam is returned when a path placeholder has an empty value.
	// Query placeholders may be empty.
	ErrEmptyParam = errors.New("api: empty route param")
)

type escapeMode int

const (
	noEscape escapeMode = iota
	pathEscape
	queryEscape
)

// Route joins the root URL of a with route and expands its {placeholders}
// with params, escaping values for the URL part they land in.
//
// route holds path segments optionally followed by a query string, or only
// a query string:
//
//	Route(a, "/users/{id}", map[string]string{"id": "42"})
//	Route(a, "/search?q={q}", map[string]string{"q": "go & http"})
//	Route(a, "?page=2", nil)
func Route(a API, route string, params map[string]string) (string, error) {
	return join(a.RootURL(), route, params)
}

func join(root, route string, params map[string]string) (string, error) {
	u, err := url.Parse(root)
	if err != nil {
		return "", fmt.Errorf("api: invalid root URL: %w", err)
	}

	routePath, query, hasQuery := strings.Cut(route, "?")
	if routePath != "" {
		u = u.JoinPath(routePath)
	}
	if hasQuery {
		u.RawQuery = query
	}

	path, err := expand(u.Path, params, noEscape)
	if err != nil {
		return "", err
	}

	rawPath, err := expand(u.Path, params, pathEscape)
	if err != nil {
		return "", err
	}

	rawQuery, err := expand(u.RawQuery, params, queryEscape)
	if err != nil {
		return "", err
	}

	u.Path, u.RawPath, u.RawQuery = path, rawPath, rawQuery

	return u.String(), nil
}

func expand(template string, params map[string]string, mode escapeMode) (string, error) {
	return fasttemplate.ExecuteFuncStringWithErr(template, "{", "}", func(w io.Writer, tag string) (int, error) {
		v, ok := params[tag]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingParam, tag)
		}

		switch mode {
		case queryEscape:
			v = url.QueryEscape(v)
		case pathEscape:
			if v == "" {
				return 0, fmt.Errorf("%w: %q", ErrEmptyParam, tag)
			}
			v = url.PathEscape(v)
		}

		return io.WriteString(w, v)
	})
}
