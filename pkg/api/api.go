// Package api describes a remote HTTP API to the executors of package easy.
//
// A service wrapper implements API once and derives every route call from
// it:
//
//	func (c *Client) User(ctx context.Context, id string) (*response.BinaryObjectResponse[User], error) {
//		ctx, h, err := api.Request(ctx, c, "/users/{id}", map[string]string{"id": id})
//		if err != nil {
//			return nil, err
//		}
//		res, err := easy.Get(ctx, h)
//		if err != nil {
//			return nil, err
//		}
//		return response.DecodeJSON[User](res), nil
//	}
package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/luizaranda/go-apiwrapper/pkg/easy"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
)

// API is the capability descriptor of a remote service.
type API interface {
	// BaseHandle returns a handle preconfigured for every route. Each call
	// must return a handle the caller may mutate freely.
	BaseHandle() *easy.Handle

	// BaseHeaders returns the headers sent on every route.
	BaseHeaders() easy.HeaderList

	// RootURL returns the URL every route is relative to.
	RootURL() string
}

// BaseData returns the base handle and headers of a.
func BaseData(a API) (*easy.Handle, easy.HeaderList) {
	return a.BaseHandle(), a.BaseHeaders()
}

// Request prepares the handle for route: the base handle of a pointed at the
// expanded route URL and carrying the base headers. The returned context
// names the route template in traces and metrics.
func Request(ctx context.Context, a API, route string, params map[string]string) (context.Context, *easy.Handle, error) {
	rawURL, err := Route(a, route, params)
	if err != nil {
		return ctx, nil, err
	}

	h, headers := BaseData(a)
	if h == nil {
		h = easy.NewHandle()
	}

	if err := h.SetURL(rawURL); err != nil {
		return ctx, nil, fmt.Errorf("api: %w", err)
	}
	h.SetHTTPHeaders(headers)

	template, _, _ := strings.Cut(route, "?")

	return tracing.WithEndpointTemplate(ctx, template), h, nil
}
