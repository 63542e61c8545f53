// Package tracing carries request scoped tracing attributes through a
// context: the target id used to tag client metrics, the endpoint template
// naming a route and the headers forwarded to downstream services.
package tracing

import (
	"context"
	"net/http"
)

type targetIDCtxKey struct{}

// WithTargetID sets targetID in ctx.
func WithTargetID(ctx context.Context, targetID string) context.Context {
	return context.WithValue(ctx, targetIDCtxKey{}, targetID)
}

// TargetID returns the target id set with WithTargetID, or "".
func TargetID(ctx context.Context) string {
	value, _ := ctx.Value(targetIDCtxKey{}).(string)
	return value
}

type endpointTemplateKey struct{}

// WithEndpointTemplate sets the route template, such as "/users/{id}", of
// the request about to be made.
func WithEndpointTemplate(ctx context.Context, endpointTemplate string) context.Context {
	return context.WithValue(ctx, endpointTemplateKey{}, endpointTemplate)
}

// EndpointTemplate returns the template set with WithEndpointTemplate, or "".
func EndpointTemplate(ctx context.Context) string {
	value, _ := ctx.Value(endpointTemplateKey{}).(string)
	return value
}

type forwardedHeadersKey struct{}

// WithForwardedHeaders sets the headers that outgoing requests made with ctx
// must carry, merging them with any set before. Later values win.
func WithForwardedHeaders(ctx context.Context, headers http.Header) context.Context {
	merged := ForwardedHeaders(ctx).Clone()
	if merged == nil {
		merged = http.Header{}
	}

	for key, values := range headers {
		merged[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	return context.WithValue(ctx, forwardedHeadersKey{}, merged)
}

// ForwardedHeaders returns the headers set with WithForwardedHeaders. The
// returned header must not be modified.
func ForwardedHeaders(ctx context.Context) http.Header {
	value, _ := ctx.Value(forwardedHeadersKey{}).(http.Header)
	return value
}
