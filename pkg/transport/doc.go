/*
Package transport contains the http.RoundTripper building blocks the
requesters of package httpclient are made of.

Each concern (user agent, hooks, target tagging, telemetry, OpenTelemetry)
is a RoundTripDecorator. A RoundTripChain applies them, outermost first, on
top of a PooledTransport.
*/
package transport
