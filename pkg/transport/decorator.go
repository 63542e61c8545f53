package transport

import (
	"net/http"
)

// RoundTripDecorator wraps a RoundTripper into another one.
type RoundTripDecorator func(http.RoundTripper) http.RoundTripper

// RoundTripChain is an ordered collection of RoundTripDecorator. The first
// decorator is the outermost one, it sees the request first.
type RoundTripChain []RoundTripDecorator

// Apply wraps base with every decorator of the chain.
func (c RoundTripChain) Apply(base http.RoundTripper) http.RoundTripper {
	for i := len(c) - 1; i >= 0; i-- {
		base = c[i](base)
	}
	return base
}

// RoundTripFunc adapts a function to the http.RoundTripper interface.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
