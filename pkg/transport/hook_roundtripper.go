package transport

import (
	"net/http"
)

// HookDecorator returns a RoundTripDecorator running req hooks before and res
// hooks after every round trip.
func HookDecorator(req []RequestHook, res []ResponseHook) RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return &HookRoundTripper{
			Transport:    base,
			RequestHook:  req,
			ResponseHook: res,
		}
	}
}

// RequestHook runs before a request is sent. Returning an error aborts the
// request, the error being returned to the caller as a transport failure.
//
// Only the request context and headers may be modified.
type RequestHook func(*http.Request) error

// ResponseHook runs after every round trip, err being the round trip error if
// any.
//
// Reading or closing the response body from a hook affects the body the
// caller receives.
type ResponseHook func(*http.Request, *http.Response, error)

// A HookRoundTripper is an http.RoundTripper calling hooks around each
// round trip of Transport.
type HookRoundTripper struct {
	Transport    http.RoundTripper
	RequestHook  []RequestHook
	ResponseHook []ResponseHook
}

// RoundTrip executes a single HTTP transaction, returning
// a Response for the provided Request.
func (t *HookRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// Hooks run in the order they were given, the first failure stops the
	// request.
	for _, hook := range t.RequestHook {
		if err := hook(req); err != nil {
			return nil, err
		}
	}

	res, err := t.Transport.RoundTrip(req)

	for _, hook := range t.ResponseHook {
		hook(req, res, err)
	}

	return res, err
}
