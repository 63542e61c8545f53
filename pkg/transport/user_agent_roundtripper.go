package transport

import (
	"net/http"

	"github.com/luizaranda/go-apiwrapper/pkg/internal"
)

// DefaultUserAgent is sent by UserAgentRoundTripper when it is given none.
var DefaultUserAgent = "apiwrapper-go/" + internal.Version

// UserAgentDecorator returns a RoundTripDecorator that sets ua as User-Agent
// on requests carrying none. An empty ua means DefaultUserAgent.
func UserAgentDecorator(ua string) RoundTripDecorator {
	if ua == "" {
		ua = DefaultUserAgent
	}

	return func(base http.RoundTripper) http.RoundTripper {
		return &UserAgentRoundTripper{Transport: base, UserAgent: ua}
	}
}

// UserAgentRoundTripper is a http.RoundTripper that sets a default User-Agent
// header only if the request does not provide one.
type UserAgentRoundTripper struct {
	Transport http.RoundTripper
	UserAgent string
}

// RoundTrip executes a single HTTP transaction, returning
// a Response for the provided Request.
func (ua *UserAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.UserAgent() == "" {
		// RoundTrippers must not modify the given request.
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", ua.UserAgent)
	}

	return ua.Transport.RoundTrip(req)
}
