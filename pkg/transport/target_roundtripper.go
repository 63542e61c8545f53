package transport

import (
	"net/http"

	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
)

// TargetDecorator returns a RoundTripDecorator tagging requests with the
// given target id for telemetry purposes.
func TargetDecorator(targetID string) RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return &TargetRoundTripper{
			Transport: base,
			TargetID:  targetID,
		}
	}
}

// TargetRoundTripper tags every request it handles with TargetID, unless the
// request context already carries a target id.
type TargetRoundTripper struct {
	Transport http.RoundTripper
	TargetID  string
}

func (t *TargetRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if tracing.TargetID(req.Context()) == "" {
		req = req.WithContext(tracing.WithTargetID(req.Context(), t.TargetID))
	}
	return t.Transport.RoundTrip(req)
}
