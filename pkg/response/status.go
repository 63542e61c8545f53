package response

import (
	"net/http"
	"strconv"
)

// Status is the HTTP status code of a response, if the transport was able to
// determine one.
//
// The zero value is StatusUnknown, which distinguishes a response that was
// never executed, or whose code could not be retrieved, from any real code.
type Status int

// StatusUnknown is the absent status.
const StatusUnknown Status = 0

// StatusFromCode returns the Status for the given code. Codes outside the
// three digit range are reported as StatusUnknown.
func StatusFromCode(code int) Status {
	if code < 100 || code > 999 {
		return StatusUnknown
	}
	return Status(code)
}

// Known reports whether the status holds an actual HTTP code.
func (s Status) Known() bool { return s != StatusUnknown }

// Code returns the numeric HTTP code and whether it is present.
func (s Status) Code() (int, bool) {
	return int(s), s.Known()
}

// IsSuccess reports whether the status is a known 2xx code.
func (s Status) IsSuccess() bool { return s >= 200 && s < 300 }

// IsClientError reports whether the status is a known 4xx code.
func (s Status) IsClientError() bool { return s >= 400 && s < 500 }

// IsServerError reports whether the status is a known 5xx code.
func (s Status) IsServerError() bool { return s >= 500 && s < 600 }

// String returns the code followed by its reason phrase, e.g. "404 Not Found",
// or "unknown" when absent.
func (s Status) String() string {
	if !s.Known() {
		return "unknown"
	}

	code := strconv.Itoa(int(s))
	if text := http.StatusText(int(s)); text != "" {
		return code + " " + text
	}
	return code
}
