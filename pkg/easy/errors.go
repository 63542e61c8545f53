package easy

import "errors"

var (
	// ErrMissingURL is returned when executing a handle with no URL set.
	ErrMissingURL = errors.New("easy: handle has no url")

	// ErrInvalidMethod is returned by SetCustomRequest when the verb is not a
	// valid HTTP method token.
	ErrInvalidMethod = errors.New("easy: invalid request method")

	// ErrInvalidHeader is returned by AddHeader when the key or the value is
	// not acceptable in an HTTP header.
	ErrInvalidHeader = errors.New("easy: invalid header")

	// ErrInvalidFormKey is returned by the form builders when the part name
	// cannot be encoded.
	ErrInvalidFormKey = errors.New("easy: invalid form key")

	// ErrInvalidCredentials is returned by ApplyBasicAuth when the credentials
	// cannot be encoded in a basic Authorization header.
	ErrInvalidCredentials = errors.New("easy: invalid credentials")

	// ErrWriteAborted is returned when a write callback consumed less than the
	// whole chunk it was given.
	ErrWriteAborted = errors.New("easy: transfer aborted by write callback")
)
