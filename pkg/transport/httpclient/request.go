package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// ReaderFunc returns a fresh reader over a request payload every time it is
// called. Given to NewRequest it lets the payload be replayed.
type ReaderFunc func() (io.Reader, error)

// GetBody adapts the ReaderFunc to the http.Request.GetBody signature.
func (r ReaderFunc) GetBody() (io.ReadCloser, error) {
	tmp, err := r()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(tmp), nil
}

// lenReader is implemented by in-memory readers and is used for sending the
// right Content-Length header when possible.
type lenReader interface{ Len() int }

// NewRequest creates an http.Request whose payload can be read again through
// GetBody, which http.Client relies on for 307/308 redirects and when a
// reused connection is closed before the request is written.
//
// rawBody may be nil, a ReaderFunc, a []byte, a *bytes.Buffer, a
// *bytes.Reader or any io.Reader, the latter being fully read in memory.
func NewRequest(ctx context.Context, method, url string, rawBody any) (*http.Request, error) {
	if rawBody == nil {
		return http.NewRequestWithContext(ctx, method, url, nil)
	}

	readerFunc, contentLength, err := bodyReader(rawBody)
	if err != nil {
		return nil, err
	}

	body, err := readerFunc()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.ContentLength = contentLength
	if contentLength == 0 {
		req.Body = http.NoBody
	}
	req.GetBody = readerFunc.GetBody

	return req, nil
}

func bodyReader(rawBody any) (ReaderFunc, int64, error) {
	switch body := rawBody.(type) {
	case ReaderFunc:
		tmp, err := body()
		if err != nil {
			return nil, 0, err
		}

		// Unknown lengths are sent chunked.
		n := int64(-1)
		if lr, ok := tmp.(lenReader); ok {
			n = int64(lr.Len())
		}
		if c, ok := tmp.(io.Closer); ok {
			_ = c.Close()
		}
		return body, n, nil

	case []byte:
		return func() (io.Reader, error) {
			return bytes.NewReader(body), nil
		}, int64(len(body)), nil

	case *bytes.Buffer:
		return func() (io.Reader, error) {
			return bytes.NewReader(body.Bytes()), nil
		}, int64(body.Len()), nil

	// Matched before io.Reader so that replays start from the position the
	// reader had when given.
	case *bytes.Reader:
		snapshot := *body
		return func() (io.Reader, error) {
			r := snapshot
			return &r, nil
		}, int64(body.Len()), nil

	case io.Reader:
		buf, err := io.ReadAll(body)
		if err != nil {
			return nil, 0, err
		}
		return func() (io.Reader, error) {
			return bytes.NewReader(buf), nil
		}, int64(len(buf)), nil

	default:
		return nil, 0, fmt.Errorf("httpclient: cannot handle body of type %T", rawBody)
	}
}
