package easy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/luizaranda/go-apiwrapper/pkg/log"
	"github.com/luizaranda/go-apiwrapper/pkg/response"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/tracing"
	"github.com/luizaranda/go-apiwrapper/pkg/transport/httpclient"
)

// Execute performs one transfer with h as currently configured and returns
// the received status and body.
//
// Any transport failure aborts the whole operation: the error is returned
// and no response is. A response with an unknown status is never returned
// on failure.
func Execute(ctx context.Context, h *Handle) (*response.BinaryResponse, error) {
	var data []byte

	err := h.perform(ctx, func(chunk []byte) int {
		data = append(data, chunk...)
		return len(chunk)
	})
	if err != nil {
		return nil, err
	}

	return &response.BinaryResponse{
		Status:  h.ResponseCode(),
		RawData: data,
	}, nil
}

// Get executes h. The handle method is left untouched, so a handle
// previously switched to another method must be reset by the caller.
func Get(ctx context.Context, h *Handle) (*response.BinaryResponse, error) {
	return Execute(ctx, h)
}

// Post switches h to POST and executes it.
//
// When form is not nil it becomes the request payload, otherwise body does
// when not nil. If both are given the form wins and body is not sent. With
// neither, whatever payload h already holds is sent.
func Post(ctx context.Context, h *Handle, body []byte, form *Form) (*response.BinaryResponse, error) {
	h.SetPost(true)

	if body != nil {
		h.SetBody(body)
	}

	if form != nil {
		h.SetForm(form)
	}

	return Execute(ctx, h)
}

// Put switches h to PUT and executes it, uploading body when not nil.
func Put(ctx context.Context, h *Handle, body []byte) (*response.BinaryResponse, error) {
	h.SetPut(true)

	if body != nil {
		h.SetBody(body)
	}

	return Execute(ctx, h)
}

// Delete sets the DELETE custom verb on h and executes it.
func Delete(ctx context.Context, h *Handle) (*response.BinaryResponse, error) {
	// A constant verb is always valid.
	_ = h.SetCustomRequest(http.MethodDelete)
	return Execute(ctx, h)
}

// perform runs a single transfer, handing every received body chunk to
// write. The handle status is updated whatever the outcome.
func (h *Handle) perform(ctx context.Context, write WriteFunc) (err error) {
	h.status = response.StatusUnknown

	if h.url == nil {
		return ErrMissingURL
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if tracing.EndpointTemplate(ctx) == "" {
		ctx = tracing.WithEndpointTemplate(ctx, h.url.Path)
	}

	body, contentType, err := h.payload()
	if err != nil {
		return err
	}

	req, err := httpclient.NewRequest(ctx, h.Method(), h.url.String(), body)
	if err != nil {
		return err
	}

	req.Header = h.headers.Header()

	// The multipart boundary must match the encoded form.
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	if h.basicAuth {
		req.SetBasicAuth(h.username, h.password)
	}

	ctx, span := newSpan(req, h.customRequest != "")
	defer span.End()

	req = req.WithContext(ctx)
	start := time.Now()
	defer func() {
		recordDuration(ctx, h.meterProvider, req.Method, h.status, time.Since(start), err)
	}()

	res, err := h.requester.Do(req)
	recordResponseAttributes(span, res, err)

	if err != nil {
		log.Debug(ctx, "easy transfer failed",
			log.String("method", req.Method),
			log.String("url", h.url.Redacted()),
			log.Err(err))
		return fmt.Errorf("easy: transfer: %w", err)
	}

	defer res.Body.Close()

	h.status = response.StatusFromCode(res.StatusCode)

	n, err := io.Copy(h.sink(write), res.Body)
	recordBodySize(span, n)

	if err != nil {
		return fmt.Errorf("easy: reading response body: %w", err)
	}

	log.Debug(ctx, "easy transfer done",
		log.String("method", req.Method),
		log.String("url", h.url.Redacted()),
		log.Stringer("status", h.status),
		log.Int64("body_size", n),
		log.Duration("elapsed", time.Since(start)))

	return nil
}

// payload returns the request body to send along with its content type, if
// it must be forced. A form is only sent by POST handles and takes precedence
// over the raw body.
func (h *Handle) payload() (any, string, error) {
	switch {
	case h.form != nil && h.method == http.MethodPost:
		buf, contentType, err := h.form.encode()
		if err != nil {
			return nil, "", fmt.Errorf("easy: encoding form: %w", err)
		}
		return buf, contentType, nil

	case h.body != nil && (h.method == http.MethodPost || h.method == http.MethodPut):
		data := h.body
		return httpclient.ReaderFunc(func() (io.Reader, error) {
			return &uploadReader{data: data}, nil
		}), "", nil
	}

	return nil, "", nil
}

func (h *Handle) sink(write WriteFunc) io.Writer {
	if h.writeFunc == nil {
		return writeFuncWriter(write)
	}

	observe := h.writeFunc
	return writeFuncWriter(func(chunk []byte) int {
		if n := observe(chunk); n < len(chunk) {
			return n
		}
		return write(chunk)
	})
}
