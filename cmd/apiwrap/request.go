package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/luizaranda/go-apiwrapper/pkg/easy"
	"github.com/luizaranda/go-apiwrapper/pkg/response"
)

var (
	errFormNeedsPost = errors.New("forms can only be sent with POST")
	errBodyWithGet   = errors.New("GET requests cannot carry a body or form")
)

// request is the transfer described by the command line.
type request struct {
	url     string
	method  string
	headers easy.HeaderList
	body    []byte
	form    *easy.Form

	user, password string
	basicAuth      bool
}

func parseRequest(rawURL string, rf *requestFlags) (*request, error) {
	req := &request{
		url:    rawURL,
		method: strings.ToUpper(rf.method),
	}

	var err error
	if req.headers, err = parseHeaders(rf.headers); err != nil {
		return nil, err
	}
	if req.body, err = readData(rf.data); err != nil {
		return nil, err
	}
	if req.form, err = parseForm(rf.form); err != nil {
		return nil, err
	}

	if rf.user != "" {
		req.user, req.password, _ = strings.Cut(rf.user, ":")
		req.basicAuth = true
	}

	if req.method == "" {
		req.method = http.MethodGet
		if req.body != nil || req.form != nil {
			req.method = http.MethodPost
		}
	}

	return req, nil
}

// do configures h and runs the executor matching the request method. Other
// verbs go through a custom request, carrying the payload as POST would.
func (r *request) do(ctx context.Context, h *easy.Handle) (*response.BinaryResponse, error) {
	if err := h.SetURL(r.url); err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", r.url, err)
	}

	h.SetHTTPHeaders(r.headers)

	if r.basicAuth {
		if err := easy.ApplyBasicAuth(h, r.user, r.password); err != nil {
			return nil, err
		}
	}

	hasPayload := r.body != nil || r.form != nil

	switch r.method {
	case http.MethodGet:
		if hasPayload {
			return nil, errBodyWithGet
		}
		return easy.Get(ctx, h)

	case http.MethodPost:
		return easy.Post(ctx, h, r.body, r.form)

	case http.MethodPut:
		if r.form != nil {
			return nil, errFormNeedsPost
		}
		return easy.Put(ctx, h, r.body)

	case http.MethodDelete:
		if r.form != nil {
			return nil, errFormNeedsPost
		}
		if r.body != nil {
			h.SetPost(true)
			h.SetBody(r.body)
		}
		return easy.Delete(ctx, h)
	}

	if err := h.SetCustomRequest(r.method); err != nil {
		return nil, err
	}
	if hasPayload {
		return easy.Post(ctx, h, r.body, r.form)
	}
	return easy.Execute(ctx, h)
}

// parseHeaders reads "Key: value" lines.
func parseHeaders(lines []string) (easy.HeaderList, error) {
	var list easy.HeaderList
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("header %q: missing colon", line)
		}
		if err := easy.AddHeader(&list, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// readData returns the request body, read from a file when data starts with
// '@'. An empty data means no body.
func readData(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}

	if path, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		return b, nil
	}

	return []byte(data), nil
}

// parseForm reads "key=value" and "key=@file" fields. No fields means no
// form.
func parseForm(fields []string) (*easy.Form, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	form := &easy.Form{}
	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("form field %q: missing '='", field)
		}

		var err error
		if path, isFile := strings.CutPrefix(value, "@"); isFile {
			err = easy.AddFormFile(form, key, path)
		} else {
			err = easy.AddFormString(form, key, value)
		}
		if err != nil {
			return nil, err
		}
	}

	return form, nil
}
