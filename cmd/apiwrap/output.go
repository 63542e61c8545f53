package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/luizaranda/go-apiwrapper/pkg/response"
)

func statusColor(s response.Status) *color.Color {
	switch {
	case !s.Known():
		return color.New(color.FgMagenta)
	case s.IsSuccess():
		return color.New(color.FgGreen, color.Bold)
	case s.IsClientError():
		return color.New(color.FgYellow, color.Bold)
	case s.IsServerError():
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// writeText prints the status line on errOut and the body, decoded as text,
// on out.
func writeText(out, errOut io.Writer, res *response.BinaryResponse) error {
	if _, err := statusColor(res.Status).Fprintf(errOut, "HTTP %s\n", res.Status); err != nil {
		return err
	}

	_, err := io.WriteString(out, res.ToStringResponse().RawData)
	return err
}

type jsonOutput struct {
	// Status is null when unknown.
	Status *int `json:"status"`

	// Body is the decoded JSON body, or the body as text.
	Body any `json:"body"`
}

func writeJSON(out io.Writer, res *response.BinaryResponse) error {
	var doc jsonOutput

	if code, ok := res.Status.Code(); ok {
		doc.Status = &code
	}

	if decoded := response.DecodeJSON[any](res); decoded.HasObject() {
		doc.Body = *decoded.Object
	} else {
		doc.Body = res.ToStringResponse().RawData
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
