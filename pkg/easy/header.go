package easy

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// HeaderList is an ordered list of raw "key: value" header lines. Order is
// preserved and duplicates are allowed, mirroring HTTP header semantics.
type HeaderList []string

// AddHeader appends "key: value" to list.
//
// It fails if key is not a valid header field name or value contains
// characters that are not allowed in a header, like CR or LF.
func AddHeader(list *HeaderList, key, value string) error {
	if !httpguts.ValidHeaderFieldName(key) {
		return fmt.Errorf("%w: bad key %q", ErrInvalidHeader, key)
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: bad value for key %q", ErrInvalidHeader, key)
	}

	*list = append(*list, key+": "+value)
	return nil
}

// Clone returns a copy of the list which can be appended to without
// affecting l.
func (l HeaderList) Clone() HeaderList {
	if l == nil {
		return nil
	}
	return append(make(HeaderList, 0, len(l)), l...)
}

// Header converts the list into an http.Header. Lines without a colon are
// skipped.
func (l HeaderList) Header() http.Header {
	h := make(http.Header, len(l))
	for _, line := range l {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		h.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return h
}
