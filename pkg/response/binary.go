package response

import (
	"strings"
	"unicode/utf8"
)

// BinaryResponse is the outcome of a request execution: the status reported
// by the transport and the body exactly as received.
type BinaryResponse struct {
	// Status is the HTTP response code, StatusUnknown if it was not available.
	Status Status

	// RawData is the complete response body.
	RawData []byte
}

// NewBinaryResponse creates a BinaryResponse holding a copy of data.
func NewBinaryResponse(status Status, data []byte) *BinaryResponse {
	return &BinaryResponse{
		Status:  status,
		RawData: cloneBytes(data),
	}
}

// ToStringResponse returns a version of the response where the body is
// decoded as UTF-8 text. Invalid byte sequences are replaced with U+FFFD,
// decoding never fails.
func (r *BinaryResponse) ToStringResponse() *StringResponse {
	return &StringResponse{
		Status:  r.Status,
		RawData: lossyString(r.RawData),
	}
}

// AddObject returns a BinaryObjectResponse carrying r's status and body along
// with object.
func AddObject[T any](r *BinaryResponse, object T) *BinaryObjectResponse[T] {
	return AddOptionalObject(r, &object)
}

// AddOptionalObject returns a BinaryObjectResponse carrying r's status and
// body along with object, which may be nil.
func AddOptionalObject[T any](r *BinaryResponse, object *T) *BinaryObjectResponse[T] {
	return &BinaryObjectResponse[T]{
		Status:  r.Status,
		RawData: r.RawData,
		Object:  object,
	}
}

// BinaryObjectResponse is a BinaryResponse with the body parsed into a T.
type BinaryObjectResponse[T any] struct {
	// Status is the HTTP response code, StatusUnknown if it was not available.
	Status Status

	// RawData is the complete response body.
	RawData []byte

	// Object is the parsed body, nil if parsing was not successful.
	Object *T
}

// NewBinaryObjectResponse creates a BinaryObjectResponse holding a copy of
// data.
func NewBinaryObjectResponse[T any](status Status, data []byte, object *T) *BinaryObjectResponse[T] {
	return &BinaryObjectResponse[T]{
		Status:  status,
		RawData: cloneBytes(data),
		Object:  object,
	}
}

// ToStringResponse returns a version of the response where the body is
// decoded as UTF-8 text. The object is carried over as is.
func (r *BinaryObjectResponse[T]) ToStringResponse() *StringObjectResponse[T] {
	return &StringObjectResponse[T]{
		Status:  r.Status,
		RawData: lossyString(r.RawData),
		Object:  r.Object,
	}
}

// HasObject reports whether an object is attached.
func (r *BinaryObjectResponse[T]) HasObject() bool { return r.Object != nil }

// lossyString decodes b as UTF-8, writing one U+FFFD for each maximal
// invalid subpart: the longest prefix of a well-formed sequence, or a single
// byte when no sequence can start there.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b) + 8)

	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
			b = b[invalidSubpartLen(b):]
			continue
		}
		sb.Write(b[:size])
		b = b[size:]
	}

	return sb.String()
}

// invalidSubpartLen returns how many bytes of the ill-formed sequence at the
// start of b are replaced by a single U+FFFD.
func invalidSubpartLen(b []byte) int {
	var (
		n      int
		lo, hi byte = 0x80, 0xBF
	)

	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		n = 2
	case c == 0xE0:
		n, lo = 3, 0xA0
	case c == 0xED:
		n, hi = 3, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		n = 3
	case c == 0xF0:
		n, lo = 4, 0x90
	case c == 0xF4:
		n, hi = 4, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		n = 4
	default:
		return 1
	}

	if len(b) < 2 || b[1] < lo || b[1] > hi {
		return 1
	}

	i := 2
	for i < n && i < len(b) && b[i] >= 0x80 && b[i] <= 0xBF {
		i++
	}
	return i
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
