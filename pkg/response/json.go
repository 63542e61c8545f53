package response

import (
	"github.com/goccy/go-json"
)

// DecodeJSON attaches the body of r decoded as JSON into a T. If the body is
// not valid JSON for T, the returned response has no object.
func DecodeJSON[T any](r *BinaryResponse) *BinaryObjectResponse[T] {
	return AddOptionalObject(r, unmarshal[T](r.RawData))
}

// DecodeStringJSON is DecodeJSON for a StringResponse.
func DecodeStringJSON[T any](r *StringResponse) *StringObjectResponse[T] {
	return AddOptionalStringObject(r, unmarshal[T]([]byte(r.RawData)))
}

func unmarshal[T any](data []byte) *T {
	if len(data) == 0 {
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return &v
}
