package response

// StringResponse is a response whose body has been decoded as text.
type StringResponse struct {
	// Status is the HTTP response code, StatusUnknown if it was not available.
	Status Status

	// RawData is the response body as text.
	RawData string
}

// NewStringResponse creates a StringResponse.
func NewStringResponse(status Status, data string) *StringResponse {
	return &StringResponse{
		Status:  status,
		RawData: data,
	}
}

// AddStringObject returns a StringObjectResponse carrying r's status and body
// along with object.
func AddStringObject[T any](r *StringResponse, object T) *StringObjectResponse[T] {
	return AddOptionalStringObject(r, &object)
}

// AddOptionalStringObject returns a StringObjectResponse carrying r's status
// and body along with object, which may be nil.
func AddOptionalStringObject[T any](r *StringResponse, object *T) *StringObjectResponse[T] {
	return &StringObjectResponse[T]{
		Status:  r.Status,
		RawData: r.RawData,
		Object:  object,
	}
}

// StringObjectResponse is a StringResponse with the body parsed into a T.
type StringObjectResponse[T any] struct {
	// Status is the HTTP response code, StatusUnknown if it was not available.
	Status Status

	// RawData is the response body as text.
	RawData string

	// Object is the parsed body, nil if parsing was not successful.
	Object *T
}

// NewStringObjectResponse creates a StringObjectResponse.
func NewStringObjectResponse[T any](status Status, data string, object *T) *StringObjectResponse[T] {
	return &StringObjectResponse[T]{
		Status:  status,
		RawData: data,
		Object:  object,
	}
}

// HasObject reports whether an object is attached.
func (r *StringObjectResponse[T]) HasObject() bool { return r.Object != nil }
