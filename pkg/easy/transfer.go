package easy

import "io"

// WriteFunc receives one chunk of the response body and returns the number
// of bytes it consumed. Consuming less than len(data) aborts the transfer
// with ErrWriteAborted.
type WriteFunc func(data []byte) int

type writeFuncWriter WriteFunc

func (w writeFuncWriter) Write(p []byte) (int, error) {
	n := w(p)
	if n < len(p) {
		return max(n, 0), ErrWriteAborted
	}
	return len(p), nil
}

// uploadReader feeds the request payload to the transport, one chunk per
// read, until no unread bytes remain.
type uploadReader struct {
	data []byte
	off  int
}

// readChunk copies the next chunk of unread payload into buf and returns the
// number of bytes copied. Zero means the payload is exhausted.
func (r *uploadReader) readChunk(buf []byte) int {
	n := copy(buf, r.data[r.off:])
	r.off += n
	return n
}

func (r *uploadReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if n := r.readChunk(p); n > 0 {
		return n, nil
	}
	return 0, io.EOF
}

// Len returns the number of unread bytes, letting the request carry a
// Content-Length.
func (r *uploadReader) Len() int { return len(r.data) - r.off }
