/*
Package response holds the records produced by executing a request with
package easy.

A request execution yields a BinaryResponse: the status reported by the
transport and the complete body. From there a caller may convert it into a
StringResponse (lossy UTF-8 decoding) and/or attach a parsed domain object,
obtaining a BinaryObjectResponse or StringObjectResponse. Every conversion
returns a new record, the status and raw body always travel along unchanged.

The object slot is a pointer: a nil Object means parsing was either not
attempted or did not succeed. It is not an error.
*/
package response
