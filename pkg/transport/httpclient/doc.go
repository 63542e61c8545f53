/*
Package httpclient builds the *http.Client used to execute easy handles.

Clients keep TCP connections to destination servers through a
transport.PooledTransport and record telemetry on every executed request by
composing the decorators of package transport. Clients never retry and, by
default, never follow redirects.
*/
package httpclient
