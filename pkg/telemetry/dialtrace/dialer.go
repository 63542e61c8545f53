// Package dialtrace wraps dial functions with connection lifecycle hooks.
package dialtrace

import (
	"context"
	"net"
	"sync"
)

// DialContextFunc has the signature of net.Dialer.DialContext.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// DialContext calls d.
func (d DialContextFunc) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return d(ctx, network, address)
}

// DialerTrace holds the hooks run on connection events. Any hook may be nil
// and hooks may be called concurrently.
type DialerTrace struct {
	// GotConn is called after a connection is established.
	GotConn func(network, address string)

	// ConnError is called when dialing fails.
	ConnError func(network, address string, err error)

	// CloseConn is called after an established connection is closed.
	CloseConn func(network, address string)
}

// NewTracedDialer returns a DialContextFunc that dials with dial and reports
// connection events to trace.
func NewTracedDialer(dial DialContextFunc, trace DialerTrace) DialContextFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		conn, err := dial(ctx, network, address)
		if err != nil {
			if trace.ConnError != nil {
				trace.ConnError(network, address, err)
			}
			return nil, err
		}

		if trace.GotConn != nil {
			trace.GotConn(network, address)
		}

		return &tracedConn{Conn: conn, onClose: func() {
			if trace.CloseConn != nil {
				trace.CloseConn(network, address)
			}
		}}, nil
	}
}

type tracedConn struct {
	net.Conn

	once    sync.Once
	onClose func()
}

// Close closes the connection and reports it once, even when called many
// times.
func (c *tracedConn) Close() error {
	defer c.once.Do(c.onClose)

	return c.Conn.Close()
}
