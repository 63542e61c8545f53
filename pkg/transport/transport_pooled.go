package transport

import (
	"context"
	"expvar"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/luizaranda/go-apiwrapper/pkg/telemetry"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry/dialtrace"
)

const (
	_expvarPrefix   = "apiwrapper.http.client.conn_pools"
	_connPoolMetric = "apiwrapper.http.client.conn_pool"
)

var (
	_expvar = expvar.NewMap(_expvarPrefix)
)

// NewPooled creates an *http.Transport with the given options and wraps it
// in a PooledTransport named name.
func NewPooled(name string, opts ...Option) *PooledTransport {
	return NewPooledFromTransport(name, NewTransport(opts...))
}

// NewPooledFromTransport wraps transport, tracing its dialer so that the
// number of open connections per network address is known.
//
// Statistics are published through expvar under the pool name.
func NewPooledFromTransport(name string, transport *http.Transport) *PooledTransport {
	t := &PooledTransport{
		Transport: transport,
		Name:      name,
	}

	dial := transport.DialContext
	if dial == nil {
		dial = NewTransport().DialContext
	}

	t.DialContext = dialtrace.NewTracedDialer(dial, dialtrace.DialerTrace{
		GotConn:   t.traceConn(1),
		CloseConn: t.traceConn(-1),
	})

	t.registerExpVar()

	return t
}

// PooledTransport is an http.RoundTripper which keeps count of the
// connections it has open per network address.
type PooledTransport struct {
	*http.Transport

	Name  string
	stats sync.Map
}

func (t *PooledTransport) traceConn(delta int64) func(network, address string) {
	return func(network, address string) {
		value, _ := t.stats.LoadOrStore(network+":"+address, new(atomic.Int64))
		value.(*atomic.Int64).Add(delta)
	}
}

// Stats returns the number of open connections keyed by "network:address".
func (t *PooledTransport) Stats() map[string]int64 {
	stats := map[string]int64{}

	t.stats.Range(func(key, value any) bool {
		stats[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	return stats
}

func (t *PooledTransport) registerExpVar() {
	_expvar.Set(t.Name, expvar.Func(func() any { return t.Stats() }))
}

// ReportStats sends the open connection count of every address as a gauge
// through the telemetry client of ctx.
func (t *PooledTransport) ReportStats(ctx context.Context) {
	for address, conns := range t.Stats() {
		telemetry.Gauge(ctx, _connPoolMetric, float64(conns), telemetry.Tags("pool", t.Name, "address", address))
	}
}
