package telemetry

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Span is a provider independent unit of traced work. It is recorded when
// Finish is called.
type Span interface {
	Finish()

	// SetLabel adds a key value pair to the enclosing transaction. The value
	// must be a number, string or boolean.
	SetLabel(key string, value any)

	NoticeError(err error)
}

// StartSpan begins a segment of the NewRelic transaction in ctx, or a span on
// DefaultTracer when there is none. The returned Span is never nil.
func StartSpan(ctx context.Context, name string) (context.Context, Span) {
	tx := newrelic.FromContext(ctx)
	if tx == nil {
		return DefaultTracer.StartSpan(ctx, name)
	}

	return ctx, &nrSegmentSpan{
		Transaction: tx,
		Segment:     tx.StartSegment(name),
	}
}

type nrTransactionSpan struct{ *newrelic.Transaction }

func (s *nrTransactionSpan) Finish() { s.Transaction.End() }
func (s *nrTransactionSpan) SetLabel(key string, value any) {
	s.Transaction.AddAttribute(key, value)
}

type nrSegmentSpan struct {
	*newrelic.Transaction
	*newrelic.Segment
}

func (s *nrSegmentSpan) Finish() { s.Segment.End() }
func (s *nrSegmentSpan) SetLabel(key string, value any) {
	s.Transaction.AddAttribute(key, value)
}

var (
	_ Span = (*nrTransactionSpan)(nil)
	_ Span = (*nrSegmentSpan)(nil)
)
