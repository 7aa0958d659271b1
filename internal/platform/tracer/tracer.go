// Package tracer provides a lightweight tracing abstraction.
//
// Callers depend on the Tracer and Span interfaces instead of OpenTelemetry
// directly, so the consent repository can emit spans in production and run
// with zero overhead in tests.
//
// Implementations:
//   - NoopTracer: for tests
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span and returns a context carrying it.
	//
	// Example:
	//   ctx, span := t.Start(ctx, tracer.SpanConsentGet,
	//       tracer.String(tracer.AttrServiceID, serviceID),
	//   )
	//   defer func() { span.End(err) }()
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the consent repository.
const (
	SpanConsentCreate = "consent.repository.create"
	SpanConsentGet    = "consent.repository.get"
	SpanConsentUpdate = "consent.repository.update"
	SpanConsentList   = "consent.repository.list"
)

// Attribute keys used by the consent repository.
const (
	AttrBackend        = "consent.backend"
	AttrServiceID      = "consent.service_id"
	AttrUserID         = "consent.user_id"
	AttrConsentID      = "consent.consent_id"
	AttrConsentVersion = "consent.version"
	AttrPageSize       = "consent.page.size"
	AttrHasNextPage    = "consent.page.has_next"
	AttrErrorCode      = "error.code"
)
