package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/tracer"
)

func TestNoopTracer_Start(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, tracer.SpanConsentGet,
		tracer.String(tracer.AttrServiceID, "S1"),
		tracer.Bool(tracer.AttrHasNextPage, true),
	)

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.String(tracer.AttrUserID, "U1"))
	span.AddEvent("test.event", tracer.Int64("count", 42))
	span.End(errors.New("test error"))
}

func TestOTelTracer_WithInjectedTracer(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), tracer.SpanConsentCreate,
		tracer.String(tracer.AttrConsentID, "C1"),
		tracer.Int64(tracer.AttrConsentVersion, 1),
		tracer.Float64("ratio", 0.5),
		tracer.Attribute{Key: "int", Value: 3},
		tracer.Attribute{Key: "other", Value: []string{"a"}},
	)
	require.NotNil(t, ctx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Bool("flag", true))
	span.AddEvent("written")
	span.End(errors.New("boom"))
}

func TestOTelTracer_DefaultsToGlobalProvider(t *testing.T) {
	tr := tracer.NewOTel()
	_, span := tr.Start(context.Background(), tracer.SpanConsentList)
	span.End(nil)
}

func TestRecorder(t *testing.T) {
	rec := tracer.NewRecorder()

	_, span := rec.Start(context.Background(), tracer.SpanConsentUpdate, tracer.String(tracer.AttrBackend, "memory"))
	span.SetAttributes(tracer.String(tracer.AttrErrorCode, "version_conflict"))
	span.AddEvent("conflict")
	failure := errors.New("stale")
	span.End(failure)

	spans := rec.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, tracer.SpanConsentUpdate, spans[0].Name)
	assert.Equal(t, "memory", spans[0].Attributes[tracer.AttrBackend])
	assert.Equal(t, "version_conflict", spans[0].Attributes[tracer.AttrErrorCode])
	assert.Equal(t, []string{"conflict"}, spans[0].Events)
	assert.ErrorIs(t, spans[0].Err, failure)
}

func TestAttributeConstructors(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		attr := tracer.String("key", "value")
		assert.Equal(t, "key", attr.Key)
		assert.Equal(t, "value", attr.Value)
	})

	t.Run("Bool", func(t *testing.T) {
		attr := tracer.Bool("flag", true)
		assert.Equal(t, true, attr.Value)
	})

	t.Run("Int64", func(t *testing.T) {
		attr := tracer.Int64("count", 42)
		assert.Equal(t, int64(42), attr.Value)
	})

	t.Run("Float64", func(t *testing.T) {
		attr := tracer.Float64("ratio", 3.14)
		assert.Equal(t, 3.14, attr.Value)
	})

	t.Run("Duration", func(t *testing.T) {
		attr := tracer.Duration("latency", 150*time.Millisecond)
		assert.Equal(t, int64(150), attr.Value)
	})
}
