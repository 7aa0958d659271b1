package store

import (
	"context"
	"time"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/metrics"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/pagination"
	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/tracer"
	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

// Backend labels
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Instrumented wraps a Repository with a span, a latency observation and an
// error counter per operation. Errors pass through unchanged.
type Instrumented struct {
	next    Repository
	backend string
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// NewInstrumented decorates next. A nil tracer disables tracing.
func NewInstrumented(next Repository, backend string, m *metrics.Metrics, t tracer.Tracer) *Instrumented {
	if t == nil {
		t = tracer.NewNoop()
	}
	return &Instrumented{next: next, backend: backend, metrics: m, tracer: t}
}

func (r *Instrumented) CreateServiceUserConsent(ctx context.Context, consent *models.Consent) (err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanConsentCreate, r.consentAttrs(consent)...)
	defer r.finish(span, "create", time.Now(), &err)
	return r.next.CreateServiceUserConsent(ctx, consent)
}

func (r *Instrumented) GetServiceUserConsent(ctx context.Context, serviceID, userID, consentID string) (_ *models.Consent, err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanConsentGet,
		tracer.String(tracer.AttrBackend, r.backend),
		tracer.String(tracer.AttrServiceID, serviceID),
		tracer.String(tracer.AttrUserID, userID),
		tracer.String(tracer.AttrConsentID, consentID),
	)
	defer r.finish(span, "get", time.Now(), &err)
	return r.next.GetServiceUserConsent(ctx, serviceID, userID, consentID)
}

func (r *Instrumented) UpdateServiceUserConsent(ctx context.Context, consent *models.Consent) (err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanConsentUpdate, r.consentAttrs(consent)...)
	defer r.finish(span, "update", time.Now(), &err)
	return r.next.UpdateServiceUserConsent(ctx, consent)
}

func (r *Instrumented) ListServiceUserConsents(ctx context.Context, serviceID, userID string, limit *int, pageToken *string) (_ *pagination.ListPage[models.Consent], err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanConsentList,
		tracer.String(tracer.AttrBackend, r.backend),
		tracer.String(tracer.AttrServiceID, serviceID),
		tracer.String(tracer.AttrUserID, userID),
	)
	defer r.finish(span, "list", time.Now(), &err)

	page, err := r.next.ListServiceUserConsents(ctx, serviceID, userID, limit, pageToken)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		tracer.Int64(tracer.AttrPageSize, int64(len(page.ResultsOnPage))),
		tracer.Bool(tracer.AttrHasNextPage, page.NextPageToken != nil),
	)
	if r.metrics != nil {
		r.metrics.ObserveListPageSize(r.backend, len(page.ResultsOnPage))
	}
	return page, nil
}

func (r *Instrumented) finish(span tracer.Span, operation string, start time.Time, errp *error) {
	err := *errp
	if r.metrics != nil {
		r.metrics.ObserveRepositoryOperation(r.backend, operation, time.Since(start).Seconds())
	}
	if err != nil {
		code := dErrors.CodeOf(err)
		span.SetAttributes(tracer.String(tracer.AttrErrorCode, string(code)))
		if r.metrics != nil {
			r.metrics.IncrementRepositoryErrors(r.backend, operation, string(code))
		}
	}
	span.End(err)
}

func (r *Instrumented) consentAttrs(consent *models.Consent) []tracer.Attribute {
	attrs := []tracer.Attribute{tracer.String(tracer.AttrBackend, r.backend)}
	if consent == nil {
		return attrs
	}
	return append(attrs,
		tracer.String(tracer.AttrServiceID, consent.ServiceID),
		tracer.String(tracer.AttrUserID, consent.UserID),
		tracer.String(tracer.AttrConsentID, consent.ConsentID),
		tracer.Int64(tracer.AttrConsentVersion, int64(consent.ConsentVersion)),
	)
}

var (
	_ Repository = (*Instrumented)(nil)
	_ Repository = (*InMemoryStore)(nil)
	_ Repository = (*DynamoDBStore)(nil)
)
