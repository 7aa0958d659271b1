package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/metrics"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/pagination"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/store/mocks"
	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/tracer"
	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
	"github.com/Consent-Management-Platform/consent-management-api/pkg/testutil"
)

func TestInstrumented(t *testing.T) {
	ctx := context.Background()
	consent := testutil.NewTestConsent("S1", "U1", "C1")

	setup := func(t *testing.T) (*mocks.MockRepository, *Instrumented, *metrics.Metrics, *tracer.Recorder) {
		ctrl := gomock.NewController(t)
		next := mocks.NewMockRepository(ctrl)
		m := metrics.NewWithRegisterer(prometheus.NewRegistry())
		rec := tracer.NewRecorder()
		return next, NewInstrumented(next, BackendMemory, m, rec), m, rec
	}

	t.Run("errors pass through and are counted by code", func(t *testing.T) {
		next, repo, m, rec := setup(t)
		conflict := dErrors.NewVersionConflict(2, 1)
		next.EXPECT().UpdateServiceUserConsent(gomock.Any(), consent).Return(conflict)

		err := repo.UpdateServiceUserConsent(ctx, consent)
		assert.Same(t, conflict, err)
		assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RepositoryErrors.WithLabelValues(BackendMemory, "update", "version_conflict")))

		spans := rec.Spans()
		require.Len(t, spans, 1)
		assert.Equal(t, tracer.SpanConsentUpdate, spans[0].Name)
		assert.Equal(t, "version_conflict", spans[0].Attributes[tracer.AttrErrorCode])
		assert.Equal(t, int64(1), spans[0].Attributes[tracer.AttrConsentVersion])
		assert.Same(t, conflict, spans[0].Err)
	})

	t.Run("successful create records latency only", func(t *testing.T) {
		next, repo, m, rec := setup(t)
		next.EXPECT().CreateServiceUserConsent(gomock.Any(), consent).Return(nil)

		require.NoError(t, repo.CreateServiceUserConsent(ctx, consent))
		assert.Equal(t, 1, promtestutil.CollectAndCount(m.RepositoryOperationLatency))
		assert.Equal(t, 0, promtestutil.CollectAndCount(m.RepositoryErrors))
		require.Len(t, rec.Spans(), 1)
		assert.Nil(t, rec.Spans()[0].Err)
		assert.Equal(t, "S1", rec.Spans()[0].Attributes[tracer.AttrServiceID])
	})

	t.Run("nil consent is forwarded", func(t *testing.T) {
		next, repo, _, rec := setup(t)
		invalid := dErrors.New(dErrors.CodeInvalidInput, models.ConsentNullMessage)
		next.EXPECT().CreateServiceUserConsent(gomock.Any(), nil).Return(invalid)

		err := repo.CreateServiceUserConsent(ctx, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Equal(t, BackendMemory, rec.Spans()[0].Attributes[tracer.AttrBackend])
	})

	t.Run("get returns the inner result", func(t *testing.T) {
		next, repo, _, rec := setup(t)
		next.EXPECT().GetServiceUserConsent(gomock.Any(), "S1", "U1", "C1").Return(consent, nil)

		got, err := repo.GetServiceUserConsent(ctx, "S1", "U1", "C1")
		require.NoError(t, err)
		assert.Same(t, consent, got)
		assert.Equal(t, "C1", rec.Spans()[0].Attributes[tracer.AttrConsentID])
	})

	t.Run("list annotates page size", func(t *testing.T) {
		next, repo, m, rec := setup(t)
		token := "1"
		page := &pagination.ListPage[models.Consent]{ResultsOnPage: []models.Consent{*consent}, NextPageToken: &token}
		next.EXPECT().ListServiceUserConsents(gomock.Any(), "S1", "U1", gomock.Nil(), gomock.Nil()).Return(page, nil)

		got, err := repo.ListServiceUserConsents(ctx, "S1", "U1", nil, nil)
		require.NoError(t, err)
		assert.Same(t, page, got)
		assert.Equal(t, int64(1), rec.Spans()[0].Attributes[tracer.AttrPageSize])
		assert.Equal(t, true, rec.Spans()[0].Attributes[tracer.AttrHasNextPage])
		assert.Equal(t, 1, promtestutil.CollectAndCount(m.ListPageSize))
	})

	t.Run("works without metrics or tracer", func(t *testing.T) {
		repo := NewInstrumented(NewInMemory(), BackendMemory, nil, nil)
		require.NoError(t, repo.CreateServiceUserConsent(ctx, consent))
		_, err := repo.GetServiceUserConsent(ctx, "S1", "U1", "missing")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
