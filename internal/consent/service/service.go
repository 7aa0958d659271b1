package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/metrics"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/pagination"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/store"
	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

type Option func(*Service)

// Service turns API requests into whole-record writes against the consent
// repository. It assigns identities and initial versions; every uniqueness
// and version rule is enforced by the repository.
type Service struct {
	repo    store.Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
	newID   func() string
}

func NewService(repo store.Repository, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		repo:   repo,
		logger: logger,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// WithMetrics sets the metrics instance for the service
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIDGenerator replaces the consent ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Create stores a new version 1 consent under a generated consent ID and
// returns that ID.
func (s *Service) Create(ctx context.Context, serviceID, userID string, req *models.CreateConsentRequest) (string, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return "", err
	}

	consent := &models.Consent{
		ServiceID:      serviceID,
		UserID:         userID,
		ConsentID:      s.newID(),
		ConsentVersion: 1,
		Status:         req.Status,
		ConsentType:    req.ConsentType,
		ConsentData:    req.ConsentData,
		ExpiryTime:     req.ExpiryTime,
	}
	if err := s.repo.CreateServiceUserConsent(ctx, consent); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.IncrementConsentsCreated(string(consent.Status))
	}
	s.logger.InfoContext(ctx, "consent created",
		"service_id", serviceID,
		"user_id", userID,
		"consent_id", consent.ConsentID,
		"status", consent.Status,
	)
	return consent.ConsentID, nil
}

func (s *Service) Get(ctx context.Context, serviceID, userID, consentID string) (*models.Consent, error) {
	return s.repo.GetServiceUserConsent(ctx, serviceID, userID, consentID)
}

// Update replaces the whole consent. The request must carry the stored
// version plus one.
func (s *Service) Update(ctx context.Context, serviceID, userID, consentID string, req *models.UpdateConsentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	req.Normalize()

	consent := &models.Consent{
		ServiceID:      serviceID,
		UserID:         userID,
		ConsentID:      consentID,
		ConsentVersion: req.ConsentVersion,
		Status:         req.Status,
		ConsentType:    req.ConsentType,
		ConsentData:    req.ConsentData,
		ExpiryTime:     req.ExpiryTime,
	}
	if err := s.repo.UpdateServiceUserConsent(ctx, consent); err != nil {
		if dErrors.HasCode(err, dErrors.CodeVersionConflict) {
			s.logger.DebugContext(ctx, "consent update rejected",
				"service_id", serviceID,
				"user_id", userID,
				"consent_id", consentID,
				"error", err,
			)
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.IncrementConsentsUpdated(string(consent.Status))
	}
	s.logger.InfoContext(ctx, "consent updated",
		"service_id", serviceID,
		"user_id", userID,
		"consent_id", consentID,
		"version", consent.ConsentVersion,
		"status", consent.Status,
	)
	return nil
}

func (s *Service) List(ctx context.Context, serviceID, userID string, limit *int, pageToken *string) (*pagination.ListPage[models.Consent], error) {
	return s.repo.ListServiceUserConsents(ctx, serviceID, userID, limit, pageToken)
}
