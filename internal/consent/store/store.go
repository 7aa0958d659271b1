package store

import (
	"context"
	"fmt"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/pagination"
	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

// Error Contract:
// Every Repository implementation reports failures as *dErrors.Error:
// - CodeInvalidInput when the consent fails Validate, the limit is below 1, or
//   the page token is malformed for the backend
// - CodeAlreadyExists when Create targets an identity that is already stored
// - CodeNotFound when Get or Update targets an identity that is not stored
// - CodeVersionConflict when Update does not carry storedVersion+1; the
//   wrapped *dErrors.VersionMismatch holds both versions
// - CodeInternal for backend failures, wrapping the cause

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Repository

// Repository is the persistence port for consent records.
type Repository interface {
	CreateServiceUserConsent(ctx context.Context, consent *models.Consent) error
	GetServiceUserConsent(ctx context.Context, serviceID, userID, consentID string) (*models.Consent, error)
	UpdateServiceUserConsent(ctx context.Context, consent *models.Consent) error
	ListServiceUserConsents(ctx context.Context, serviceID, userID string, limit *int, pageToken *string) (*pagination.ListPage[models.Consent], error)
}

func alreadyExists(key models.ServiceUserConsentKey) error {
	return dErrors.New(dErrors.CodeAlreadyExists, fmt.Sprintf(
		"Consent already exists with serviceId %s, userId %s, consentId %s", key.ServiceID, key.UserID, key.ConsentID))
}

func notFound(key models.ServiceUserConsentKey) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf(
		"No consent found with serviceId %s, userId %s, consentId %s", key.ServiceID, key.UserID, key.ConsentID))
}

func validateLimit(limit *int) error {
	if limit != nil && *limit < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("limit must be a positive integer, received %d", *limit))
	}
	return nil
}
