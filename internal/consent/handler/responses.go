package handler

import "github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"

// CreateConsentResponse is returned after a consent is created.
type CreateConsentResponse struct {
	ConsentID string `json:"consentId"`
}

// GetConsentResponse wraps a single consent.
type GetConsentResponse struct {
	Data *models.Consent `json:"data"`
}
