package models

import (
	"strings"
	"time"

	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

// CreateConsentRequest carries the caller-supplied fields of a new consent.
// Identity and version are assigned by the service.
type CreateConsentRequest struct {
	Status      Status            `json:"status"`
	ConsentType string            `json:"consentType,omitempty"`
	ConsentData map[string]string `json:"consentData,omitempty"`
	ExpiryTime  *time.Time        `json:"expiryTime,omitempty"`
}

// Normalize applies business defaults and sanitizes inputs.
func (r *CreateConsentRequest) Normalize() {
	if r == nil {
		return
	}
	r.Status = Status(strings.ToUpper(strings.TrimSpace(string(r.Status))))
	r.ConsentType = strings.TrimSpace(r.ConsentType)
}

// Validate checks that the request is well-formed.
func (r *CreateConsentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Status == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "Missing required inputs, must provide status")
	}
	return nil
}

// UpdateConsentRequest is a full replacement of a stored consent. The caller
// must send storedVersion+1.
type UpdateConsentRequest struct {
	ConsentVersion int               `json:"consentVersion"`
	Status         Status            `json:"status"`
	ConsentType    string            `json:"consentType,omitempty"`
	ConsentData    map[string]string `json:"consentData,omitempty"`
	ExpiryTime     *time.Time        `json:"expiryTime,omitempty"`
}

// Normalize applies business defaults and sanitizes inputs.
func (r *UpdateConsentRequest) Normalize() {
	if r == nil {
		return
	}
	r.Status = Status(strings.ToUpper(strings.TrimSpace(string(r.Status))))
	r.ConsentType = strings.TrimSpace(r.ConsentType)
}

// Validate checks that the request is well-formed. Field-level checks are
// left to Validate on the assembled consent.
func (r *UpdateConsentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "Missing consent data for update")
	}
	return nil
}
