package testutil

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
)

// TestIDs provides fixed identities for deterministic test data.
var TestIDs = struct {
	ServiceID1 string
	ServiceID2 string
	UserID1    string
	UserID2    string
	ConsentID1 string
	ConsentID2 string
}{
	ServiceID1: "TestServiceId1",
	ServiceID2: "TestServiceId2",
	UserID1:    "TestUserId1",
	UserID2:    "TestUserId2",
	ConsentID1: "11111111-1111-1111-1111-111111111111",
	ConsentID2: "22222222-2222-2222-2222-222222222222",
}

// ConsentBuilder provides a fluent interface for building test consents.
type ConsentBuilder struct {
	consent *models.Consent
}

// NewConsentBuilder creates a ConsentBuilder for an active version 1 consent
// with a random consent ID.
func NewConsentBuilder() *ConsentBuilder {
	return &ConsentBuilder{
		consent: &models.Consent{
			ServiceID:      TestIDs.ServiceID1,
			UserID:         TestIDs.UserID1,
			ConsentID:      uuid.NewString(),
			ConsentVersion: 1,
			Status:         models.StatusActive,
		},
	}
}

func (b *ConsentBuilder) WithServiceID(serviceID string) *ConsentBuilder {
	b.consent.ServiceID = serviceID
	return b
}

func (b *ConsentBuilder) WithUserID(userID string) *ConsentBuilder {
	b.consent.UserID = userID
	return b
}

func (b *ConsentBuilder) WithConsentID(consentID string) *ConsentBuilder {
	b.consent.ConsentID = consentID
	return b
}

func (b *ConsentBuilder) WithVersion(version int) *ConsentBuilder {
	b.consent.ConsentVersion = version
	return b
}

func (b *ConsentBuilder) WithStatus(status models.Status) *ConsentBuilder {
	b.consent.Status = status
	return b
}

func (b *ConsentBuilder) WithType(consentType string) *ConsentBuilder {
	b.consent.ConsentType = consentType
	return b
}

func (b *ConsentBuilder) WithData(data map[string]string) *ConsentBuilder {
	b.consent.ConsentData = maps.Clone(data)
	return b
}

func (b *ConsentBuilder) ExpiresAt(t time.Time) *ConsentBuilder {
	expiry := t.UTC()
	b.consent.ExpiryTime = &expiry
	return b
}

func (b *ConsentBuilder) Build() *models.Consent {
	return b.consent
}

// NewTestConsent returns an active version 1 consent for the given identity.
func NewTestConsent(serviceID, userID, consentID string) *models.Consent {
	return NewConsentBuilder().
		WithServiceID(serviceID).
		WithUserID(userID).
		WithConsentID(consentID).
		Build()
}

// NextVersion returns a copy of c carrying the version an update must send.
func NextVersion(c *models.Consent) *models.Consent {
	next := c.Clone()
	next.ConsentVersion++
	return &next
}
