package models

import (
	"maps"
	"time"
)

// Consent is a service's record of a user's permission grant.
//
// # Identity
//
// (ServiceID, UserID, ConsentID) is globally unique. ConsentVersion starts at 1
// on creation and every accepted update carries exactly storedVersion+1.
// Updates replace the whole record; there is no partial patch.
type Consent struct {
	ServiceID      string            `json:"serviceId"`
	UserID         string            `json:"userId"`
	ConsentID      string            `json:"consentId"`
	ConsentVersion int               `json:"consentVersion"`
	Status         Status            `json:"status"`
	ConsentType    string            `json:"consentType,omitempty"`
	ConsentData    map[string]string `json:"consentData,omitempty"`
	// ExpiryTime is stored and returned in UTC; the instant is preserved.
	ExpiryTime     *time.Time        `json:"expiryTime,omitempty"`
}

// Key returns the primary identity of the consent.
func (c Consent) Key() ServiceUserConsentKey {
	return ServiceUserConsentKey{ServiceID: c.ServiceID, UserID: c.UserID, ConsentID: c.ConsentID}
}

// ServiceUserKey returns the grouping key used by list queries.
func (c Consent) ServiceUserKey() ServiceUserKey {
	return ServiceUserKey{ServiceID: c.ServiceID, UserID: c.UserID}
}

// EligibleForAutoExpiry reports whether an external expiry sweep may pick up
// the record: it must be active and carry an expiry time.
func (c Consent) EligibleForAutoExpiry() bool {
	return c.Status == StatusActive && c.ExpiryTime != nil
}

// Clone returns a deep copy so stored records cannot be mutated through
// values handed to callers.
func (c Consent) Clone() Consent {
	out := c
	if c.ConsentData != nil {
		out.ConsentData = maps.Clone(c.ConsentData)
	}
	if c.ExpiryTime != nil {
		t := *c.ExpiryTime
		out.ExpiryTime = &t
	}
	return out
}
