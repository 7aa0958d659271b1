package models

import (
	"fmt"
	"strings"

	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

// KeySeparator joins identity fields into the keyed-store primary key, so no
// identity field may contain it.
const KeySeparator = "|"

const (
	ConsentNullMessage            = "consent must not be null"
	ServiceIDBlankMessage         = "serviceId must not be blank"
	UserIDBlankMessage            = "userId must not be blank"
	ConsentIDBlankMessage         = "consentId must not be blank"
	ConsentVersionMissingMessage  = "consentVersion must not be null"
	ConsentVersionNegativeMessage = "consentVersion must be a positive integer"
	StatusNullMessage             = "status must not be null"
)

// Validate checks the structural constraints of a consent. Fields are checked
// in a fixed order (serviceId, userId, consentId, consentVersion, status) and
// the first violation is reported, so messages are deterministic.
func Validate(consent *Consent) error {
	if consent == nil {
		return dErrors.New(dErrors.CodeInvalidInput, ConsentNullMessage)
	}
	if err := validateIdentityField("serviceId", consent.ServiceID, ServiceIDBlankMessage); err != nil {
		return err
	}
	if err := validateIdentityField("userId", consent.UserID, UserIDBlankMessage); err != nil {
		return err
	}
	if err := validateIdentityField("consentId", consent.ConsentID, ConsentIDBlankMessage); err != nil {
		return err
	}
	if consent.ConsentVersion == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, ConsentVersionMissingMessage)
	}
	if consent.ConsentVersion < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, ConsentVersionNegativeMessage)
	}
	if consent.Status == "" {
		return dErrors.New(dErrors.CodeInvalidInput, StatusNullMessage)
	}
	if !consent.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("status must be one of %s, %s, %s, received %q", StatusActive, StatusExpired, StatusRevoked, consent.Status))
	}
	return nil
}

func validateIdentityField(name, value, blankMessage string) error {
	if strings.TrimSpace(value) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, blankMessage)
	}
	if strings.Contains(value, KeySeparator) {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s must not contain %q", name, KeySeparator))
	}
	return nil
}

// ValidateNextVersion rejects an update whose version is not exactly one
// above the stored version.
func ValidateNextVersion(existing, updated Consent) error {
	expected := existing.ConsentVersion + 1
	if updated.ConsentVersion != expected {
		return dErrors.NewVersionConflict(expected, updated.ConsentVersion)
	}
	return nil
}
