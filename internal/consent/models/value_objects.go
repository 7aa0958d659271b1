package models

// Status represents the lifecycle state of a consent record.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusExpired Status = "EXPIRED"
	StatusRevoked Status = "REVOKED"
)

// ValidStatuses is the single source of truth for all valid consent statuses.
var ValidStatuses = map[Status]bool{
	StatusActive:  true,
	StatusExpired: true,
	StatusRevoked: true,
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return ValidStatuses[s]
}

// ServiceUserConsentKey is the primary identity of a consent record.
type ServiceUserConsentKey struct {
	ServiceID string
	UserID    string
	ConsentID string
}

// ServiceUserKey groups every consent a user granted to one service.
type ServiceUserKey struct {
	ServiceID string
	UserID    string
}
