package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/pagination"
	platformsync "github.com/Consent-Management-Platform/consent-management-api/pkg/platform/sync"
)

// InMemoryStore keeps consents in process memory. State is per instance.
//
// Writers for one identity serialize on a shard lock for the whole
// check-then-write; mu only guards the maps themselves.
type InMemoryStore struct {
	locks *platformsync.ShardedMutex

	mu            sync.RWMutex
	consents      map[models.ServiceUserConsentKey]*models.Consent
	byServiceUser map[models.ServiceUserKey][]models.ServiceUserConsentKey

	lockWait func(time.Duration)
}

// MemoryOption configures an InMemoryStore.
type MemoryOption func(*InMemoryStore)

// WithLockWaitObserver reports how long each write waited for its shard lock.
func WithLockWaitObserver(observe func(time.Duration)) MemoryOption {
	return func(s *InMemoryStore) {
		s.lockWait = observe
	}
}

// NewInMemory constructs an empty in-memory consent store.
func NewInMemory(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		locks:         platformsync.NewShardedMutex(),
		consents:      make(map[models.ServiceUserConsentKey]*models.Consent),
		byServiceUser: make(map[models.ServiceUserKey][]models.ServiceUserConsentKey),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) CreateServiceUserConsent(_ context.Context, consent *models.Consent) error {
	if err := models.Validate(consent); err != nil {
		return err
	}
	key := consent.Key()
	return s.withIdentityLock(key, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.consents[key]; ok {
			return alreadyExists(key)
		}
		stored := storedCopy(consent)
		s.consents[key] = stored
		group := consent.ServiceUserKey()
		s.byServiceUser[group] = append(s.byServiceUser[group], key)
		return nil
	})
}

func (s *InMemoryStore) GetServiceUserConsent(_ context.Context, serviceID, userID, consentID string) (*models.Consent, error) {
	key := models.ServiceUserConsentKey{ServiceID: serviceID, UserID: userID, ConsentID: consentID}
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.consents[key]
	if !ok {
		return nil, notFound(key)
	}
	out := stored.Clone()
	return &out, nil
}

// UpdateServiceUserConsent replaces the stored record in place, so the
// record keeps its list position.
func (s *InMemoryStore) UpdateServiceUserConsent(_ context.Context, consent *models.Consent) error {
	if err := models.Validate(consent); err != nil {
		return err
	}
	key := consent.Key()
	return s.withIdentityLock(key, func() error {
		s.mu.RLock()
		existing, ok := s.consents[key]
		s.mu.RUnlock()
		if !ok {
			return notFound(key)
		}
		if err := models.ValidateNextVersion(*existing, *consent); err != nil {
			return err
		}

		updated := storedCopy(consent)
		s.mu.Lock()
		s.consents[key] = updated
		s.mu.Unlock()
		return nil
	})
}

// ListServiceUserConsents pages through a (service, user) pair in insertion
// order. Page tokens are base-10 offsets.
func (s *InMemoryStore) ListServiceUserConsents(_ context.Context, serviceID, userID string, limit *int, pageToken *string) (*pagination.ListPage[models.Consent], error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	offset, err := pagination.ParseOffsetToken(pageToken)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	keys := s.byServiceUser[models.ServiceUserKey{ServiceID: serviceID, UserID: userID}]
	all := make([]models.Consent, 0, len(keys))
	for _, key := range keys {
		all = append(all, s.consents[key].Clone())
	}
	s.mu.RUnlock()

	page := pagination.Paginate(all, limit, offset)
	return &page, nil
}

func (s *InMemoryStore) withIdentityLock(key models.ServiceUserConsentKey, fn func() error) error {
	lockKey := strings.Join([]string{key.ServiceID, key.UserID, key.ConsentID}, models.KeySeparator)
	start := time.Now()
	return s.locks.WithLock(lockKey, func() error {
		if s.lockWait != nil {
			s.lockWait(time.Since(start))
		}
		return fn()
	})
}

// storedCopy detaches the record from the caller and normalizes the expiry
// to UTC, matching what the DynamoDB backend returns.
func storedCopy(consent *models.Consent) *models.Consent {
	out := consent.Clone()
	if out.ExpiryTime != nil {
		utc := out.ExpiryTime.UTC()
		out.ExpiryTime = &utc
	}
	return &out
}
