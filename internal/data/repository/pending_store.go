package repository

import (
	"context"
	"sync"
	"time"

	"dcms/internal/data/entity"

	"go.uber.org/zap"
)

// PendingStore holds at most one pending registration per email. Put replaces
// any existing entry atomically.
type PendingStore interface {
	Put(ctx context.Context, p *entity.PendingRegistration) error
	// Get returns nil, nil when no entry exists.
	Get(ctx context.Context, email string) (*entity.PendingRegistration, error)
	// DeleteIfCode removes the entry only while it still carries code.
	DeleteIfCode(ctx context.Context, email, code string) (bool, error)
	// DeleteExpired removes every entry that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type memoryPendingStore struct {
	mu      sync.RWMutex
	entries map[string]entity.PendingRegistration
	log     *zap.Logger
}

// NewMemoryPendingStore keeps pending registrations in process memory.
func NewMemoryPendingStore(log *zap.Logger) PendingStore {
	return &memoryPendingStore{
		entries: make(map[string]entity.PendingRegistration),
		log:     log.With(zap.String("repository", "pending_memory")),
	}
}

func (s *memoryPendingStore) Put(_ context.Context, p *entity.PendingRegistration) error {
	s.mu.Lock()
	s.entries[p.Email] = *p
	s.mu.Unlock()
	return nil
}

func (s *memoryPendingStore) Get(_ context.Context, email string) (*entity.PendingRegistration, error) {
	s.mu.RLock()
	p, ok := s.entries[email]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memoryPendingStore) DeleteIfCode(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[email]
	if !ok || p.Code != code {
		return false, nil
	}
	delete(s.entries, email)
	return true, nil
}

// DeleteExpired collects candidates under the read lock and then takes the
// write lock once per key, re-checking expiry in case the entry was replaced.
func (s *memoryPendingStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.RLock()
	var expired []string
	for email, p := range s.entries {
		if p.Expired(now) {
			expired = append(expired, email)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, email := range expired {
		s.mu.Lock()
		if p, ok := s.entries[email]; ok && p.Expired(now) {
			delete(s.entries, email)
			removed++
		}
		s.mu.Unlock()
	}

	if removed > 0 {
		s.log.Debug("Expired pending registrations removed", zap.Int("count", removed))
	}
	return removed, nil
}
