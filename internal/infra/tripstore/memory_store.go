package tripstore

import (
	"context"
	"sync"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
)

// MemoryStore is an in-memory implementation of the trip store for
// tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	blob   []byte
	legacy map[string][]byte
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		legacy: make(map[string][]byte),
	}
}

// SeedLegacy installs pre-versioned keys, used by migration tests.
func (s *MemoryStore) SeedLegacy(schedule, expenses, shopping []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if schedule != nil {
		s.legacy[trip.LegacyKeySchedule] = schedule
	}
	if expenses != nil {
		s.legacy[trip.LegacyKeyExpenses] = expenses
	}
	if shopping != nil {
		s.legacy[trip.LegacyKeyShopping] = shopping
	}
}

// LoadBlob implements trip.Store.
func (s *MemoryStore) LoadBlob(_ context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.blob == nil {
		return nil, false, nil
	}
	out := make([]byte, len(s.blob))
	copy(out, s.blob)
	return out, true, nil
}

// SaveBlob implements trip.Store.
func (s *MemoryStore) SaveBlob(_ context.Context, blob []byte) error {
	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.mu.Lock()
	s.blob = stored
	s.mu.Unlock()
	return nil
}

// LoadLegacy implements trip.Store.
func (s *MemoryStore) LoadLegacy(_ context.Context) (trip.LegacyBlobs, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	legacy := trip.LegacyBlobs{
		Schedule: s.legacy[trip.LegacyKeySchedule],
		Expenses: s.legacy[trip.LegacyKeyExpenses],
		Shopping: s.legacy[trip.LegacyKeyShopping],
	}
	if legacy.Empty() {
		return trip.LegacyBlobs{}, false, nil
	}
	return legacy, true, nil
}

// DeleteLegacy implements trip.Store.
func (s *MemoryStore) DeleteLegacy(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.legacy, trip.LegacyKeySchedule)
	delete(s.legacy, trip.LegacyKeyExpenses)
	delete(s.legacy, trip.LegacyKeyShopping)
	return nil
}

var _ trip.Store = (*MemoryStore)(nil)
