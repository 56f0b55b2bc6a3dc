package tripstore

import (
	"context"

	"github.com/valkey-io/valkey-go"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
)

// ValkeyStore persists the trip document using a Valkey-compatible
// database.
type ValkeyStore struct {
	client valkey.Client
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

// LoadBlob implements trip.Store.
func (s *ValkeyStore) LoadBlob(ctx context.Context) ([]byte, bool, error) {
	return s.get(ctx, trip.CurrentKey)
}

// SaveBlob implements trip.Store.
func (s *ValkeyStore) SaveBlob(ctx context.Context, blob []byte) error {
	cmd := s.client.B().Set().Key(trip.CurrentKey).Value(string(blob)).Build()
	return s.client.Do(ctx, cmd).Error()
}

// LoadLegacy implements trip.Store.
func (s *ValkeyStore) LoadLegacy(ctx context.Context) (trip.LegacyBlobs, bool, error) {
	var legacy trip.LegacyBlobs
	for _, pair := range []struct {
		key  string
		dest *[]byte
	}{
		{trip.LegacyKeySchedule, &legacy.Schedule},
		{trip.LegacyKeyExpenses, &legacy.Expenses},
		{trip.LegacyKeyShopping, &legacy.Shopping},
	} {
		blob, ok, err := s.get(ctx, pair.key)
		if err != nil {
			return trip.LegacyBlobs{}, false, err
		}
		if ok {
			*pair.dest = blob
		}
	}
	if legacy.Empty() {
		return trip.LegacyBlobs{}, false, nil
	}
	return legacy, true, nil
}

// DeleteLegacy implements trip.Store.
func (s *ValkeyStore) DeleteLegacy(ctx context.Context) error {
	cmd := s.client.B().Del().
		Key(trip.LegacyKeySchedule, trip.LegacyKeyExpenses, trip.LegacyKeyShopping).
		Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	result := s.client.Do(ctx, s.client.B().Get().Key(key).Build())
	payload, err := result.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(payload), true, nil
}

var _ trip.Store = (*ValkeyStore)(nil)
