package tripstore

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
)

// BadgerStore keeps the trip document in an embedded Badger database so
// the service needs no external process in its default setup.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) the database directory.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// LoadBlob implements trip.Store.
func (s *BadgerStore) LoadBlob(_ context.Context) ([]byte, bool, error) {
	blob, err := s.get(trip.CurrentKey)
	if err != nil {
		return nil, false, err
	}
	if blob == nil {
		return nil, false, nil
	}
	return blob, true, nil
}

// SaveBlob implements trip.Store.
func (s *BadgerStore) SaveBlob(_ context.Context, blob []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(trip.CurrentKey), blob)
	})
}

// LoadLegacy implements trip.Store.
func (s *BadgerStore) LoadLegacy(_ context.Context) (trip.LegacyBlobs, bool, error) {
	var legacy trip.LegacyBlobs
	for _, pair := range []struct {
		key  string
		dest *[]byte
	}{
		{trip.LegacyKeySchedule, &legacy.Schedule},
		{trip.LegacyKeyExpenses, &legacy.Expenses},
		{trip.LegacyKeyShopping, &legacy.Shopping},
	} {
		blob, err := s.get(pair.key)
		if err != nil {
			return trip.LegacyBlobs{}, false, err
		}
		*pair.dest = blob
	}
	if legacy.Empty() {
		return trip.LegacyBlobs{}, false, nil
	}
	return legacy, true, nil
}

// DeleteLegacy implements trip.Store.
func (s *BadgerStore) DeleteLegacy(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{trip.LegacyKeySchedule, trip.LegacyKeyExpenses, trip.LegacyKeyShopping} {
			if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) get(key string) ([]byte, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

var _ trip.Store = (*BadgerStore)(nil)
