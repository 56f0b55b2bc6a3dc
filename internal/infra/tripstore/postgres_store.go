package tripstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
)

// PostgresStore keeps each document as one row in a key/value table,
// mirroring the blob layout of the other backends.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store and ensures its table exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trip_documents (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

// LoadBlob implements trip.Store.
func (s *PostgresStore) LoadBlob(ctx context.Context) ([]byte, bool, error) {
	return s.get(ctx, trip.CurrentKey)
}

// SaveBlob implements trip.Store.
func (s *PostgresStore) SaveBlob(ctx context.Context, blob []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO trip_documents (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`, trip.CurrentKey, blob)
	return err
}

// LoadLegacy implements trip.Store.
func (s *PostgresStore) LoadLegacy(ctx context.Context) (trip.LegacyBlobs, bool, error) {
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
func (s *PostgresStore) DeleteLegacy(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM trip_documents WHERE key = ANY($1)
	`, []string{trip.LegacyKeySchedule, trip.LegacyKeyExpenses, trip.LegacyKeyShopping})
	return err
}

func (s *PostgresStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload FROM trip_documents WHERE key = $1
	`, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

var _ trip.Store = (*PostgresStore)(nil)
