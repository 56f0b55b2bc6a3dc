package trip

import (
	"context"
	"io"
)

// Store is the persistence contract for the trip document. Implementations
// hold one JSON blob under the current versioned key plus, possibly, the
// three raw-array keys left behind by the pre-versioned scheme.
type Store interface {
	// LoadBlob reads the current-version document. ok is false when absent.
	LoadBlob(ctx context.Context) (blob []byte, ok bool, err error)
	// SaveBlob replaces the current-version document. Last write wins.
	SaveBlob(ctx context.Context, blob []byte) error
	// LoadLegacy reads the pre-versioned per-collection keys. ok is false
	// when none of them exist.
	LoadLegacy(ctx context.Context) (legacy LegacyBlobs, ok bool, err error)
	// DeleteLegacy removes the pre-versioned keys. Idempotent.
	DeleteLegacy(ctx context.Context) error
}

// LegacyBlobs carries the raw JSON arrays of the pre-versioned key scheme.
// A nil field means the key was absent.
type LegacyBlobs struct {
	Schedule []byte
	Expenses []byte
	Shopping []byte
}

// Empty reports whether no legacy key was present at all.
func (l LegacyBlobs) Empty() bool {
	return l.Schedule == nil && l.Expenses == nil && l.Shopping == nil
}

// PhotoStorage abstracts blob storage for shopping and banner photos.
type PhotoStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredPhoto, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// StoredPhoto captures persisted blob metadata.
type StoredPhoto struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}
