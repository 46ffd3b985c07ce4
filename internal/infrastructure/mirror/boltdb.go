package mirror

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	keyVersion   = []byte("version")
	keyBody      = []byte("body")
	keyUpdatedAt = []byte("updated_at")
)

// Store keeps the last document that was successfully loaded from or written
// to the snapshot provider, so reads can degrade to it while the provider is
// unreachable.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "mirror"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Put replaces the mirrored document. Version and body are written in a
// single transaction.
func (s *Store) Put(version string, body []byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	stamp, err := time.Now().UTC().MarshalText()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if err := b.Put(keyVersion, []byte(version)); err != nil {
			return err
		}
		if err := b.Put(keyBody, body); err != nil {
			return err
		}
		return b.Put(keyUpdatedAt, stamp)
	})
}

// Get returns the mirrored document. ok is false when nothing was mirrored yet.
func (s *Store) Get() (version string, body []byte, ok bool, err error) {
	if s == nil || s.db == nil {
		return "", nil, false, bolt.ErrDatabaseNotOpen
	}
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		raw := b.Get(keyBody)
		if raw == nil {
			return nil
		}
		// Values are only valid inside the transaction.
		body = append([]byte(nil), raw...)
		version = string(b.Get(keyVersion))
		ok = true
		return nil
	})
	return version, body, ok, err
}

// UpdatedAt reports when the mirror was last refreshed.
func (s *Store) UpdatedAt() (time.Time, error) {
	if s == nil || s.db == nil {
		return time.Time{}, bolt.ErrDatabaseNotOpen
	}
	var ts time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get(keyUpdatedAt)
		if raw == nil {
			return nil
		}
		return ts.UnmarshalText(raw)
	})
	return ts, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}
