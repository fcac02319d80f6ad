package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var conversationsBucket = []byte("conversations")

// BoltBackend stores the snapshot in a BoltDB bucket, one key per entry.
type BoltBackend struct {
	path string
}

// NewBoltBackend returns a backend using the BoltDB file at path.
func NewBoltBackend(path string) *BoltBackend {
	return &BoltBackend{path: path}
}

func (b *BoltBackend) open(timeout time.Duration) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return nil, err
	}
	return bolt.Open(b.path, 0o600, &bolt.Options{Timeout: timeout})
}

// Load reads every entry of the bucket. Values that are not JSON are skipped.
func (b *BoltBackend) Load() (map[string]json.RawMessage, error) {
	db, err := b.open(time.Second)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	out := map[string]json.RawMessage{}
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(conversationsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			if !json.Valid(v) {
				return nil
			}
			// v is only valid for the life of the transaction.
			out[string(k)] = append(json.RawMessage(nil), v...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the bucket contents with entries in one transaction.
func (b *BoltBackend) Save(entries map[string]json.RawMessage) error {
	db, err := b.open(2 * time.Second)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(conversationsBucket) != nil {
			if err := tx.DeleteBucket(conversationsBucket); err != nil {
				return err
			}
		}
		bucket, err := tx.CreateBucket(conversationsBucket)
		if err != nil {
			return err
		}
		for k, v := range entries {
			if err := bucket.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}
