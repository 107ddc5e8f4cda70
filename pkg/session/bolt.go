package session

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketSessions = "sessions"

// BoltStore keeps sessions in a single bbolt file, for single-node
// deployments that should survive restarts without Redis.
//
// Each value is the expiry as big-endian Unix nanoseconds followed by
// the data.
type BoltStore struct {
	db     *bolt.DB
	closed atomic.Bool
	now    func() time.Time
}

// OpenBolt opens (creating if needed) the database file at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSessions))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

// Save stores session data with an expiration time.
func (b *BoltStore) Save(ctx context.Context, sessionID string, data []byte, expiresAt time.Time) error {
	if b.closed.Load() {
		return ErrStoreClosed{}
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Put([]byte(sessionID), encodeBoltValue(data, expiresAt))
	})
}

// Load retrieves session data if it exists and hasn't expired.
func (b *BoltStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrStoreClosed{}
	}
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSessions)).Get([]byte(sessionID))
		if len(v) < 8 {
			return nil
		}
		if b.now().After(boltExpiry(v)) {
			return nil
		}
		// v is only valid inside the transaction.
		out = make([]byte, len(v)-8)
		copy(out, v[8:])
		return nil
	})
	return out, err
}

// Delete removes a session.
func (b *BoltStore) Delete(ctx context.Context, sessionID string) error {
	if b.closed.Load() {
		return ErrStoreClosed{}
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Delete([]byte(sessionID))
	})
}

// Touch rewrites the expiry of an existing session.
func (b *BoltStore) Touch(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if b.closed.Load() {
		return ErrStoreClosed{}
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketSessions))
		v := bucket.Get([]byte(sessionID))
		if len(v) < 8 {
			return nil
		}
		return bucket.Put([]byte(sessionID), encodeBoltValue(v[8:], expiresAt))
	})
}

// Prune deletes expired sessions and returns how many were removed.
func (b *BoltStore) Prune() (int, error) {
	if b.closed.Load() {
		return 0, ErrStoreClosed{}
	}
	now := b.now()
	n := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketSessions))
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if len(v) < 8 || now.After(boltExpiry(v)) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		n = len(expired)
		return nil
	})
	return n, err
}

// Close closes the database file.
func (b *BoltStore) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	return b.db.Close()
}

func encodeBoltValue(data []byte, expiresAt time.Time) []byte {
	v := make([]byte, 8+len(data))
	binary.BigEndian.PutUint64(v, uint64(expiresAt.UnixNano()))
	copy(v[8:], data)
	return v
}

func boltExpiry(v []byte) time.Time {
	return time.Unix(0, int64(binary.BigEndian.Uint64(v[:8])))
}
