package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	recordBucket     = "recodes"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB. Values are an 8-byte
// big-endian expiry followed by the record id.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	recordTTL       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recordBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		recordTTL:       opts.RecordTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenRecord reports whether a live journal entry exists for fingerprint.
// Expired entries found on lookup are deleted.
func (b *boltStore) SeenRecord(fingerprint string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var exists bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		if bucket == nil {
			return fmt.Errorf("recode bucket missing")
		}

		key := []byte(fingerprint)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		entry, ok := decodeEntry(fingerprint, value)
		if !ok || !entry.ExpiresAt.After(now) {
			return bucket.Delete(key)
		}

		exists = true
		return nil
	})
	return exists, err
}

// MarkRecord journals fingerprint for recordID until now+TTL.
func (b *boltStore) MarkRecord(fingerprint, recordID string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		if bucket == nil {
			return fmt.Errorf("recode bucket missing")
		}
		return bucket.Put([]byte(fingerprint), encodeEntry(now.Add(b.recordTTL), recordID))
	})
}

// Entries lists live journal entries ordered by record id.
func (b *boltStore) Entries() ([]Entry, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	now := b.now()
	var out []Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		if bucket == nil {
			return fmt.Errorf("recode bucket missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			entry, ok := decodeEntry(string(k), v)
			if ok && entry.ExpiresAt.After(now) {
				out = append(out, entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordID == out[j].RecordID {
			return out[i].Fingerprint < out[j].Fingerprint
		}
		return out[i].RecordID < out[j].RecordID
	})
	return out, nil
}

// maybeCleanupExpired drops expired entries at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))
		if bucket == nil {
			return fmt.Errorf("recode bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			entry, ok := decodeEntry(string(k), v)
			if !ok || !entry.ExpiresAt.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeEntry(expiry time.Time, recordID string) []byte {
	buf := make([]byte, expiryValueBytes+len(recordID))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	copy(buf[expiryValueBytes:], recordID)
	return buf
}

func decodeEntry(fingerprint string, value []byte) (Entry, bool) {
	if len(value) < expiryValueBytes {
		return Entry{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return Entry{}, false
	}
	return Entry{
		Fingerprint: fingerprint,
		RecordID:    string(value[expiryValueBytes:]),
		ExpiresAt:   time.Unix(unix, 0),
	}, true
}
