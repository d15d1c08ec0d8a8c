package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage keeps the local journal of records already accepted by the server.

// Store tracks fingerprints of submitted records.
type Store interface {
	Close() error
	SeenRecord(fingerprint string) (bool, error)
	MarkRecord(fingerprint, recordID string) error
	Entries() ([]Entry, error)
}

// Entry is one live journal row.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	RecordID    string    `json:"record_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RecordTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRecordTTL       = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RecordTTL <= 0 {
		opts.RecordTTL = defaultRecordTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                    { return nil }
func (noopStore) SeenRecord(string) (bool, error) { return false, nil }
func (noopStore) MarkRecord(string, string) error { return nil }
func (noopStore) Entries() ([]Entry, error)       { return nil, nil }
