package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/harrisonrobin/aledger/pkg/logger"
	"github.com/harrisonrobin/aledger/pkg/model"
	"go.etcd.io/bbolt"
)

const bucketKV = "kv"

// Keys of the persisted values.
const (
	KeyEntries    = "ai_ledger_entries"
	KeySheetURL   = "ai_ledger_sheet_url"
	KeyWebhookURL = "ai_ledger_webhook_url"
)

// ConfigField names one of the persisted destination strings.
type ConfigField string

const (
	SheetURL   ConfigField = "sheet"
	WebhookURL ConfigField = "webhook"
)

func (f ConfigField) key() (string, error) {
	switch f {
	case SheetURL:
		return KeySheetURL, nil
	case WebhookURL:
		return KeyWebhookURL, nil
	}
	return "", fmt.Errorf("unknown config field %q", string(f))
}

// Store is a keyed, string-valued store backed by a bolt file.
type Store struct {
	db  *bbolt.DB
	log *slog.Logger
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketKV))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, log: logger.L}, nil
}

// SetLogger replaces the logger used for swallowed load errors.
func (s *Store) SetLogger(l *slog.Logger) {
	s.log = l
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	var (
		val   string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketKV)).Get([]byte(key))
		if b != nil {
			val, found = string(b), true
		}
		return nil
	})
	if err != nil {
		s.log.Debug("store read failed", "key", key, "error", err)
		return "", false
	}
	return val, found
}

// Set writes value under key.
func (s *Store) Set(key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketKV)).Put([]byte(key), []byte(value))
	})
}

// Load returns the persisted configuration and entries. It never fails: a
// value that is missing or does not parse is treated as absent.
func (s *Store) Load() (model.Configuration, []model.LedgerEntry) {
	var cfg model.Configuration
	cfg.SheetURL, _ = s.Get(KeySheetURL)
	cfg.WebhookURL, _ = s.Get(KeyWebhookURL)

	raw, ok := s.Get(KeyEntries)
	if !ok || raw == "" {
		return cfg, nil
	}

	var entries []model.LedgerEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Debug("discarding unparsable entries", "error", err)
		return cfg, nil
	}
	return cfg, entries
}

// SaveEntries replaces the persisted collection.
func (s *Store) SaveEntries(entries []model.LedgerEntry) error {
	if entries == nil {
		entries = []model.LedgerEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	return s.Set(KeyEntries, string(data))
}

// SaveConfig overwrites one destination string.
func (s *Store) SaveConfig(field ConfigField, value string) error {
	key, err := field.key()
	if err != nil {
		return err
	}
	return s.Set(key, value)
}
