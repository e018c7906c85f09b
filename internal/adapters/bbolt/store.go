// Package bbolt implements the ports.DictionaryStore interface using bbolt
// (embedded B+ tree). All dictionaries live in one "dictionaries" bucket keyed
// by name; values are binary-encoded pattern lists. Writes are transactional:
// a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"fmt"
	"time"

	"github.com/corey/acmatch/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var bucketDictionaries = []byte("dictionaries")

// Store implements ports.DictionaryStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDictionary persists dict under dict.Name and stamps dict.UpdatedAt.
func (s *Store) SaveDictionary(dict *ports.Dictionary) error {
	if dict == nil {
		return fmt.Errorf("nil dictionary")
	}
	if dict.Name == "" {
		return fmt.Errorf("dictionary name is empty")
	}

	updatedAt := s.now().Unix()
	data := encodePatterns(dict.Patterns, updatedAt)

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketDictionaries)
		if err != nil {
			return err
		}
		return b.Put([]byte(dict.Name), data)
	})
	if err != nil {
		return fmt.Errorf("save dictionary %q: %w", dict.Name, err)
	}
	dict.UpdatedAt = updatedAt
	return nil
}

// LoadDictionary retrieves a dictionary by name.
// Returns nil, nil if it does not exist.
func (s *Store) LoadDictionary(name string) (*ports.Dictionary, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	patterns, updatedAt, err := decodePatterns(data)
	if err != nil {
		return nil, fmt.Errorf("decode dictionary %q: %w", name, err)
	}
	return &ports.Dictionary{Name: name, Patterns: patterns, UpdatedAt: updatedAt}, nil
}

// ListDictionaries returns all dictionary names in key order.
func (s *Store) ListDictionaries() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// DeleteDictionary removes a dictionary.
// Idempotent: deleting a nonexistent dictionary is not an error.
func (s *Store) DeleteDictionary(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDictionaries)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}

var _ ports.DictionaryStore = (*Store)(nil)
