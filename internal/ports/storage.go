// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// DictionaryStore persists named pattern dictionaries to durable storage.
// Only the raw pattern lists are stored; the automaton is always rebuilt from
// them and never written to disk. Concurrent reads are safe; writes are
// serialized by the adapter.
//
// Crash safety: SaveDictionary must be transactional. A crash mid-write must
// not corrupt previously committed dictionaries.
type DictionaryStore interface {
	// SaveDictionary persists a dictionary under dict.Name.
	// Overwrites any prior dictionary with the same name.
	SaveDictionary(dict *Dictionary) error

	// LoadDictionary retrieves a dictionary by name.
	// Returns nil, nil if no dictionary exists under that name.
	LoadDictionary(name string) (*Dictionary, error)

	// ListDictionaries returns the names of all stored dictionaries, sorted.
	ListDictionaries() ([]string, error)

	// DeleteDictionary removes a dictionary.
	// Idempotent: deleting a nonexistent dictionary is not an error.
	DeleteDictionary(name string) error
}

// Dictionary is a named, ordered list of byte patterns. Pattern order is
// significant: it determines the ids assigned when the automaton is built.
type Dictionary struct {
	Name      string
	Patterns  [][]byte
	UpdatedAt int64 // unix seconds of the last save
}

// Strings returns the patterns as strings, in order.
func (d *Dictionary) Strings() []string {
	out := make([]string, len(d.Patterns))
	for i, p := range d.Patterns {
		out[i] = string(p)
	}
	return out
}
