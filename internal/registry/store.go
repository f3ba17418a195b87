// internal/registry/store.go
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const projectPrefix = "project:"

// Project is one known project root with its most recent open time.
type Project struct {
	Root       string    `json:"root"`
	LastOpened time.Time `json:"last_opened"`
}

// Store keeps the global list of known project roots in most-recently-used
// order. It lives outside any single project, in the user's config area.
type Store struct {
	db *badger.DB
}

// DefaultDir returns the registry database location under the user config
// directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(base, "easy", "registry"), nil
}

// Open opens (or creates) the registry database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging noise
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening registry database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already open database. Tests use this with an
// in-memory instance.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

func makeKey(root string) []byte {
	return []byte(projectPrefix + root)
}

// Touch records that the project was just opened, inserting it if new.
func (s *Store) Touch(root string) error {
	p := Project{Root: root, LastOpened: time.Now()}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeKey(root), data)
	})
}

// Remove drops a project from the registry. Removing an unknown project
// is not an error.
func (s *Store) Remove(root string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeKey(root))
	})
}

// List returns all known projects, most recently opened first.
func (s *Store) List() ([]Project, error) {
	var projects []Project

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(projectPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if !bytes.HasPrefix(item.Key(), []byte(projectPrefix)) {
				continue
			}
			err := item.Value(func(val []byte) error {
				var p Project
				if err := json.Unmarshal(val, &p); err != nil {
					return err
				}
				projects = append(projects, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].LastOpened.After(projects[j].LastOpened)
	})
	return projects, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
