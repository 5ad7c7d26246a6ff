// Package metadata manages the repository metadata store, the single
// source of truth for recorded repositories.
//
// The store is one JSON file in the canopy data directory, tagged with
// a schema version for forward migration. Access is single-threaded:
// commands load the store once, mutate it in memory and save it at
// most once. Concurrent invocations race (last writer wins); an
// accepted limitation, not papered over here.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canopydev/canopy/internal/repo"
	"github.com/canopydev/canopy/internal/storage"
)

// Version1 is the current schema version.
const Version1 = "v1"

const fileName = "metadata.json"

// ErrNotFound reports a repository that is not in the store.
var ErrNotFound = errors.New("repository not found")

// Store holds all recorded repositories, in insertion order.
type Store struct {
	Version string      `json:"version"`
	Repos   []repo.Repo `json:"repos"`
}

// Path returns the path to the metadata file.
func Path() (string, error) {
	dir, err := storage.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// defaultStore returns an empty v1 store.
func defaultStore() *Store {
	return &Store{Version: Version1, Repos: []repo.Repo{}}
}

// Load reads the store from path.
//
// A missing file is first-run bootstrap, not an error: the default
// empty store is materialized, persisted and returned. Older schema
// shapes are upgraded on load (see migrate.go); legacyRoot and layout
// supply the context the v0 shape did not record. Unknown future
// versions are a hard error.
func Load(path, legacyRoot string, layout repo.Layout) (*Store, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		s := defaultStore()
		if err := s.Save(path); err != nil {
			return nil, fmt.Errorf("bootstrap metadata store: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat metadata store: %w", err)
	}

	s, upgraded, err := load(path, legacyRoot, layout)
	if err != nil {
		return nil, err
	}

	// Persist upgrades immediately so the old shape is read only once.
	if upgraded {
		if err := s.Save(path); err != nil {
			return nil, fmt.Errorf("persist upgraded metadata store: %w", err)
		}
	}

	return s, nil
}

// Save writes the store to path atomically.
func (s *Store) Save(path string) error {
	return storage.SaveJSON(path, s)
}

// HasRepo reports whether the store records the same logical
// repository as candidate.
//
// The equality policy is identity-based, not string-based: two
// entities match iff (hostname, user, repo, root) are equal,
// regardless of protocol or raw URI text. A repository added via SSH
// can be referenced via HTTPS without creating a duplicate.
func (s *Store) HasRepo(candidate *repo.Repo) bool {
	for i := range s.Repos {
		if s.Repos[i].SameRepo(candidate) {
			return true
		}
	}
	return false
}

// AddRepo appends an entity to the store. It does not enforce
// uniqueness; callers check HasRepo first.
func (s *Store) AddRepo(r *repo.Repo) {
	s.Repos = append(s.Repos, *r)
}

// RemoveRepo removes all entities matching candidate under the same
// identity policy as HasRepo. Returns ErrNotFound if nothing matched.
func (s *Store) RemoveRepo(candidate *repo.Repo) error {
	kept := s.Repos[:0]
	removed := 0
	for i := range s.Repos {
		if s.Repos[i].SameRepo(candidate) {
			removed++
			continue
		}
		kept = append(kept, s.Repos[i])
	}
	s.Repos = kept

	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, candidate.Name())
	}
	return nil
}

// FindByDir returns the entity whose directory is dir.
func (s *Store) FindByDir(dir string) (*repo.Repo, error) {
	for i := range s.Repos {
		if s.Repos[i].Dir == dir {
			return &s.Repos[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
}

// Deduplicate collapses entities sharing the same directory, the
// strongest unique key, since it is filesystem-derived. For each group
// the first-encountered occurrence (by original insertion order) is
// kept; non-duplicate entries keep their relative order. Idempotent.
// Returns the number of entities removed.
func (s *Store) Deduplicate() int {
	seen := make(map[string]bool, len(s.Repos))
	kept := s.Repos[:0]
	removed := 0

	for i := range s.Repos {
		if seen[s.Repos[i].Dir] {
			removed++
			continue
		}
		seen[s.Repos[i].Dir] = true
		kept = append(kept, s.Repos[i])
	}

	s.Repos = kept
	return removed
}
