package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/canopydev/canopy/internal/repo"
)

func mustRepo(t *testing.T, uri, root string) *repo.Repo {
	t.Helper()
	r, err := repo.New(uri, root, repo.LayoutHost)
	if err != nil {
		t.Fatalf("repo.New(%q) failed: %v", uri, err)
	}
	return r
}

func TestLoadBootstrapsMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metadata.json")

	s, err := Load(path, "/ws", repo.LayoutHost)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Version != Version1 {
		t.Errorf("Version = %q, want %q", s.Version, Version1)
	}
	if len(s.Repos) != 0 {
		t.Errorf("bootstrap store has %d repos, want 0", len(s.Repos))
	}

	// Bootstrap persists the default store.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("bootstrap did not persist the store: %v", err)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metadata.json")

	s := &Store{Version: Version1}
	s.AddRepo(mustRepo(t, "git@github.com:u/a.git", "/ws"))
	s.AddRepo(mustRepo(t, "https://github.com/u/b.git", "/ws"))
	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path, "/ws", repo.LayoutHost)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Repos) != 2 {
		t.Fatalf("loaded %d repos, want 2", len(loaded.Repos))
	}
	if loaded.Repos[0].Identity.Repo != "a" || loaded.Repos[1].Identity.Repo != "b" {
		t.Errorf("order not preserved: %q, %q", loaded.Repos[0].Identity.Repo, loaded.Repos[1].Identity.Repo)
	}
}

func TestHasRepoProtocolInsensitive(t *testing.T) {
	t.Parallel()

	s := &Store{Version: Version1}
	s.AddRepo(mustRepo(t, "git@github.com:u/r.git", "/ws"))

	if !s.HasRepo(mustRepo(t, "https://github.com/u/r.git", "/ws")) {
		t.Error("HasRepo should match the same remote added via another protocol")
	}
	if s.HasRepo(mustRepo(t, "git@github.com:u/r.git", "/other")) {
		t.Error("HasRepo should not match across roots")
	}
	if s.HasRepo(mustRepo(t, "git@github.com:u/other.git", "/ws")) {
		t.Error("HasRepo matched a different repo")
	}
}

func TestRemoveRepo(t *testing.T) {
	t.Parallel()

	s := &Store{Version: Version1}
	s.AddRepo(mustRepo(t, "git@github.com:u/a.git", "/ws"))
	s.AddRepo(mustRepo(t, "git@github.com:u/b.git", "/ws"))

	// Removal follows the identity policy: HTTPS form removes the SSH entry.
	if err := s.RemoveRepo(mustRepo(t, "https://github.com/u/a.git", "/ws")); err != nil {
		t.Fatalf("RemoveRepo failed: %v", err)
	}
	if len(s.Repos) != 1 || s.Repos[0].Identity.Repo != "b" {
		t.Errorf("store after remove = %+v", s.Repos)
	}

	err := s.RemoveRepo(mustRepo(t, "git@github.com:u/gone.git", "/ws"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveRepo of absent repo = %v, want ErrNotFound", err)
	}
}

func TestDeduplicate(t *testing.T) {
	t.Parallel()

	s := &Store{Version: Version1}
	// Insertion order by directory: B, A, C, B, A.
	s.AddRepo(mustRepo(t, "git@github.com:u/b.git", "/ws"))
	s.AddRepo(mustRepo(t, "git@github.com:u/a.git", "/ws"))
	s.AddRepo(mustRepo(t, "git@github.com:u/c.git", "/ws"))
	s.AddRepo(mustRepo(t, "https://github.com/u/b.git", "/ws"))
	s.AddRepo(mustRepo(t, "https://github.com/u/a.git", "/ws"))

	removed := s.Deduplicate()
	if removed != 2 {
		t.Errorf("Deduplicate removed %d, want 2", removed)
	}

	var order []string
	for i := range s.Repos {
		order = append(order, s.Repos[i].Identity.Repo)
	}
	want := []string{"b", "a", "c"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("surviving order = %v, want %v", order, want)
		}
	}

	// First-seen occurrence survives: b was added via SSH first.
	if s.Repos[0].Identity.Protocol != "ssh" {
		t.Errorf("survivor protocol = %q, want the first-inserted ssh entry", s.Repos[0].Identity.Protocol)
	}

	// Idempotent.
	if removed := s.Deduplicate(); removed != 0 {
		t.Errorf("second Deduplicate removed %d, want 0", removed)
	}
}

func TestFindByDir(t *testing.T) {
	t.Parallel()

	s := &Store{Version: Version1}
	r := mustRepo(t, "git@github.com:u/r.git", "/ws")
	s.AddRepo(r)

	found, err := s.FindByDir(r.Dir)
	if err != nil {
		t.Fatalf("FindByDir failed: %v", err)
	}
	if found.Identity.Repo != "r" {
		t.Errorf("FindByDir returned %q", found.Identity.Repo)
	}

	if _, err := s.FindByDir("/ws/github.com/u/none"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByDir of absent dir = %v, want ErrNotFound", err)
	}
}
