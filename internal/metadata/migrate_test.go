package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/canopydev/canopy/internal/repo"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadUpgradesV0(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{"repos": ["git@github.com:u/a.git", "https://github.com/u/b.git", "not a remote"]}`)

	s, err := Load(path, "/ws", repo.LayoutHost)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Version != Version1 {
		t.Errorf("Version after upgrade = %q, want %q", s.Version, Version1)
	}
	if len(s.Repos) != 2 {
		t.Fatalf("upgraded %d repos, want 2 (unparseable entry dropped)", len(s.Repos))
	}
	if s.Repos[0].Dir != filepath.Join("/ws", "github.com", "u", "a") {
		t.Errorf("upgraded dir = %q", s.Repos[0].Dir)
	}
	if s.Repos[0].Root != "/ws" {
		t.Errorf("upgraded root = %q, want legacy root", s.Repos[0].Root)
	}

	// Upgrade is persisted: a reload sees v1 directly.
	reloaded, err := Load(path, "/elsewhere", repo.LayoutFlat)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Version != Version1 || len(reloaded.Repos) != 2 {
		t.Errorf("reload after upgrade = version %q, %d repos", reloaded.Version, len(reloaded.Repos))
	}
	if reloaded.Repos[0].Root != "/ws" {
		t.Errorf("reload root = %q, legacy root should be baked in", reloaded.Repos[0].Root)
	}
}

func TestLoadUpgradesV0FlatLayout(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{"repos": ["git@github.com:u/a.git"]}`)

	s, err := Load(path, "/ws", repo.LayoutFlat)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Repos) != 1 {
		t.Fatalf("upgraded %d repos, want 1", len(s.Repos))
	}
	if s.Repos[0].Dir != filepath.Join("/ws", "u", "a") {
		t.Errorf("flat-layout dir = %q", s.Repos[0].Dir)
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{"version": "v9", "repos": []}`)

	if _, err := Load(path, "/ws", repo.LayoutHost); err == nil {
		t.Fatal("Load of future schema version succeeded, want hard error")
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{"version": "v1", "repos": [`)

	if _, err := Load(path, "/ws", repo.LayoutHost); err == nil {
		t.Fatal("Load of corrupt file succeeded, want error")
	}
}
