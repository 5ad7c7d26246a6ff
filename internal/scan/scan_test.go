package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/canopydev/canopy/internal/repo"
)

// makeClone creates a fake clone directory with a .git directory.
func makeClone(t *testing.T, root string, segments ...string) string {
	t.Helper()
	dir := filepath.Join(append([]string{root}, segments...)...)
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

// staticOrigins returns an OriginFunc serving a fixed dir→URL map.
func staticOrigins(origins map[string]string) OriginFunc {
	return func(_ context.Context, dir string) (string, error) {
		url, ok := origins[dir]
		if !ok {
			return "", errors.New("no origin configured")
		}
		return url, nil
	}
}

func TestRootsDiscoversClones(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := makeClone(t, root, "github.com", "u", "a")
	b := makeClone(t, root, "github.com", "u", "b")

	// Not clones: wrong depth, no .git, linked worktree.
	if err := os.MkdirAll(filepath.Join(root, "github.com", "u", "nogit"), 0o755); err != nil {
		t.Fatal(err)
	}
	wt := filepath.Join(root, "github.com", "u", "wt")
	if err := os.MkdirAll(wt, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(wt, ".git"), []byte("gitdir: elsewhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	origins := staticOrigins(map[string]string{
		a: "git@github.com:u/a.git",
		b: "https://github.com/u/b.git",
	})

	repos, warnings := Roots(context.Background(), []string{root}, repo.LayoutHost, origins)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(repos) != 2 {
		t.Fatalf("discovered %d repos, want 2", len(repos))
	}
	if repos[0].Dir != a || repos[1].Dir != b {
		t.Errorf("stable order broken: %q, %q", repos[0].Dir, repos[1].Dir)
	}
}

func TestRootsFlatLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := makeClone(t, root, "u", "a")

	origins := staticOrigins(map[string]string{a: "git@github.com:u/a.git"})

	repos, warnings := Roots(context.Background(), []string{root}, repo.LayoutFlat, origins)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(repos) != 1 || repos[0].Dir != a {
		t.Fatalf("flat-layout discovery = %+v", repos)
	}
}

func TestRootsWarnsOnBrokenClones(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	noOrigin := makeClone(t, root, "github.com", "u", "no-origin")
	badURL := makeClone(t, root, "github.com", "u", "bad-url")
	misplaced := makeClone(t, root, "github.com", "u", "misplaced")
	good := makeClone(t, root, "github.com", "u", "good")

	origins := staticOrigins(map[string]string{
		badURL: "not a remote at all",
		// remote says the clone should live at .../u/elsewhere
		misplaced: "git@github.com:u/elsewhere.git",
		good:      "git@github.com:u/good.git",
	})

	repos, warnings := Roots(context.Background(), []string{root}, repo.LayoutHost, origins)
	if len(repos) != 1 || repos[0].Dir != good {
		t.Fatalf("repos = %+v, want only the good clone", repos)
	}
	if len(warnings) != 3 {
		t.Fatalf("got %d warnings, want 3: %v", len(warnings), warnings)
	}
	for _, w := range warnings {
		if w.Dir != noOrigin && w.Dir != badURL && w.Dir != misplaced {
			t.Errorf("unexpected warning for %q: %v", w.Dir, w.Err)
		}
	}
}

func TestRootsMissingRoot(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope")
	repos, warnings := Roots(context.Background(), []string{missing}, repo.LayoutHost, staticOrigins(nil))
	if len(repos) != 0 {
		t.Errorf("repos = %+v, want none", repos)
	}
	if len(warnings) != 1 || warnings[0].Dir != missing {
		t.Errorf("warnings = %v, want one for the missing root", warnings)
	}
}

func TestRootsManyClones(t *testing.T) {
	t.Parallel()

	// More clones than the worker limit, to exercise the bounded group.
	root := t.TempDir()
	origins := make(map[string]string)
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("r%02d", i)
		dir := makeClone(t, root, "github.com", "u", name)
		origins[dir] = fmt.Sprintf("git@github.com:u/%s.git", name)
	}

	repos, warnings := Roots(context.Background(), []string{root}, repo.LayoutHost, staticOrigins(origins))
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(repos) != 20 {
		t.Fatalf("discovered %d repos, want 20", len(repos))
	}
	for i := 1; i < len(repos); i++ {
		if repos[i-1].Dir >= repos[i].Dir {
			t.Fatalf("order not stable: %q before %q", repos[i-1].Dir, repos[i].Dir)
		}
	}
}
