// Package scan discovers existing clones under the workspace roots so
// they can be recorded in the metadata store.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/canopydev/canopy/internal/repo"
)

// OriginFunc reads the origin remote URL of a clone. Injected so the
// walk is testable without a git binary.
type OriginFunc func(ctx context.Context, dir string) (string, error)

// Warning is a non-fatal problem with a single discovered directory.
// Scanning never fails as a whole because one clone is broken.
type Warning struct {
	Dir string
	Err error
}

// Roots walks the given roots at the layout depth and builds entities
// for every clone found. Origin URLs are read through a bounded worker
// group; results keep a stable order (by root, then directory order
// within it). Directories whose origin cannot be read or parsed, or
// whose remote identity does not map back to their location, are
// reported as warnings and skipped.
func Roots(ctx context.Context, roots []string, layout repo.Layout, origin OriginFunc) ([]repo.Repo, []Warning) {
	type result struct {
		repo    *repo.Repo
		warning *Warning
	}

	type candidate struct {
		root string
		dir  string
	}

	var candidates []candidate
	var warnings []Warning
	for _, root := range roots {
		dirs, err := cloneDirs(root, layout)
		if err != nil {
			warnings = append(warnings, Warning{Dir: root, Err: err})
			continue
		}
		for _, dir := range dirs {
			candidates = append(candidates, candidate{root: root, dir: dir})
		}
	}

	results := make([]result, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8) // bound concurrent git invocations

	for i, c := range candidates {
		g.Go(func() error {
			r, warn := inspect(ctx, c.root, c.dir, layout, origin)
			results[i] = result{repo: r, warning: warn}
			return nil // never fail, problems are warnings
		})
	}
	_ = g.Wait()

	var repos []repo.Repo
	for _, r := range results {
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
			continue
		}
		if r.repo != nil {
			repos = append(repos, *r.repo)
		}
	}
	return repos, warnings
}

// inspect builds an entity for a single clone directory.
func inspect(ctx context.Context, root, dir string, layout repo.Layout, origin OriginFunc) (*repo.Repo, *Warning) {
	url, err := origin(ctx, dir)
	if err != nil {
		return nil, &Warning{Dir: dir, Err: fmt.Errorf("read origin: %w", err)}
	}

	r, err := repo.New(url, root, layout)
	if err != nil {
		return nil, &Warning{Dir: dir, Err: err}
	}

	// A clone whose remote identity does not derive back to where it
	// was found is outside the layout rules; recording it would point
	// the store at a directory that does not exist.
	if r.Dir != dir {
		return nil, &Warning{Dir: dir, Err: fmt.Errorf("remote %s maps to %s, not its location", url, r.Dir)}
	}

	return r, nil
}

// cloneDirs enumerates directories at the layout depth under root that
// contain a .git directory. Linked worktrees (.git file) are not
// clones and are skipped.
func cloneDirs(root string, layout repo.Layout) ([]string, error) {
	depth := 3 // host/user/repo
	if layout == repo.LayoutFlat {
		depth = 2 // user/repo
	}

	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	level := []string{root}
	for i := 0; i < depth; i++ {
		var next []string
		for _, dir := range level {
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() {
					next = append(next, filepath.Join(dir, entry.Name()))
				}
			}
		}
		level = next
	}

	var dirs []string
	for _, dir := range level {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
