package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/canopydev/canopy/internal/cmd"
	"github.com/canopydev/canopy/internal/config"
	"github.com/canopydev/canopy/internal/git"
	"github.com/canopydev/canopy/internal/log"
	"github.com/canopydev/canopy/internal/metadata"
	"github.com/canopydev/canopy/internal/repo"
)

// loadStore loads the metadata store, bootstrapping it on first run.
// Returns the store and the path to save it back to.
func loadStore(cfg *config.Config) (*metadata.Store, string, error) {
	path, err := metadata.Path()
	if err != nil {
		return nil, "", fmt.Errorf("locate metadata store: %w", err)
	}

	store, err := metadata.Load(path, cfg.DefaultRoot(), cfg.RepoLayout())
	if err != nil {
		return nil, "", fmt.Errorf("load metadata store: %w", err)
	}

	return store, path, nil
}

// copyJump puts "cd <dir>" on the clipboard so the user can paste it
// into their shell. Clipboard failures (headless sessions, missing
// xclip) are logged, not fatal: the path is still printed.
func copyJump(ctx context.Context, dir string) {
	if err := clipboard.WriteAll("cd " + dir); err != nil {
		log.FromContext(ctx).Warnf("copy to clipboard: %v", err)
	}
}

// confirm asks a yes/no question on the terminal. Anything but an
// explicit yes counts as no.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// openBrowser opens url in the default browser.
func openBrowser(ctx context.Context, url string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	if err := cmd.RunContext(ctx, "", opener, url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// repoRootFrom walks up from dir to the topmost directory containing a
// .git entry, resolving linked worktrees to their main repository.
func repoRootFrom(dir string) (string, error) {
	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, ".git")); err == nil {
			return git.MainRepoPath(d)
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("not inside a git repository: %s", dir)
		}
		d = parent
	}
}

// currentRepo resolves the recorded repository the working directory
// belongs to. Works from inside linked worktrees as well.
func currentRepo(store *metadata.Store) (*repo.Repo, error) {
	root, err := repoRootFrom(workDir)
	if err != nil {
		return nil, err
	}

	r, err := store.FindByDir(root)
	if err != nil {
		return nil, fmt.Errorf("%s is not recorded, run 'canopy scan' or 'canopy add' first", root)
	}
	return r, nil
}
