package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Worktree represents a single git worktree.
type Worktree struct {
	// Path to the worktree directory.
	Path string
	// Branch name; empty for detached HEAD.
	Branch string
	// CommitHash is the full HEAD hash.
	CommitHash string
	// IsMain marks the main worktree, where .git is a directory.
	IsMain bool
	// Locked reports whether the worktree is locked.
	Locked bool
	// Prunable reports whether the administrative entry is stale.
	Prunable bool
}

// DisplayName returns a short name for the worktree: its branch, or a
// truncated commit hash when detached.
func (w *Worktree) DisplayName() string {
	if w.Branch != "" {
		return w.Branch
	}
	if len(w.CommitHash) > 8 {
		return w.CommitHash[:8]
	}
	return w.CommitHash
}

// WorktreeList is the set of worktrees of one repository.
// Main is always present; Linked may be empty.
type WorktreeList struct {
	Main   Worktree
	Linked []Worktree
}

// All returns main plus linked worktrees, main first.
func (l *WorktreeList) All() []Worktree {
	return append([]Worktree{l.Main}, l.Linked...)
}

// Count returns the total number of worktrees.
func (l *WorktreeList) Count() int {
	return 1 + len(l.Linked)
}

// ParsePorcelain parses the output of `git worktree list --porcelain`.
//
// The input is a sequence of blocks separated by blank lines. A new
// `worktree ` line flushes the in-progress record, as does the end of
// input, so trailing blocks without a final blank line still parse.
// Bare records are dropped entirely: a bare repository has no working
// tree and is not addressable. The first surviving record is the main
// worktree. `branch ` lines strip a refs/heads/ prefix; other refs
// (tags etc.) are kept verbatim. A `detached` token, or the absence of
// any branch line, leaves Branch empty.
//
// Empty input yields an empty slice: "no worktrees" vs "not a git
// repository" is distinguished by the command's exit status, not here.
func ParsePorcelain(text string) []Worktree {
	var worktrees []Worktree
	var current Worktree
	inProgress := false
	isBare := false

	flush := func() {
		if inProgress && !isBare {
			current.IsMain = len(worktrees) == 0
			worktrees = append(worktrees, current)
		}
		current = Worktree{}
		isBare = false
		inProgress = false
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current.Path = strings.TrimPrefix(line, "worktree ")
			inProgress = true
		case strings.HasPrefix(line, "HEAD "):
			current.CommitHash = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "bare":
			isBare = true
		case line == "locked" || strings.HasPrefix(line, "locked "):
			current.Locked = true
		case line == "prunable" || strings.HasPrefix(line, "prunable "):
			current.Prunable = true
		case line == "detached":
			current.Branch = ""
		}
	}
	flush()

	return worktrees
}

// ListWorktrees lists all worktrees of the repository at repoDir.
// Returns nil if the listing command fails or yields zero worktrees
// (the latter should not normally occur, since every repository has at
// least a main worktree).
func ListWorktrees(ctx context.Context, repoDir string) *WorktreeList {
	output, err := outputGit(ctx, repoDir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil
	}

	worktrees := ParsePorcelain(string(output))
	if len(worktrees) == 0 {
		return nil
	}

	return &WorktreeList{Main: worktrees[0], Linked: worktrees[1:]}
}

// SanitizeBranch makes a branch name usable as a single path segment.
// Branch names containing slashes are common and must not create
// nested directories unintentionally.
func SanitizeBranch(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// DefaultWorktreePath returns the conventional location for a linked
// worktree: <parent-of-repoDir>/<repoName>.worktrees/<sanitizedBranch>.
func DefaultWorktreePath(repoDir, branch string) string {
	repoName := filepath.Base(repoDir)
	worktreesDir := filepath.Join(filepath.Dir(repoDir), repoName+".worktrees")
	return filepath.Join(worktreesDir, SanitizeBranch(branch))
}

// AddWorktree creates a worktree for branch. If path is empty the
// default location is used. When createBranch is true the branch is
// created (-b); otherwise an existing branch is checked out.
// Returns the worktree path.
func AddWorktree(ctx context.Context, repoDir, branch, path string, createBranch bool) (string, error) {
	if path == "" {
		path = DefaultWorktreePath(repoDir, branch)
	}

	args := []string{"worktree", "add"}
	if createBranch {
		args = append(args, "-b", branch)
	}
	args = append(args, path)
	if !createBranch {
		args = append(args, branch)
	}

	if err := runGit(ctx, repoDir, args...); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveWorktree removes the worktree at worktreePath. force bypasses
// the dirty-worktree safety check; on failure callers should suggest
// retrying with force.
func RemoveWorktree(ctx context.Context, repoDir, worktreePath string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, worktreePath)

	return runGit(ctx, repoDir, args...)
}

// PruneWorktrees removes stale administrative entries for worktrees
// whose directories were deleted out-of-band. Returns git's diagnostic
// text; an empty string means there was nothing to prune.
func PruneWorktrees(ctx context.Context, repoDir string) (string, error) {
	output, err := outputGit(ctx, repoDir, "worktree", "prune", "-v")
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// IsLinkedWorktree reports whether dir is a linked worktree: its .git
// is a regular file pointing back to the main repository. A main
// worktree has .git as a directory.
func IsLinkedWorktree(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// MainRepoPath resolves the main repository root for a worktree
// directory. A main worktree resolves to itself. A linked worktree is
// resolved through the .git file's single `gitdir:` line, which points
// at <main>/.git/worktrees/<name>. Returns an error if the file is
// absent or malformed.
func MainRepoPath(worktreeDir string) (string, error) {
	gitPath := filepath.Join(worktreeDir, ".git")

	info, err := os.Stat(gitPath)
	if err != nil {
		return "", fmt.Errorf("not a git worktree: %w", err)
	}
	if info.IsDir() {
		return worktreeDir, nil
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return "", fmt.Errorf("read .git file: %w", err)
	}

	// Only the first line matters; any additional lines are ignored.
	line := strings.TrimSpace(string(content))
	if idx := strings.Index(line, "\n"); idx != -1 {
		line = strings.TrimSpace(line[:idx])
	}
	gitdir, ok := strings.CutPrefix(line, "gitdir: ")
	if !ok || gitdir == "" {
		return "", fmt.Errorf("invalid .git file: expected 'gitdir: <path>'")
	}

	// gitdir can be relative to the worktree.
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(worktreeDir, gitdir)
	}
	gitdir = filepath.Clean(gitdir)

	// Walk up from <main>/.git/worktrees/<name> to the directory that
	// owns the .git component.
	dir := gitdir
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find main repository from gitdir: %s", gitdir)
		}
		if filepath.Base(dir) == ".git" {
			return parent, nil
		}
		dir = parent
	}
}
