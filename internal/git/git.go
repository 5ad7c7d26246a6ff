// Package git wraps the external git binary.
//
// All interaction is via process exit status plus stdout/stderr text;
// no structured git output is used. This is deliberately not a git
// implementation; git's own diagnostics are the error payload.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/canopydev/canopy/internal/cmd"
	"github.com/canopydev/canopy/internal/log"
)

// CheckGit verifies the git binary is on PATH.
func CheckGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git not found in PATH: %w", err)
	}
	return nil
}

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// runGit executes a git command with context support and verbose logging.
func runGit(ctx context.Context, dir string, args ...string) error {
	return cmd.RunContext(ctx, "", "git", gitArgs(dir, args)...)
}

// outputGit executes a git command with context support and verbose
// logging, returning stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
}

// Clone clones url into dir with stdout/stderr passed through, so git's
// own progress output reaches the terminal. Blocks until git exits.
func Clone(ctx context.Context, url, dir string) error {
	log.FromContext(ctx).Command("git", "clone", url, dir)

	c := exec.CommandContext(ctx, "git", "clone", url, dir)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

// OriginURL returns the URL of the origin remote for a repository.
func OriginURL(ctx context.Context, repoDir string) (string, error) {
	output, err := outputGit(ctx, repoDir, "config", "--get", "remote.origin.url")
	if err != nil {
		return "", fmt.Errorf("get origin URL: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
