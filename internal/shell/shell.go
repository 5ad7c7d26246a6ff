// Package shell launches an interactive subshell rooted in a
// repository directory.
//
// A child process cannot change its parent shell's working directory,
// so "cd into repository" is modeled as a terminal operation: start an
// interactive shell with the target as its working directory, hand the
// terminal over to it, and block until the user exits it. The calling
// command has nothing further to do on success.
package shell

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/canopydev/canopy/internal/log"
)

// Launch starts an interactive shell in dir, inheriting the standard
// streams. override selects the shell binary; when empty, $SHELL is
// used, falling back to /bin/sh.
func Launch(ctx context.Context, dir, override string) error {
	sh := override
	if sh == "" {
		sh = os.Getenv("SHELL")
	}
	if sh == "" {
		sh = "/bin/sh"
	}

	log.FromContext(ctx).Command(sh)

	c := exec.CommandContext(ctx, sh)
	c.Dir = dir
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		// A user exiting with a non-zero status is not a failure of
		// the jump itself.
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return fmt.Errorf("launch shell %s: %w", sh, err)
	}
	return nil
}
