package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/git"
	"github.com/canopydev/canopy/internal/output"
	"github.com/canopydev/canopy/internal/repo"
)

func newAddCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:     "add <url>",
		Short:   "Clone a repository into the workspace",
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Clone a repository into its workspace directory and record it.

The target directory is derived from the remote URL:
<root>/<hostname>/<user>/<repo>. Both SSH (git@host:user/repo.git) and
HTTPS (https://host/user/repo.git) URLs are accepted; they address the
same repository and never create duplicates.

After cloning, "cd <dir>" is placed on the clipboard.`,
		Example: `  canopy add git@github.com:charmbracelet/bubbletea.git
  canopy add https://github.com/spf13/cobra.git
  canopy add git@github.com:acme/api.git --root ~/work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cloneRoot := cfg.DefaultRoot()
			if root != "" {
				cloneRoot = root
			}

			r, err := repo.New(args[0], cloneRoot, cfg.RepoLayout())
			if err != nil {
				return err
			}

			store, path, err := loadStore(cfg)
			if err != nil {
				return err
			}

			// Same identity via another protocol is still the same repo.
			if store.HasRepo(r) {
				existing, err := store.FindByDir(r.Dir)
				if err != nil {
					existing = r
				}
				out.Printf("Already recorded: %s\n", existing.Dir)
				copyJump(ctx, existing.Dir)
				return nil
			}

			if _, err := os.Stat(r.Dir); err == nil {
				return fmt.Errorf("directory already exists: %s (run 'canopy scan' to record it)", r.Dir)
			}

			if err := os.MkdirAll(filepath.Dir(r.Dir), 0o755); err != nil {
				return fmt.Errorf("create parent directory: %w", err)
			}

			if err := git.Clone(ctx, args[0], r.Dir); err != nil {
				return err
			}

			store.AddRepo(r)
			if err := store.Save(path); err != nil {
				return fmt.Errorf("save metadata store: %w", err)
			}

			out.Printf("Cloned %s\n", r.Dir)
			copyJump(ctx, r.Dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Clone under this root instead of the default")

	return cmd
}
