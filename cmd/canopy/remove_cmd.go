package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/output"
	"github.com/canopydev/canopy/internal/repo"
)

func newRemoveCmd() *cobra.Command {
	var (
		keepFiles bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:     "remove <url>",
		Short:   "Remove a repository from disk and metadata",
		Aliases: []string{"rm"},
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Remove a repository identified by its remote URL.

The clone is deleted from disk and every matching entry is dropped from
the metadata store. A repository added via SSH can be removed via its
HTTPS URL; identity matching ignores the protocol.`,
		Example: `  canopy remove git@github.com:acme/api.git
  canopy remove https://github.com/acme/api.git --keep  # Forget, keep files
  canopy remove git@github.com:acme/api.git -f          # No confirmation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			candidate, err := repo.New(args[0], cfg.DefaultRoot(), cfg.RepoLayout())
			if err != nil {
				return err
			}

			store, path, err := loadStore(cfg)
			if err != nil {
				return err
			}

			// Resolve the recorded entry; its Dir is authoritative, the
			// candidate's is only derived from the current config.
			target := candidate
			if r, err := store.FindByDir(candidate.Dir); err == nil {
				target = r
			}

			if !keepFiles && !force {
				if !confirm(fmt.Sprintf("Delete %s from disk?", target.Dir)) {
					out.Println("Cancelled")
					return nil
				}
			}

			if err := store.RemoveRepo(candidate); err != nil {
				return err
			}

			if err := store.Save(path); err != nil {
				return fmt.Errorf("save metadata store: %w", err)
			}

			if !keepFiles {
				if err := os.RemoveAll(target.Dir); err != nil {
					return fmt.Errorf("delete repository: %w", err)
				}
				out.Printf("Deleted %s\n", target.Dir)
			}

			out.Printf("Removed %s\n", target.Name())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keepFiles, "keep", "k", false, "Keep files on disk, only forget the repository")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")

	return cmd
}
