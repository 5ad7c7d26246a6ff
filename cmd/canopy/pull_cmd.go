package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/git"
	"github.com/canopydev/canopy/internal/log"
	"github.com/canopydev/canopy/internal/output"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pull",
		Short:   "Clone recorded repositories missing on disk",
		GroupID: GroupSync,
		Args:    cobra.NoArgs,
		Long: `Materialize the metadata store on disk.

Every recorded repository whose directory is missing is cloned from its
recorded URL. This restores a workspace on a new machine from a synced
metadata file. Repositories already on disk are left untouched.`,
		Example: `  canopy pull`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			store, _, err := loadStore(cfg)
			if err != nil {
				return err
			}

			cloned, failed := 0, 0
			for i := range store.Repos {
				r := &store.Repos[i]

				if _, err := os.Stat(r.Dir); err == nil {
					continue
				}

				if err := os.MkdirAll(filepath.Dir(r.Dir), 0o755); err != nil {
					l.Warnf("%s: %v", r.Name(), err)
					failed++
					continue
				}
				if err := git.Clone(ctx, r.Identity.Raw, r.Dir); err != nil {
					// Keep going; one dead remote should not block the rest.
					l.Warnf("%s: %v", r.Name(), err)
					failed++
					continue
				}
				cloned++
			}

			out.Printf("Cloned %d repositories (%d failed, %d total)\n", cloned, failed, len(store.Repos))
			if failed > 0 {
				return fmt.Errorf("%d repositories failed to clone", failed)
			}
			return nil
		},
	}

	return cmd
}
