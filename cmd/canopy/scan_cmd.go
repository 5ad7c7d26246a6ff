package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/git"
	"github.com/canopydev/canopy/internal/log"
	"github.com/canopydev/canopy/internal/output"
	"github.com/canopydev/canopy/internal/scan"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scan",
		Short:   "Discover clones under the workspace roots",
		GroupID: GroupSync,
		Args:    cobra.NoArgs,
		Long: `Walk every configured root and record clones that are not yet in
the metadata store.

A directory is picked up when it sits at the layout depth, contains a
.git directory, and its origin URL parses back to the directory it
lives in. Anything else is reported as a warning and skipped. Existing
entries are never modified; duplicate entries sharing a directory are
collapsed, keeping the first.`,
		Example: `  canopy scan`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			store, path, err := loadStore(cfg)
			if err != nil {
				return err
			}

			found, warnings := scan.Roots(ctx, cfg.Roots, cfg.RepoLayout(), git.OriginURL)
			for _, w := range warnings {
				l.Warnf("%s: %v", w.Dir, w.Err)
			}

			added := 0
			for i := range found {
				if store.HasRepo(&found[i]) {
					continue
				}
				store.AddRepo(&found[i])
				l.Printf("Recorded %s\n", found[i].Name())
				added++
			}

			deduped := store.Deduplicate()

			if added > 0 || deduped > 0 {
				if err := store.Save(path); err != nil {
					return fmt.Errorf("save metadata store: %w", err)
				}
			}

			out.Printf("Scanned %d root(s): %d new, %d duplicate(s) removed, %d total\n",
				len(cfg.Roots), added, deduped, len(store.Repos))
			return nil
		},
	}

	return cmd
}
