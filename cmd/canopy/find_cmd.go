package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/metadata"
	"github.com/canopydev/canopy/internal/output"
	"github.com/canopydev/canopy/internal/shell"
	"github.com/canopydev/canopy/internal/ui"
)

func newFindCmd() *cobra.Command {
	var (
		first    bool
		subshell bool
	)

	cmd := &cobra.Command{
		Use:     "find [query]",
		Short:   "Fuzzy-find a repository and jump to it",
		Aliases: []string{"f"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Fuzzy-find a recorded repository.

On a terminal an interactive picker opens, pre-filled with the query
and ordered by most recently opened. The selected directory is printed
on stdout and "cd <dir>" is placed on the clipboard; with --shell a
subshell is started there instead.

Without a terminal (or with --first) the best match is taken directly,
which makes the command usable in command substitution:

  cd "$(canopy find --first api)"`,
		Example: `  canopy find              # Interactive picker
  canopy find bubble       # Picker pre-filled with query
  canopy find -1 bubble    # Best match, no interaction
  canopy find -s bubble    # Jump via subshell`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			store, path, err := loadStore(cfg)
			if err != nil {
				return err
			}
			if len(store.Repos) == 0 {
				return fmt.Errorf("no repositories recorded, run 'canopy add' or 'canopy scan' first")
			}

			items := pickerItems(store)

			var choice ui.Item
			interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
			if first || !interactive {
				if query == "" {
					// No query and no terminal: most recently opened.
					choice = items[0]
				} else {
					match, ok := ui.BestMatch(items, query)
					if !ok {
						return fmt.Errorf("no repository matches %q", query)
					}
					choice = match
				}
			} else {
				result, err := ui.RunPicker(items, query)
				if err != nil {
					return err
				}
				if result.Cancelled || !result.Selected {
					return nil
				}
				choice = result.Item
			}

			r, err := store.FindByDir(choice.Dir)
			if err != nil {
				return err
			}
			r.UpdateOpenTime()
			if err := store.Save(path); err != nil {
				return fmt.Errorf("save metadata store: %w", err)
			}

			if subshell {
				return shell.Launch(ctx, r.Dir, cfg.Shell)
			}

			out.Println(r.Dir)
			copyJump(ctx, r.Dir)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&first, "first", "1", false, "Take the best match without interaction")
	cmd.Flags().BoolVarP(&subshell, "shell", "s", false, "Start a subshell in the repository")

	return cmd
}

// pickerItems converts the store to picker items, most recently opened
// first so an empty query surfaces the repos the user actually works in.
func pickerItems(store *metadata.Store) []ui.Item {
	repos := make([]int, len(store.Repos))
	for i := range repos {
		repos[i] = i
	}
	sort.SliceStable(repos, func(a, b int) bool {
		return store.Repos[repos[a]].LastOpenedAt.After(store.Repos[repos[b]].LastOpenedAt)
	})

	items := make([]ui.Item, 0, len(repos))
	for _, i := range repos {
		r := &store.Repos[i]
		items = append(items, ui.Item{Display: r.Name(), Dir: r.Dir})
	}
	return items
}
