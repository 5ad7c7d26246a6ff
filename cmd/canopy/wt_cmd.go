package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/git"
	"github.com/canopydev/canopy/internal/output"
)

func newWtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wt",
		Short:   "Manage worktrees of the current repository",
		GroupID: GroupWorktree,
		Long: `Manage git worktrees of the repository containing the working
directory. All subcommands also work from inside a linked worktree;
they resolve and operate on the main repository.`,
	}

	cmd.AddCommand(newWtListCmd())
	cmd.AddCommand(newWtAddCmd())
	cmd.AddCommand(newWtRemoveCmd())
	cmd.AddCommand(newWtPruneCmd())

	return cmd
}

func newWtListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List worktrees",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoDir, err := repoRootFrom(workDir)
			if err != nil {
				return err
			}

			list := git.ListWorktrees(ctx, repoDir)
			if list == nil {
				return fmt.Errorf("list worktrees in %s failed", repoDir)
			}

			w := tabwriter.NewWriter(out.Writer(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOMMIT\tFLAGS\tPATH")
			for _, wt := range list.All() {
				commit := wt.CommitHash
				if len(commit) > 8 {
					commit = commit[:8]
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", wt.DisplayName(), commit, worktreeFlags(&wt), wt.Path)
			}
			return w.Flush()
		},
	}

	return cmd
}

// worktreeFlags renders the state markers shown in the FLAGS column.
func worktreeFlags(wt *git.Worktree) string {
	var flags []string
	if wt.IsMain {
		flags = append(flags, "main")
	}
	if wt.Locked {
		flags = append(flags, "locked")
	}
	if wt.Prunable {
		flags = append(flags, "prunable")
	}
	return strings.Join(flags, ",")
}

func newWtAddCmd() *cobra.Command {
	var (
		path   string
		create bool
	)

	cmd := &cobra.Command{
		Use:   "add <branch>",
		Short: "Add a worktree for a branch",
		Args:  cobra.ExactArgs(1),
		Long: `Add a worktree for a branch.

Without --path the worktree is placed next to the repository in
<repo>.worktrees/<branch>, with slashes in the branch name replaced by
dashes. Use -b to create the branch instead of checking out an
existing one.`,
		Example: `  canopy wt add feature/auth                   # Existing branch
  canopy wt add -b feature/auth                # Create branch
  canopy wt add feature/auth --path /tmp/auth  # Explicit location`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoDir, err := repoRootFrom(workDir)
			if err != nil {
				return err
			}

			wtPath, err := git.AddWorktree(ctx, repoDir, args[0], path, create)
			if err != nil {
				return err
			}

			out.Printf("Created %s\n", wtPath)
			copyJump(ctx, wtPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Worktree location (default: <repo>.worktrees/<branch>)")
	cmd.Flags().BoolVarP(&create, "create", "b", false, "Create the branch")

	return cmd
}

func newWtRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <branch>",
		Short:   "Remove a worktree",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		Long: `Remove the worktree checked out on a branch.

The argument is matched against branch names first, then worktree
paths. The main worktree cannot be removed.`,
		Example: `  canopy wt remove feature/auth
  canopy wt remove feature/auth --force  # Discard uncommitted changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoDir, err := repoRootFrom(workDir)
			if err != nil {
				return err
			}

			list := git.ListWorktrees(ctx, repoDir)
			if list == nil {
				return fmt.Errorf("list worktrees in %s failed", repoDir)
			}

			wt, err := findWorktree(list, args[0])
			if err != nil {
				return err
			}
			if wt.IsMain {
				return fmt.Errorf("%s is the main worktree, use 'canopy remove' for the repository itself", wt.Path)
			}

			if err := git.RemoveWorktree(ctx, repoDir, wt.Path, force); err != nil {
				if !force {
					return fmt.Errorf("%w (retry with --force to discard uncommitted changes)", err)
				}
				return err
			}

			out.Printf("Removed %s\n", wt.Path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with uncommitted changes")

	return cmd
}

// findWorktree resolves a user-supplied name to a worktree, matching
// branch names before paths.
func findWorktree(list *git.WorktreeList, name string) (*git.Worktree, error) {
	all := list.All()
	for i := range all {
		if all[i].Branch == name {
			return &all[i], nil
		}
	}
	for i := range all {
		if all[i].Path == name {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("no worktree for %q", name)
}

func newWtPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune stale worktree entries",
		Args:  cobra.NoArgs,
		Long: `Remove administrative entries for worktrees whose directories were
deleted without 'canopy wt remove'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoDir, err := repoRootFrom(workDir)
			if err != nil {
				return err
			}

			diag, err := git.PruneWorktrees(ctx, repoDir)
			if err != nil {
				return err
			}

			if strings.TrimSpace(diag) == "" {
				out.Println("Nothing to prune")
				return nil
			}
			out.Print(diag)
			return nil
		},
	}

	return cmd
}
