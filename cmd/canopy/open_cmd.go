package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/metadata"
	"github.com/canopydev/canopy/internal/output"
	"github.com/canopydev/canopy/internal/repo"
	"github.com/canopydev/canopy/internal/ui"
)

func newOpenCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:     "open [query]",
		Short:   "Open a repository in the browser",
		Aliases: []string{"o"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Open a repository's home page in the browser.

Without a query the repository containing the working directory is
used; this also works from inside a linked worktree. With a query the
best fuzzy match from the metadata store is used.

URLs can only be built for recognized hosts: github.com and any host
mapped in the [hosts] config section.`,
		Example: `  canopy open                # Current repository
  canopy open bubble         # Best match for query
  canopy open --print        # Print the URL instead of opening it
  canopy open issue -n 42    # Open issue #42
  canopy open pr             # Open the pull request listing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveOpenTarget(args)
			if err != nil {
				return err
			}

			url, ok := r.HomeURL(cfg.Hosts)
			if !ok {
				return fmt.Errorf("no supported provider for host %s", r.Identity.Hostname)
			}
			return launchOrPrint(cmd, url, printOnly)
		},
	}

	cmd.PersistentFlags().BoolVarP(&printOnly, "print", "p", false, "Print the URL instead of opening the browser")

	cmd.AddCommand(newOpenIssueCmd(&printOnly))
	cmd.AddCommand(newOpenPrCmd(&printOnly))

	return cmd
}

func newOpenIssueCmd(printOnly *bool) *cobra.Command {
	var number int

	cmd := &cobra.Command{
		Use:   "issue [query]",
		Short: "Open an issue or the issue listing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveOpenTarget(args)
			if err != nil {
				return err
			}

			url, ok := r.IssueURL(numberArg(cmd, number), cfg.Hosts)
			if !ok {
				return fmt.Errorf("no supported provider for host %s", r.Identity.Hostname)
			}
			return launchOrPrint(cmd, url, *printOnly)
		},
	}

	cmd.Flags().IntVarP(&number, "number", "n", 0, "Issue number (omit for the listing)")

	return cmd
}

func newOpenPrCmd(printOnly *bool) *cobra.Command {
	var number int

	cmd := &cobra.Command{
		Use:     "pr [query]",
		Short:   "Open a pull request or the pull request listing",
		Aliases: []string{"pull"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveOpenTarget(args)
			if err != nil {
				return err
			}

			url, ok := r.PullURL(numberArg(cmd, number), cfg.Hosts)
			if !ok {
				return fmt.Errorf("no supported provider for host %s", r.Identity.Hostname)
			}
			return launchOrPrint(cmd, url, *printOnly)
		},
	}

	cmd.Flags().IntVarP(&number, "number", "n", 0, "Pull request number (omit for the listing)")

	return cmd
}

// numberArg returns nil when -n was not given, distinguishing "the
// listing" from an explicit number.
func numberArg(cmd *cobra.Command, number int) *int {
	if !cmd.Flags().Changed("number") {
		return nil
	}
	return &number
}

// resolveOpenTarget picks the repository to open: best match for a
// query, the current repository otherwise.
func resolveOpenTarget(args []string) (*repo.Repo, error) {
	store, _, err := loadStore(cfg)
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		return matchRepo(store, args[0])
	}
	return currentRepo(store)
}

// matchRepo fuzzy-matches query against the recorded repository names.
func matchRepo(store *metadata.Store, query string) (*repo.Repo, error) {
	match, ok := ui.BestMatch(pickerItems(store), query)
	if !ok {
		return nil, fmt.Errorf("no repository matches %q", query)
	}
	return store.FindByDir(match.Dir)
}

func launchOrPrint(cmd *cobra.Command, url string, printOnly bool) error {
	ctx := cmd.Context()
	if printOnly {
		output.FromContext(ctx).Println(url)
		return nil
	}
	return openBrowser(ctx, url)
}
