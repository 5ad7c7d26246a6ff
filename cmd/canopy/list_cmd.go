package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/output"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List recorded repositories",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List all recorded repositories in insertion order.`,
		Example: `  canopy list          # Table output
  canopy list --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, _, err := loadStore(cfg)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(store.Repos)
			}

			if len(store.Repos) == 0 {
				out.Println("No repositories recorded")
				return nil
			}

			w := tabwriter.NewWriter(out.Writer(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "HOST\tUSER\tREPO\tPROTOCOL\tDIR\tURI")
			for i := range store.Repos {
				r := &store.Repos[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Identity.Hostname, r.Identity.User, r.Identity.Repo,
					r.Identity.Protocol, r.Dir, r.Identity.Raw)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
