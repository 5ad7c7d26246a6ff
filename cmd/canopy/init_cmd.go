package main

import (
	"github.com/spf13/cobra"

	"github.com/canopydev/canopy/internal/config"
	"github.com/canopydev/canopy/internal/output"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Create a default config file",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Create a commented default config file at ~/.config/canopy/config.toml.

The file documents every setting; all of them are optional.`,
		Example: `  canopy init          # Create config file
  canopy init --force  # Overwrite existing config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Init(force)
			if err != nil {
				return err
			}

			output.FromContext(cmd.Context()).Printf("Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}
