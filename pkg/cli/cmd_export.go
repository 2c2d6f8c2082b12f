package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExportCmd returns the `export` cobra command. It writes the settings
// as loaded, which is how a migrated or defaulted file first lands on disk.
func NewExportCmd(deps *Deps) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the current settings to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Store.Export(cmd.Context()); err != nil {
				return err
			}
			if quiet {
				return nil
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", deps.Store.ActivePath())
			return err
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the saved path")

	return cmd
}
