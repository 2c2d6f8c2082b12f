package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPathCmd returns the `path` cobra command.
//
// Usage examples:
//
//	tonsave path
//	tonsave path --all
func NewPathCmd(deps *Deps) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "path",
		Short: "print where the settings file lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !all {
				_, err := fmt.Fprintln(out, deps.Store.ActivePath())
				return err
			}

			p := deps.Store.Paths()
			_, err := fmt.Fprintf(out, "active:  %s\nlegacy:  %s\nworking: %s\narchive: %s\n",
				p.Active(), p.Legacy, p.Working, p.Archive)
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "also list the legacy locations")

	return cmd
}
