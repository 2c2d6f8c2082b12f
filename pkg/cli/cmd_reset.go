package cli

import (
	"github.com/spf13/cobra"
)

// NewResetCmd returns the `reset` cobra command.
func NewResetCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "restore default settings and save them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps.Store.Reset()
			return deps.Store.Export(cmd.Context())
		},
	}
}
