package cli

import (
	"github.com/jlrickert/tonsave/pkg/settings"
	"github.com/spf13/cobra"
)

// NewEditCmd returns the `edit` cobra command.
//
// Usage examples:
//
//	tonsave edit
//	EDITOR="code --wait" tonsave edit
func NewEditCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "edit the settings in $EDITOR",
		Long: `Open the settings in $VISUAL or $EDITOR.

Each save is checked and written to the settings file while the editor is
still open. A save that is not valid JSON is reported and ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.Store.Edit(cmd.Context(), settings.EditOptions{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			})
		},
	}
}
