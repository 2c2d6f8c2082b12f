package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/jlrickert/tonsave/pkg/settings"
	"github.com/spf13/cobra"
)

// NewFieldsCmd returns the `fields` cobra command.
func NewFieldsCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "list every setting with its type and default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTYPE\tDEFAULT\tDESCRIPTION")
			for _, f := range settings.Fields() {
				def := f.Default()
				if def == "" {
					def = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Key, f.Kind, def, f.Doc)
			}
			return tw.Flush()
		},
	}
}
