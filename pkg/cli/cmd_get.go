package cli

import (
	"fmt"

	"github.com/jlrickert/tonsave/pkg/settings"
	"github.com/spf13/cobra"
)

// NewGetCmd returns the `get` cobra command.
//
// Usage examples:
//
//	tonsave get XSOverlayPort
//	tonsave get playAudio
func NewGetCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "get KEY",
		Short:             "print a single setting",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKeys(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := deps.Store.Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
	return cmd
}

// completeKeys completes setting keys for the first maxArgs positional
// arguments. A negative maxArgs completes keys at every even position, for
// KEY VALUE pairs.
func completeKeys(maxArgs int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if maxArgs >= 0 && len(args) >= maxArgs {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if maxArgs < 0 && len(args)%2 == 1 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		fields := settings.Fields()
		keys := make([]string, 0, len(fields))
		for _, f := range fields {
			keys = append(keys, f.Key+"\t"+f.Doc)
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	}
}
