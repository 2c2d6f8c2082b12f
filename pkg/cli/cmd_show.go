package cli

import (
	"github.com/jlrickert/tonsave/pkg/settings"
	"github.com/spf13/cobra"
)

// NewShowCmd returns the `show` cobra command.
//
// Usage examples:
//
//	tonsave show
//	tonsave show --format yaml
//	tonsave show -f text
func NewShowCmd(deps *Deps) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "print the current settings",
		Long: `Print every setting as it is held after startup migration and load.

The json format is exactly what 'tonsave export' writes to disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return settings.Render(cmd.OutOrStdout(), deps.Store.Current(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", settings.FormatJSON, "output format: json, yaml or text")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{settings.FormatJSON, settings.FormatYAML, settings.FormatText}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
