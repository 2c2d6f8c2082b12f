package cli

import (
	"fmt"

	"github.com/jlrickert/tonsave/pkg/settings"
	"github.com/spf13/cobra"
)

// NewSetCmd returns the `set` cobra command.
//
// Usage examples:
//
//	tonsave set AutoCopy true
//	tonsave set XSOverlay true XSOverlayPort 42070
func NewSetCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE [KEY VALUE...]",
		Short: "change settings and save them",
		Long: `Change one or more settings and write the result to disk.

Every pair is checked before anything changes, so a bad value leaves the
settings untouched.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected KEY VALUE pairs, got %d argument(s)", len(args))
			}
			return nil
		},
		ValidArgsFunction: completeKeys(-1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next := deps.Store.Snapshot()
			for i := 0; i < len(args); i += 2 {
				f, ok := settings.Lookup(args[i])
				if !ok {
					return &settings.UnknownKeyError{Key: args[i]}
				}
				if err := f.Set(&next, args[i+1]); err != nil {
					return err
				}
			}

			deps.Store.Replace(next)
			return deps.Store.Export(cmd.Context())
		},
	}
	return cmd
}
