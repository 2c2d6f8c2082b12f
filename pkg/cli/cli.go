package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

// Run executes the tonsave command tree against rt and returns the exit
// code. Streams, environment and filesystem all come from rt.
func Run(ctx context.Context, rt *toolkit.Runtime, args []string) (int, error) {
	if rt == nil {
		return 1, fmt.Errorf("runtime is required")
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &Deps{Runtime: rt}
	defer deps.shutdown()

	streams := toolkit.OrDefaultStream(rt.Stream())
	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if msg := renderUserError(err, deps); msg != "" {
			_, _ = fmt.Fprintln(streams.Err, "error:", msg)
		}
		if errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return 130, err
		}
		return 1, err
	}
	return 0, nil
}
