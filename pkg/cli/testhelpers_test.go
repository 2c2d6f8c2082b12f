package cli_test

import (
	"context"
	"embed"
	"strings"
	"testing"

	tu "github.com/jlrickert/cli-toolkit/sandbox"
	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/tonsave/pkg/cli"
)

// testdata holds settings layouts copied into the sandbox home with
// tu.WithFixture.
//
//go:embed all:data/**
var testdata embed.FS

const (
	workDir      = "/home/testuser/game"
	settingsPath = "/home/testuser/.local/share/tonsave/Settings.json"
)

// NewSandbox returns a sandbox whose working directory is the game
// directory, so legacy files are looked for there.
func NewSandbox(t *testing.T, opts ...tu.Option) *tu.Sandbox {
	opts = append([]tu.Option{tu.WithWd(workDir)}, opts...)
	return tu.NewSandbox(t, &tu.Options{
		Data: testdata,
		Home: "/home/testuser",
		User: "testuser",
	}, opts...)
}

func NewProcess(t *testing.T, isTTY bool, args ...string) *tu.Process {
	return tu.NewProcess(func(ctx context.Context, rt *toolkit.Runtime) (int, error) {
		return cli.Run(ctx, rt, args)
	}, isTTY)
}

// run executes the CLI in sb with empty stdin.
func run(t *testing.T, sb *tu.Sandbox, args ...string) *tu.ProcessResult {
	t.Helper()
	return NewProcess(t, false, args...).RunWithIO(sb.Context(), sb.Runtime(), strings.NewReader(""))
}

func strPtr(s string) *string { return &s }
