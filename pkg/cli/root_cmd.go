package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/tonsave/pkg/internal"
	"github.com/jlrickert/tonsave/pkg/log"
	"github.com/jlrickert/tonsave/pkg/settings"
	"github.com/spf13/cobra"
)

const (
	// AppName names the per-user data directory on Unix-like systems.
	AppName = "tonsave"

	// EnvDataDir overrides the data directory when --data-dir is unset.
	EnvDataDir = "TONSAVE_DATA_DIR"

	// EnvLogLevel overrides the log level when --log-level is unset.
	EnvLogLevel = "TONSAVE_LOG_LEVEL"
)

type Deps struct {
	Runtime *toolkit.Runtime

	DataDir string
	WorkDir string

	LogFile  string
	LogLevel string
	LogJSON  bool

	Logger *slog.Logger
	Store  *settings.Store

	closers []io.Closer
}

func (d *Deps) shutdown() {
	for _, c := range d.closers {
		_ = c.Close()
	}
	d.closers = nil
}

// NewRootCmd builds the root cobra command and wires persistent flags. The
// PersistentPreRunE builds the logger, resolves the settings directories
// and opens the settings store once, before any subcommand runs.
func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{}
	}

	cmd := &cobra.Command{
		Use:           "tonsave",
		Short:         "manage ToN Save Manager settings",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt := deps.Runtime
			if rt == nil {
				return fmt.Errorf("runtime is required")
			}

			lg, err := newLogger(cmd, deps)
			if err != nil {
				return err
			}
			deps.Logger = lg
			if err := rt.SetLogger(lg); err != nil {
				return err
			}
			ctx = log.WithLogger(ctx, lg)

			dataDir, err := resolveDataDir(deps)
			if err != nil {
				return err
			}

			store, err := settings.NewStore(ctx, settings.Options{
				Runtime:  rt,
				WorkDir:  deps.WorkDir,
				DataDir:  dataDir,
				Logger:   lg,
				Notifier: newBannerNotifier(cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}
			deps.DataDir = dataDir
			deps.Store = store

			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&deps.DataDir, "data-dir", deps.DataDir,
		"application data directory holding Settings.json (env "+EnvDataDir+")")
	cmd.PersistentFlags().StringVar(&deps.WorkDir, "work-dir", deps.WorkDir,
		"directory searched for legacy settings files (default working directory)")
	cmd.PersistentFlags().StringVar(&deps.LogFile, "log-file", "", "write logs to file (default stderr)")
	cmd.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "info", "minimum log level (env "+EnvLogLevel+")")
	cmd.PersistentFlags().BoolVar(&deps.LogJSON, "log-json", false, "output logs as JSON")

	cmd.AddCommand(
		NewShowCmd(deps),
		NewPathCmd(deps),
		NewGetCmd(deps),
		NewSetCmd(deps),
		NewResetCmd(deps),
		NewExportCmd(deps),
		NewFieldsCmd(deps),
		NewEditCmd(deps),
	)

	return cmd
}

func newLogger(cmd *cobra.Command, deps *Deps) (*slog.Logger, error) {
	level := deps.LogLevel
	if !cmd.Flags().Changed("log-level") {
		if env := strings.TrimSpace(deps.Runtime.Get(EnvLogLevel)); env != "" {
			level = env
		}
	}

	out := cmd.ErrOrStderr()
	if deps.LogFile != "" {
		f, err := openLogFile(deps.Runtime, deps.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		deps.closers = append(deps.closers, f)
		out = f
	}

	return log.NewLogger(log.LoggerConfig{
		Out:     out,
		Level:   log.ParseLevel(level),
		JSON:    deps.LogJSON,
		Version: Version,
	}), nil
}

// openLogFile opens path for appending, creating it and its parent
// directory through rt first.
func openLogFile(rt *toolkit.Runtime, path string) (*os.File, error) {
	resolved, err := rt.ResolvePath(path, false)
	if err != nil {
		return nil, err
	}
	if err := rt.Mkdir(filepath.Dir(resolved), 0o755, true); err != nil {
		return nil, err
	}
	host, err := internal.HostPath(rt, resolved)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(host, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// resolveDataDir prefers --data-dir, then TONSAVE_DATA_DIR, then the
// platform application data directory.
func resolveDataDir(deps *Deps) (string, error) {
	if deps.DataDir != "" {
		return deps.DataDir, nil
	}
	if env := strings.TrimSpace(deps.Runtime.Get(EnvDataDir)); env != "" {
		return env, nil
	}
	dir, err := internal.DataDir(deps.Runtime, AppName)
	if err != nil {
		return "", fmt.Errorf("resolve data directory: %w", err)
	}
	return dir, nil
}
