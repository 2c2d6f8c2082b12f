package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/tonsave/pkg/log"
)

// Notifier surfaces a failed export to the user. The CLI prints a banner;
// a GUI would show a dialog.
type Notifier interface {
	Notify(ctx context.Context, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, err error)

func (f NotifierFunc) Notify(ctx context.Context, err error) { f(ctx, err) }

type Options struct {
	// Runtime carries the environment and filesystem the store works
	// against. Defaults to toolkit.NewOsRuntime.
	Runtime *toolkit.Runtime

	// WorkDir is where legacy settings files are looked for. Defaults to
	// the runtime working directory.
	WorkDir string

	// DataDir is the application data directory holding the canonical
	// settings file. Required.
	DataDir string

	// Logger defaults to the logger on the context passed to NewStore.
	Logger *slog.Logger

	// Notifier is told about export failures. Optional. When set, failures
	// are logged at debug level since the notifier already reached the
	// user.
	Notifier Notifier
}

// Store owns the process's settings record. Build one at startup with
// NewStore and hand it to every consumer.
//
// Store does no locking. Readers on other goroutines should take a
// Snapshot, and callers must serialize concurrent Export calls.
type Store struct {
	rt       *toolkit.Runtime
	paths    Paths
	record   *Record
	loaded   ImportResult
	logger   *slog.Logger
	notifier Notifier
}

// NewStore resolves the settings paths and runs Import once. The only
// error is a missing DataDir; load failures are reported through
// LoadResult and leave the store holding defaults.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.DataDir == "" {
		return nil, ErrNoDataDir
	}
	rt := opts.Runtime
	if rt == nil {
		var err error
		rt, err = toolkit.NewOsRuntime()
		if err != nil {
			return nil, fmt.Errorf("init runtime: %w", err)
		}
	}

	workDir, err := rt.AbsPath(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("resolve work directory: %w", err)
	}
	if workDir == "" {
		if workDir, err = rt.Getwd(); err != nil {
			return nil, err
		}
	}
	dataDir, err := rt.AbsPath(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	lg := opts.Logger
	if lg == nil {
		lg = log.FromContext(ctx, nil)
	}
	lg = lg.With(slog.String("component", "settings"))

	paths := ResolvePaths(workDir, dataDir)
	res := Import(log.WithLogger(ctx, lg), rt, paths)

	return &Store{
		rt:       rt,
		paths:    paths,
		record:   res.Record,
		loaded:   res,
		logger:   lg,
		notifier: opts.Notifier,
	}, nil
}

// Current returns the live record. Mutations are visible to every holder
// and are persisted only by Export.
func (s *Store) Current() *Record { return s.record }

// Snapshot returns a copy of the record safe to hand to other goroutines.
func (s *Store) Snapshot() Record { return *s.record }

// ActivePath is where the settings file is read from and written to.
func (s *Store) ActivePath() string { return s.paths.Active() }

func (s *Store) Paths() Paths { return s.paths }

// LoadResult reports how the record was obtained at startup.
func (s *Store) LoadResult() ImportResult { return s.loaded }

// Reset restores every field to its default in memory.
func (s *Store) Reset() {
	*s.record = *Defaults()
}

// Replace overwrites the live record with r in place, so pointers
// returned by Current stay valid.
func (s *Store) Replace(r Record) {
	*s.record = r
}

// Runtime is the runtime the store reads and writes through.
func (s *Store) Runtime() *toolkit.Runtime { return s.rt }

// Export writes the whole record to the active path, replacing the file.
// On failure the Notifier is told, the error is logged and returned as an
// *ExportError. The in-memory record is never modified.
func (s *Store) Export(ctx context.Context) error {
	path := s.paths.Active()
	if err := s.write(path); err != nil {
		exportErr := &ExportError{Path: path, Err: err}
		if s.notifier != nil {
			s.logger.Debug("export settings failed", "path", path, "err", err)
			s.notifier.Notify(ctx, exportErr)
		} else {
			s.logger.Error("export settings failed", "path", path, "err", err)
		}
		return exportErr
	}
	s.logger.Debug("settings exported", "path", path)
	return nil
}

func (s *Store) write(path string) error {
	data, err := Encode(s.record)
	if err != nil {
		return err
	}
	return s.rt.AtomicWriteFile(path, data, 0o644)
}
