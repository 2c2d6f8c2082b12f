package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/tonsave/pkg/log"
)

// Source says where an imported record came from.
type Source string

const (
	SourceDefaults Source = "defaults"
	SourceFile     Source = "file"
)

// Migration records which legacy steps ran during Import.
type Migration struct {
	// RenamedLegacy is set when settings.json was renamed to Settings.json
	// in the working directory.
	RenamedLegacy bool

	// LegacyConflict is set when both settings.json and Settings.json were
	// present; the lowercase file is left alone in that case.
	LegacyConflict bool

	// Relocated is set when the working-directory file was copied to the
	// canonical path.
	Relocated bool

	// Archived is set when the working-directory file was renamed to
	// Settings.json.old.
	Archived bool
}

// Any reports whether any migration step touched the filesystem.
func (m Migration) Any() bool {
	return m.RenamedLegacy || m.Relocated || m.Archived
}

// ImportResult is the outcome of Import. Record is never nil. Err is a
// diagnostic only: when set, Record holds defaults.
type ImportResult struct {
	Record    *Record
	Source    Source
	Migration Migration
	Err       error
}

// Import migrates legacy settings files and loads the canonical one, doing
// all file access through rt. Failures never escape: an unreadable, corrupt
// or missing file yields default settings, with the cause kept in
// ImportResult.Err.
func Import(ctx context.Context, rt *toolkit.Runtime, paths Paths) ImportResult {
	lg := log.FromContext(ctx, nil)

	res := ImportResult{}
	rec, err := load(rt, paths, &res.Migration)

	if res.Migration.LegacyConflict {
		lg.Warn("legacy settings file left in place",
			"legacy", paths.Legacy, "working", paths.Working)
	}
	if res.Migration.Any() {
		lg.Info("migrated legacy settings",
			"renamed", res.Migration.RenamedLegacy,
			"relocated", res.Migration.Relocated,
			"archived", res.Migration.Archived,
			"path", paths.Canonical)
	}

	switch {
	case err != nil:
		lg.Warn("settings unreadable, using defaults", "path", paths.Canonical, "err", err)
		res.Record, res.Source, res.Err = Defaults(), SourceDefaults, err
	case rec == nil:
		lg.Debug("no settings file, using defaults", "path", paths.Canonical)
		res.Record, res.Source = Defaults(), SourceDefaults
	default:
		lg.Debug("settings loaded", "path", paths.Canonical)
		res.Record, res.Source = rec, SourceFile
	}
	return res
}

// load returns (nil, nil) when no settings file exists.
func load(rt *toolkit.Runtime, paths Paths, m *Migration) (*Record, error) {
	if err := migrate(rt, paths, m); err != nil {
		return nil, err
	}

	ok, err := isFile(rt, paths.Canonical)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	data, err := rt.ReadFile(paths.Canonical)
	if err != nil {
		return nil, err
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", paths.Canonical, err)
	}
	return rec, nil
}

// migrate moves legacy files toward the canonical path. Once the canonical
// file exists nothing in the working directory is touched again, so the
// canonical file is only ever written whole.
func migrate(rt *toolkit.Runtime, paths Paths, m *Migration) error {
	legacy, err := isFile(rt, paths.Legacy)
	if err != nil {
		return err
	}
	if legacy {
		working, err := isFile(rt, paths.Working)
		if err != nil {
			return err
		}
		// On case-insensitive filesystems both names resolve to one file.
		if !working || sameFile(rt, paths.Legacy, paths.Working) {
			if err := rt.Rename(paths.Legacy, paths.Working); err != nil {
				return fmt.Errorf("rename legacy settings: %w", err)
			}
			m.RenamedLegacy = true
		} else {
			m.LegacyConflict = true
		}
	}

	working, err := isFile(rt, paths.Working)
	if err != nil {
		return err
	}
	if !working {
		return nil
	}
	canonical, err := isFile(rt, paths.Canonical)
	if err != nil {
		return err
	}
	if canonical {
		return nil
	}

	data, err := rt.ReadFile(paths.Working)
	if err != nil {
		return fmt.Errorf("read working settings: %w", err)
	}
	if err := rt.Mkdir(filepath.Dir(paths.Canonical), 0o755, true); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := rt.AtomicWriteFile(paths.Canonical, data, 0o644); err != nil {
		return fmt.Errorf("copy settings to %s: %w", paths.Canonical, err)
	}
	m.Relocated = true

	if err := rt.Rename(paths.Working, paths.Archive); err != nil {
		return fmt.Errorf("archive settings: %w", err)
	}
	m.Archived = true
	return nil
}

// isFile reports whether path names an existing regular file. Errors other
// than not-exist are returned so callers can tell "absent" from
// "unreadable".
func isFile(rt *toolkit.Runtime, path string) (bool, error) {
	info, err := rt.Stat(path, true)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func sameFile(rt *toolkit.Runtime, a, b string) bool {
	ai, err := rt.Stat(a, true)
	if err != nil {
		return false
	}
	bi, err := rt.Stat(b, true)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
