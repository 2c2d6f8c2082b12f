package settings_test

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jlrickert/cli-toolkit/sandbox"
	"github.com/jlrickert/tonsave/pkg/log"
	"github.com/jlrickert/tonsave/pkg/settings"
	"github.com/stretchr/testify/require"
)

const (
	workDir = "/home/testuser/game"
	dataDir = "/home/testuser/.local/share/tonsave"
)

func NewSandbox(t *testing.T, opts ...sandbox.Option) *sandbox.Sandbox {
	return sandbox.NewSandbox(t, &sandbox.Options{
		Home: "/home/testuser",
		User: "testuser",
	}, opts...)
}

func writeFile(sb *sandbox.Sandbox, path, content string) {
	sb.MustWriteFile(path, []byte(content), 0o644)
}

func readFile(sb *sandbox.Sandbox, path string) string {
	return string(sb.MustReadFile(path))
}

func requireMissing(t *testing.T, sb *sandbox.Sandbox, path string) {
	t.Helper()
	_, err := sb.Runtime().Stat(path, false)
	require.True(t, errors.Is(err, fs.ErrNotExist), "expected %s to be absent, stat err: %v", path, err)
}

func newStore(t *testing.T, sb *sandbox.Sandbox, workDir, dataDir string) (*settings.Store, *log.TestHandler) {
	t.Helper()
	lg, th := log.NewTestLogger(t)
	s, err := settings.NewStore(sb.Context(), settings.Options{
		Runtime: sb.Runtime(),
		WorkDir: workDir,
		DataDir: dataDir,
		Logger:  lg,
	})
	require.NoError(t, err)
	return s, th
}

func TestNewStoreRequiresDataDir(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	_, err := settings.NewStore(sb.Context(), settings.Options{Runtime: sb.Runtime(), WorkDir: workDir})
	require.ErrorIs(t, err, settings.ErrNoDataDir)
}

func TestResolvePaths(t *testing.T) {
	t.Parallel()
	work := filepath.FromSlash("/game")
	data := filepath.FromSlash("/appdata/tonsave")

	p := settings.ResolvePaths(work, data)
	require.Equal(t, filepath.Join(data, "Settings.json"), p.Canonical)
	require.Equal(t, filepath.Join(work, "settings.json"), p.Legacy)
	require.Equal(t, filepath.Join(work, "Settings.json"), p.Working)
	require.Equal(t, filepath.Join(work, "Settings.json.old"), p.Archive)
	require.Equal(t, p.Canonical, p.Active())
}

func TestImportWithoutFileUsesDefaults(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)

	s, _ := newStore(t, sb, workDir, dataDir)

	require.Equal(t, *settings.Defaults(), s.Snapshot())
	res := s.LoadResult()
	require.Equal(t, settings.SourceDefaults, res.Source)
	require.NoError(t, res.Err)
	require.False(t, res.Migration.Any())
	require.Equal(t, filepath.Join(dataDir, "Settings.json"), s.ActivePath())
}

func TestImportReadsCanonicalFile(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	writeFile(sb, filepath.Join(dataDir, "Settings.json"), `{"AutoCopy":true,"XSOverlayPort":9000}`)

	s, _ := newStore(t, sb, workDir, dataDir)

	require.Equal(t, settings.SourceFile, s.LoadResult().Source)
	require.True(t, s.Current().AutoCopy)
	require.Equal(t, 9000, s.Current().XSOverlayPort)
	require.True(t, s.Current().SaveRoundInfo, "absent keys keep defaults")
}

func TestImportCorruptFileFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"invalid_json":  `{"AutoCopy": true,`,
		"null_document": `null`,
		"empty_file":    ``,
		"wrong_type":    `{"AutoCopy": "sometimes", "PlayAudio": true}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			sb := NewSandbox(t)
			writeFile(sb, filepath.Join(dataDir, "Settings.json"), content)

			s, th := newStore(t, sb, workDir, dataDir)

			require.Equal(t, *settings.Defaults(), s.Snapshot(), "no partial state")
			res := s.LoadResult()
			require.Equal(t, settings.SourceDefaults, res.Source)
			require.Error(t, res.Err)
			require.NotEmpty(t, th.Find(func(e log.LoggedEntry) bool {
				return e.Level == slog.LevelWarn && e.Msg == "settings unreadable, using defaults"
			}))
		})
	}
}

func TestImportUnreadablePathFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	writeFile(sb, "/blocker", "not a directory")

	s, _ := newStore(t, sb, workDir, "/blocker/data")

	require.Equal(t, *settings.Defaults(), s.Snapshot())
	require.Error(t, s.LoadResult().Err)
}

func TestImportRenamesLegacyFile(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	content := `{"PlayAudio":true,"AudioLocation":"ding.wav"}`
	writeFile(sb, filepath.Join(workDir, "settings.json"), content)

	s, _ := newStore(t, sb, workDir, dataDir)

	requireMissing(t, sb, filepath.Join(workDir, "settings.json"))
	requireMissing(t, sb, filepath.Join(workDir, "Settings.json"))
	require.Equal(t, content, readFile(sb, filepath.Join(dataDir, "Settings.json")))
	require.Equal(t, content, readFile(sb, filepath.Join(workDir, "Settings.json.old")))

	res := s.LoadResult()
	require.True(t, res.Migration.RenamedLegacy)
	require.True(t, res.Migration.Relocated)
	require.True(t, res.Migration.Archived)
	require.True(t, s.Current().PlayAudio)
	require.Equal(t, "ding.wav", s.Current().AudioLocation)
}

func TestImportRelocatesAndArchivesWorkingFile(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	content := `{"ShowDate":true}`
	writeFile(sb, filepath.Join(workDir, "Settings.json"), content)

	s, th := newStore(t, sb, workDir, dataDir)

	require.Equal(t, content, readFile(sb, filepath.Join(dataDir, "Settings.json")))
	require.Equal(t, content, readFile(sb, filepath.Join(workDir, "Settings.json.old")))
	requireMissing(t, sb, filepath.Join(workDir, "Settings.json"))
	require.True(t, s.Current().ShowDate)

	res := s.LoadResult()
	require.False(t, res.Migration.RenamedLegacy)
	require.True(t, res.Migration.Relocated)
	require.True(t, res.Migration.Archived)
	require.Len(t, th.Find(func(e log.LoggedEntry) bool { return e.Msg == "migrated legacy settings" }), 1)

	entries, err := sb.Runtime().ReadDir(dataDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "relocation leaves no temp files behind")

	// A second start finds only the canonical file and changes nothing.
	again, _ := newStore(t, sb, workDir, dataDir)
	require.False(t, again.LoadResult().Migration.Any())
	require.True(t, again.Current().ShowDate)
	require.Equal(t, content, readFile(sb, filepath.Join(workDir, "Settings.json.old")))
}

func TestImportFailedRelocationIsRetried(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	writeFile(sb, "/blocker", "not a directory")
	content := `{"AutoCopy":true}`
	writeFile(sb, filepath.Join(workDir, "Settings.json"), content)

	blocked, _ := newStore(t, sb, workDir, "/blocker/tonsave")

	res := blocked.LoadResult()
	require.Error(t, res.Err)
	require.False(t, res.Migration.Relocated)
	require.Equal(t, *settings.Defaults(), blocked.Snapshot())
	require.Equal(t, content, readFile(sb, filepath.Join(workDir, "Settings.json")),
		"working file stays until the canonical copy is complete")
	requireMissing(t, sb, filepath.Join(workDir, "Settings.json.old"))

	s, _ := newStore(t, sb, workDir, dataDir)
	require.True(t, s.LoadResult().Migration.Relocated)
	require.True(t, s.LoadResult().Migration.Archived)
	require.True(t, s.Current().AutoCopy)
}

func TestImportArchiveFailureKeepsCanonicalCopy(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	content := `{"SaveNames":true}`
	writeFile(sb, filepath.Join(workDir, "Settings.json"), content)
	// A directory in the archive's place makes the rename fail.
	writeFile(sb, filepath.Join(workDir, "Settings.json.old", "keep"), "x")

	s, _ := newStore(t, sb, workDir, dataDir)

	res := s.LoadResult()
	require.Error(t, res.Err)
	require.True(t, res.Migration.Relocated)
	require.False(t, res.Migration.Archived)
	require.Equal(t, settings.SourceDefaults, res.Source)
	require.Equal(t, content, readFile(sb, filepath.Join(dataDir, "Settings.json")))
	require.Equal(t, content, readFile(sb, filepath.Join(workDir, "Settings.json")))

	// The next start uses the canonical copy and leaves the working file.
	again, _ := newStore(t, sb, workDir, dataDir)
	require.NoError(t, again.LoadResult().Err)
	require.Equal(t, settings.SourceFile, again.LoadResult().Source)
	require.False(t, again.LoadResult().Migration.Any())
	require.True(t, again.Current().SaveNames)
}

func TestImportSkipsMigrationWhenCanonicalExists(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	writeFile(sb, filepath.Join(dataDir, "Settings.json"), `{"AutoCopy":true}`)
	stray := `{"AutoCopy":false,"ShowDate":true}`
	writeFile(sb, filepath.Join(workDir, "Settings.json"), stray)

	for range 2 {
		s, _ := newStore(t, sb, workDir, dataDir)
		require.True(t, s.Current().AutoCopy)
		require.False(t, s.Current().ShowDate)
		require.False(t, s.LoadResult().Migration.Any())
	}

	require.Equal(t, stray, readFile(sb, filepath.Join(workDir, "Settings.json")))
	requireMissing(t, sb, filepath.Join(workDir, "Settings.json.old"))
}

func TestImportLegacyConflictLeavesLegacyFile(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	legacy := filepath.Join(workDir, "settings.json")
	working := filepath.Join(workDir, "Settings.json")
	writeFile(sb, legacy, `{"SaveNames":true}`)
	writeFile(sb, working, `{"ShowDate":true}`)

	lower, err := sb.Runtime().Stat(legacy, true)
	require.NoError(t, err)
	upper, err := sb.Runtime().Stat(working, true)
	require.NoError(t, err)
	if os.SameFile(lower, upper) {
		t.Skip("case-insensitive filesystem")
	}

	s, _ := newStore(t, sb, workDir, dataDir)

	require.True(t, s.LoadResult().Migration.LegacyConflict)
	require.Equal(t, `{"SaveNames":true}`, readFile(sb, legacy))
	require.True(t, s.Current().ShowDate)
	require.False(t, s.Current().SaveNames)
}

func TestImportSameWorkAndDataDir(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	writeFile(sb, filepath.Join(dataDir, "Settings.json"), `{"AutoCopy":true}`)

	s, _ := newStore(t, sb, dataDir, dataDir)

	require.True(t, s.Current().AutoCopy)
	require.False(t, s.LoadResult().Migration.Any())
	requireMissing(t, sb, filepath.Join(dataDir, "Settings.json.old"))
}

func TestNewStoreDefaultsToRuntimeWorkingDir(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t, sandbox.WithWd(workDir))
	writeFile(sb, filepath.Join(workDir, "settings.json"), `{"ShowSeconds":false}`)

	s, err := settings.NewStore(sb.Context(), settings.Options{
		Runtime: sb.Runtime(),
		DataDir: "data",
	})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(workDir, "data", "Settings.json"), s.ActivePath(),
		"relative directories resolve against the runtime working directory")
	require.True(t, s.LoadResult().Migration.RenamedLegacy)
	require.False(t, s.Current().ShowSeconds)
}

func TestExportWritesWholeRecord(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	writeFile(sb, filepath.Join(dataDir, "Settings.json"), `{"AutoCopy":true,"Extra":"dropped"}`)

	s, _ := newStore(t, sb, workDir, dataDir)
	s.Current().PlayAudio = true
	s.Current().IgnoreRelease = "v3.0.0"
	require.NoError(t, s.Export(sb.Context()))

	onDisk, err := settings.Decode([]byte(readFile(sb, s.ActivePath())))
	require.NoError(t, err)
	require.Equal(t, s.Snapshot(), *onDisk)
	require.NotContains(t, readFile(sb, s.ActivePath()), "Extra")

	reopened, _ := newStore(t, sb, workDir, dataDir)
	require.Equal(t, s.Snapshot(), reopened.Snapshot())
}

func TestExportCreatesDataDir(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)

	s, _ := newStore(t, sb, workDir, dataDir)
	require.NoError(t, s.Export(sb.Context()))

	got, err := settings.Decode([]byte(readFile(sb, filepath.Join(dataDir, "Settings.json"))))
	require.NoError(t, err)
	require.Equal(t, *settings.Defaults(), *got)
}

func TestExportFailureIsReportedNotRaised(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	writeFile(sb, "/blocker", "not a directory")

	var notified []error
	lg, th := log.NewTestLogger(t)
	s, err := settings.NewStore(sb.Context(), settings.Options{
		Runtime: sb.Runtime(),
		WorkDir: workDir,
		DataDir: "/blocker/data",
		Logger:  lg,
		Notifier: settings.NotifierFunc(func(_ context.Context, err error) {
			notified = append(notified, err)
		}),
	})
	require.NoError(t, err)

	s.Current().AutoCopy = true
	before := s.Snapshot()

	err = s.Export(sb.Context())
	require.Error(t, err)
	require.True(t, settings.IsExportError(err))

	var exportErr *settings.ExportError
	require.ErrorAs(t, err, &exportErr)
	require.Equal(t, s.ActivePath(), exportErr.Path)
	require.NotNil(t, exportErr.Err)

	require.Len(t, notified, 1)
	require.Same(t, exportErr, notified[0])
	require.Equal(t, before, s.Snapshot(), "in-memory record is untouched")

	failed := th.Find(func(e log.LoggedEntry) bool { return e.Msg == "export settings failed" })
	require.Len(t, failed, 1)
	require.Equal(t, slog.LevelDebug, failed[0].Level, "the notifier already told the user")
}

func TestExportFailureWithoutNotifierLogsError(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	writeFile(sb, "/blocker", "not a directory")

	s, th := newStore(t, sb, workDir, "/blocker/data")

	require.Error(t, s.Export(sb.Context()))
	require.NotEmpty(t, th.Find(func(e log.LoggedEntry) bool {
		return e.Level == slog.LevelError && e.Msg == "export settings failed"
	}))
}

func TestCurrentIsLiveAndSnapshotIsCopy(t *testing.T) {
	t.Parallel()
	sb := NewSandbox(t)
	s, _ := newStore(t, sb, workDir, dataDir)

	snap := s.Snapshot()
	live := s.Current()
	live.AutoCopy = true

	require.True(t, s.Current().AutoCopy)
	require.False(t, snap.AutoCopy)

	s.Reset()
	require.Same(t, live, s.Current(), "Reset keeps the same record")
	require.False(t, live.AutoCopy)

	replacement := *settings.Defaults()
	replacement.ShowDate = true
	s.Replace(replacement)
	require.True(t, live.ShowDate)
}
