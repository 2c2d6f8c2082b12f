package settings

import "path/filepath"

const (
	// FileName is the settings file name in both the working directory and
	// the application data directory.
	FileName = "Settings.json"

	// LegacyFileName is the lowercase name older releases wrote to the
	// working directory.
	LegacyFileName = "settings.json"

	// ArchiveSuffix is appended to the working-directory file once it has
	// been moved to the data directory.
	ArchiveSuffix = ".old"
)

// Paths is the set of locations the store touches. It is computed once by
// ResolvePaths and never changes afterward.
type Paths struct {
	// Canonical is <dataDir>/Settings.json, the only file read or written
	// after migration.
	Canonical string

	// Legacy is <workDir>/settings.json.
	Legacy string

	// Working is <workDir>/Settings.json.
	Working string

	// Archive is <workDir>/Settings.json.old.
	Archive string
}

// ResolvePaths computes every settings location from the process working
// directory and the application data directory.
func ResolvePaths(workDir, dataDir string) Paths {
	working := filepath.Join(workDir, FileName)
	return Paths{
		Canonical: filepath.Join(dataDir, FileName),
		Legacy:    filepath.Join(workDir, LegacyFileName),
		Working:   working,
		Archive:   working + ArchiveSuffix,
	}
}

// Active is the path every load and save uses.
func (p Paths) Active() string { return p.Canonical }
