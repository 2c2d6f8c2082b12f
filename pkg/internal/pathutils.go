package internal

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// WindowsAppName is the directory name used under %LOCALAPPDATA% on Windows.
// It matches the folder the desktop application has always written to.
const WindowsAppName = "ToNSaveManager"

// DataDir returns the per-user application data directory for appName as
// seen by rt.
//
// Behavior by platform:
//
//   - Windows: "%LOCALAPPDATA%\ToNSaveManager".
//   - Unix-like: toolkit.UserDataPath joined with appName, that is
//     "$XDG_DATA_HOME/<appName>" or "$HOME/.local/share/<appName>".
//
// The directory is not created.
func DataDir(rt *toolkit.Runtime, appName string) (string, error) {
	if runtime.GOOS == "windows" {
		if local := strings.TrimSpace(rt.Get("LOCALAPPDATA")); local != "" {
			return filepath.Join(local, WindowsAppName), nil
		}
	}
	base, err := toolkit.UserDataPath(rt)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// HostPath maps a runtime path to the path the host OS sees. Child processes
// and file watchers live outside the runtime, so they need the jail prefix
// added back.
func HostPath(rt *toolkit.Runtime, path string) (string, error) {
	resolved, err := rt.ResolvePath(path, false)
	if err != nil {
		return "", err
	}
	if jail := strings.TrimSpace(rt.GetJail()); jail != "" {
		trimmed := strings.TrimPrefix(resolved, string(filepath.Separator))
		return filepath.Join(jail, trimmed), nil
	}
	return resolved, nil
}
