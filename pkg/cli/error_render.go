package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jlrickert/tonsave/pkg/settings"
)

func renderUserError(err error, deps *Deps) string {
	if err == nil {
		return ""
	}

	var unknown *settings.UnknownKeyError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("unknown setting %q (run 'tonsave fields' to list settings)", unknown.Key)
	}

	// The banner already carried the details.
	var exportErr *settings.ExportError
	if errors.As(err, &exportErr) {
		if isDebugLogLevel(deps) {
			return fmt.Sprintf("settings were not saved: %v", exportErr.Err)
		}
		return "settings were not saved"
	}

	return err.Error()
}

func isDebugLogLevel(deps *Deps) bool {
	if deps == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(deps.LogLevel), "debug")
}
