package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jlrickert/tonsave/pkg/settings"
)

// newBannerNotifier reports failed saves with a framed message on w. It is
// the terminal stand-in for the desktop app's error dialog.
func newBannerNotifier(w io.Writer) settings.Notifier {
	return settings.NotifierFunc(func(_ context.Context, err error) {
		dir := ""
		var exportErr *settings.ExportError
		if errors.As(err, &exportErr) {
			dir = filepath.Dir(exportErr.Path)
		}

		var b strings.Builder
		rule := strings.Repeat("=", 72)
		b.WriteString(rule + "\n")
		b.WriteString("An error occurred while trying to write your settings to a file.\n\n")
		if dir != "" {
			fmt.Fprintf(&b, "Make sure the program has permission to write files in %s.\n\n", dir)
		}
		fmt.Fprintf(&b, "%v\n", err)
		b.WriteString(rule + "\n")

		_, _ = io.WriteString(w, b.String())
	})
}
