package settings

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formats accepted by Render.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Render writes r to w in the given format. json matches the on-disk form.
func Render(w io.Writer, r *Record, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		data, err := Encode(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		width := 0
		for _, f := range fields {
			width = max(width, len(f.Key))
		}
		for _, f := range fields {
			if _, err := fmt.Fprintf(w, "%-*s = %s\n", width, f.Key, f.Value(r)); err != nil {
				return err
			}
		}
		return nil
	default:
		return &UnsupportedFormatError{Format: format}
	}
}
