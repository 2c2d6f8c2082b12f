package settings

import (
	"errors"
	"fmt"
)

// Sentinel errors used for errors.Is checks.
var (
	// ErrNoDataDir indicates Options.DataDir was empty.
	ErrNoDataDir = errors.New("settings: data directory is required")

	// ErrEmptyDocument indicates the settings file had no content.
	ErrEmptyDocument = errors.New("settings: empty document")

	// ErrNullDocument indicates the settings file held a JSON null.
	ErrNullDocument = errors.New("settings: null document")

	// ErrUnknownKey indicates a key that names no setting.
	ErrUnknownKey = errors.New("settings: unknown key")

	// ErrInvalidValue indicates a value that does not parse as the key's type.
	ErrInvalidValue = errors.New("settings: invalid value")

	// ErrUnsupportedFormat indicates an output format Render does not know.
	ErrUnsupportedFormat = errors.New("settings: unsupported format")

	// ErrExport indicates the settings file could not be written.
	ErrExport = errors.New("settings: export failed")
)

// UnknownKeyError carries the key that failed lookup.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string { return fmt.Sprintf("unknown setting %q", e.Key) }

func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }

// IsUnknownKey reports whether err is (or wraps) an unknown-key condition.
func IsUnknownKey(err error) bool {
	return errors.Is(err, ErrUnknownKey)
}

// InvalidValueError reports a value that could not be parsed for Key.
type InvalidValueError struct {
	Key   string
	Value string
	Kind  Kind
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: expected %s", e.Value, e.Key, e.Kind)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// IsInvalidValue reports whether err is (or wraps) an invalid-value condition.
func IsInvalidValue(err error) bool {
	return errors.Is(err, ErrInvalidValue)
}

type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (want json, yaml or text)", e.Format)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// ExportError wraps the I/O failure behind a failed save. It matches
// ErrExport and unwraps to the underlying cause.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("write settings to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Is(target error) bool { return target == ErrExport }

func (e *ExportError) Unwrap() error { return e.Err }

// IsExportError reports whether err is (or wraps) a failed export.
func IsExportError(err error) bool {
	return errors.Is(err, ErrExport)
}
