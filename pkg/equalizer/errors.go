// ABOUTME: Error types reported by the equalizer engine
// ABOUTME: DecodeError and ExportError wrap the cause and match ErrDecode/ErrExport
package equalizer

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches any failure to read or process the input file
	ErrDecode = errors.New("decode failed")

	// ErrExport matches any failure to write the output file
	ErrExport = errors.New("export failed")

	// ErrSameFile is returned when the output path resolves to the input
	ErrSameFile = errors.New("output path is the input file")
)

// DecodeError reports an unreadable or corrupt input
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// ExportError reports a failure writing the processed output
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() []error {
	return []error{ErrExport, e.Err}
}
