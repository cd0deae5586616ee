package document

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for output formats other than md, html and pdf.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// RenderError reports a failure of the external PDF capability.
type RenderError struct {
	Op     string // "lookup", "prepare", "render", "read"
	Stderr string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("pdf %s: %v (stderr: %s)", e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("pdf %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
