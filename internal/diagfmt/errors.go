package diagfmt

import (
	"fmt"

	"caret/internal/source"
)

// ConfigError reports an invalid configuration value. It is raised when
// a Renderer is constructed, before any render call.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Option, e.Reason)
}

// FileNotFoundError reports a label referencing a file the Files
// collaborator cannot resolve. It aborts the render of the whole
// diagnostic; there is no partial-success state.
type FileNotFoundError struct {
	File source.FileID
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %d not found: %v", e.File, e.Err)
}

func (e *FileNotFoundError) Unwrap() error { return e.Err }

// IOError reports a Writer that failed to accept a segment. Rendering
// aborts immediately and never retries.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("write failed: %v", e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
