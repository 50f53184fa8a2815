// Package diagfmt renders diagnostics into source-annotated text: the
// multi-line, underlined display compilers print for errors and
// warnings.
//
// # Pipeline
//
// A Renderer drives one diag.Diagnostic end to end:
//
//	error[E0425]: undefined variable
//	  ┌─ src/main.c:2:13
//	  │
//	1 │ let x = 5
//	2 │ let y = x + z
//	  │             ^
//	  │             undefined variable
//	  = note: declare z before use
//
// Labels are resolved to line/column positions through per-file indexes
// (see internal/source), grouped into display line clusters with folds
// for long gaps, packed onto underline rows so overlapping labels never
// collide, and finally emitted as a stream of (Style, text) segments.
//
// # Collaborators
//
// The renderer touches the outside world through two narrow interfaces:
// Files supplies file names and content (source.FileSet implements it),
// and Writer receives styled segments and decides what a style tag
// becomes (see internal/termstyle for ANSI, lipgloss and plain sinks).
//
// # Determinism and sharing
//
// Rendering is a single forward pass with no hidden state. All layout
// structures are rebuilt per call, so one Renderer may serve concurrent
// renders as long as each call owns its Writer. Rendering the same
// diagnostic twice yields byte-identical output.
//
// # Errors
//
// ConfigError surfaces from NewRenderer; source.RangeError flags
// inverted label spans before any output; FileNotFoundError aborts a
// diagnostic whose label references an unknown file; IOError wraps a
// failing Writer. Label spans past the end of a file are not errors:
// they are clamped to the file length and rendered.
package diagfmt
