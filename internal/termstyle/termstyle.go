// Package termstyle provides the terminal sinks for rendered
// diagnostics: each writer maps the abstract style tags emitted by
// internal/diagfmt to a concrete presentation (ANSI escapes, lipgloss
// styling, or nothing).
package termstyle

import (
	"io"
	"os"

	"golang.org/x/term"

	"caret/internal/diagfmt"
)

// Plain returns a writer that discards style tags and forwards bare
// text. It is the sink for piped output and --color=never.
func Plain(w io.Writer) diagfmt.Writer {
	return &plainWriter{w: w}
}

type plainWriter struct {
	w io.Writer
}

func (p *plainWriter) WriteSegment(_ diagfmt.Style, text string) error {
	_, err := io.WriteString(p.w, text)
	return err
}

// Auto picks ANSI when f is a terminal and Plain otherwise.
func Auto(f *os.File) diagfmt.Writer {
	if isTerminal(f) {
		return ANSI(f)
	}
	return Plain(f)
}

// ForMode resolves the conventional --color flag values. Unknown modes
// fall back to auto detection.
func ForMode(mode string, f *os.File) diagfmt.Writer {
	switch mode {
	case "always":
		return ForceANSI(f)
	case "never":
		return Plain(f)
	default:
		return Auto(f)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
