package diag

import (
	"fmt"
	"sort"
	"strings"

	"caret/internal/source"
)

type shortEntry struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, one line per
// entry representation: "severity[code] path:line:col message". It is
// used for condensed CLI output and for golden files in tests; entries
// are sorted deterministically regardless of input order.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortEntry, 0, len(diags))
	for _, d := range diags {
		rendered = appendShort(rendered, d, fs, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, e := range rendered {
		b.WriteString(e.Severity)
		if e.Code != "" {
			fmt.Fprintf(&b, "[%s]", e.Code)
		}
		if e.Path != "" {
			fmt.Fprintf(&b, " %s:%d:%d", e.Path, e.Line, e.Column)
		}
		fmt.Fprintf(&b, " %s", e.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortEntry, d Diagnostic, fs *source.FileSet, includeNotes bool) []shortEntry {
	primary, ok := d.PrimaryLabel()
	if !ok {
		return append(out, shortEntry{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  sanitizeMessage(d.Message),
		})
	}

	loc := resolveShort(fs, primary.Span)
	out = append(out, shortEntry{
		Severity: d.Severity.String(),
		Code:     d.Code,
		Path:     loc.Path,
		Line:     loc.Line,
		Column:   loc.Column,
		Message:  sanitizeMessage(d.Message),
	})

	if includeNotes {
		for _, note := range d.Notes {
			out = append(out, shortEntry{
				Severity: "note",
				Code:     d.Code,
				Path:     loc.Path,
				Line:     loc.Line,
				Column:   loc.Column,
				Message:  sanitizeMessage(note),
			})
		}
	}
	return out
}

type shortLoc struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveShort(fs *source.FileSet, span source.Span) shortLoc {
	f := fs.Get(span.File)
	if f == nil {
		return shortLoc{Path: fmt.Sprintf("<unknown:%d>", span.File)}
	}
	ix := f.Index()
	pos, err := ix.Resolve(ix.Clamp(span.Start), 4)
	if err != nil {
		return shortLoc{Path: f.FormatPath("relative", fs.BaseDir())}
	}
	return shortLoc{
		Path:   f.FormatPath("relative", fs.BaseDir()),
		Line:   pos.Line,
		Column: pos.Col,
	}
}
