package diagfmt

import "caret/internal/diag"

// Style is the abstract tag attached to every emitted text segment. The
// renderer never decides concrete colors; a Writer implementation maps
// tags to ANSI codes, HTML classes, or nothing at all.
type Style uint8

const (
	// StyleText is unstyled filler: spaces, separators, newlines.
	StyleText Style = iota
	StyleHeaderBug
	StyleHeaderError
	StyleHeaderWarning
	StyleHeaderNote
	StyleHeaderHelp
	// StyleHeaderMessage covers the message part of the header line.
	StyleHeaderMessage
	// StyleGutter covers line numbers, borders, fold markers and bullets.
	StyleGutter
	// StyleSource covers source line text.
	StyleSource
	// StylePrimary covers underlines and connectors of primary labels.
	StylePrimary
	// StyleSecondary covers underlines and connectors of secondary labels,
	// and the file:line:column location.
	StyleSecondary
	// StyleNote covers label messages and trailing notes.
	StyleNote
)

func (s Style) String() string {
	switch s {
	case StyleText:
		return "text"
	case StyleHeaderBug:
		return "header-bug"
	case StyleHeaderError:
		return "header-error"
	case StyleHeaderWarning:
		return "header-warning"
	case StyleHeaderNote:
		return "header-note"
	case StyleHeaderHelp:
		return "header-help"
	case StyleHeaderMessage:
		return "header-message"
	case StyleGutter:
		return "gutter"
	case StyleSource:
		return "source"
	case StylePrimary:
		return "primary"
	case StyleSecondary:
		return "secondary"
	case StyleNote:
		return "note"
	}
	return "unknown"
}

// StyleMap chooses the header style for each severity.
type StyleMap map[diag.Severity]Style

// DefaultStyles mirrors the conventional compiler palette: red for bugs
// and errors, yellow for warnings, green for notes, cyan for help.
func DefaultStyles() StyleMap {
	return StyleMap{
		diag.SevBug:     StyleHeaderBug,
		diag.SevError:   StyleHeaderError,
		diag.SevWarning: StyleHeaderWarning,
		diag.SevNote:    StyleHeaderNote,
		diag.SevHelp:    StyleHeaderHelp,
	}
}
