package diag

import "fmt"

// Severity defines the importance of a diagnostic. The order is for
// display only: styling and header text key off it, control flow never
// does.
type Severity uint8

const (
	// SevHelp suggests how to solve a problem or follow a convention.
	SevHelp Severity = iota
	// SevNote is an informational message.
	SevNote
	// SevWarning flags suspicious but valid input.
	SevWarning
	SevError
	// SevBug marks an unexpected failure inside the tool itself.
	SevBug
)

// String returns the lowercase header tag for the severity, as it
// appears at the start of a rendered diagnostic.
func (s Severity) String() string {
	switch s {
	case SevHelp:
		return "help"
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevBug:
		return "bug"
	}
	return "unknown"
}

// ParseSeverity maps a header tag back to its Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "help":
		return SevHelp, nil
	case "note":
		return SevNote, nil
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	case "bug":
		return SevBug, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}
