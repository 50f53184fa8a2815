package diag

import (
	"caret/internal/source"
)

// Diagnostic is the central record: one finding with its severity, an
// optional stable code, labeled source spans and free-text notes. The
// struct is plain data owned by the caller; rendering never mutates it.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Labels   []Label
	Notes    []string
}

// PrimaryLabel returns the label that defines the header location: the
// first primary-styled label if any, otherwise the first label overall.
func (d Diagnostic) PrimaryLabel() (Label, bool) {
	for _, l := range d.Labels {
		if l.Style == LabelPrimary {
			return l, true
		}
	}
	if len(d.Labels) > 0 {
		return d.Labels[0], true
	}
	return Label{}, false
}

// Files returns the distinct files the labels touch, primary file first,
// the rest in first-appearance order.
func (d Diagnostic) Files() []source.FileID {
	out := make([]source.FileID, 0, 1)
	seen := make(map[source.FileID]struct{}, 1)
	if primary, ok := d.PrimaryLabel(); ok {
		out = append(out, primary.Span.File)
		seen[primary.Span.File] = struct{}{}
	}
	for _, l := range d.Labels {
		if _, ok := seen[l.Span.File]; ok {
			continue
		}
		seen[l.Span.File] = struct{}{}
		out = append(out, l.Span.File)
	}
	return out
}

// LabelsFor returns the labels touching one file, in the deterministic
// layout order.
func (d Diagnostic) LabelsFor(file source.FileID) []Label {
	out := make([]Label, 0, len(d.Labels))
	for _, l := range d.Labels {
		if l.Span.File == file {
			out = append(out, l)
		}
	}
	SortLabels(out)
	return out
}

// Validate checks the structural invariants every renderer relies on.
// Inverted spans are caller bugs and surface as RangeError before any
// output is produced.
func (d Diagnostic) Validate() error {
	for _, l := range d.Labels {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}
