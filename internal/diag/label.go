package diag

import (
	"sort"

	"caret/internal/source"
)

// LabelStyle distinguishes the label that carries the main point of a
// diagnostic from supporting context.
type LabelStyle uint8

const (
	// LabelPrimary marks the span the diagnostic is about.
	LabelPrimary LabelStyle = iota
	// LabelSecondary marks supporting context for the primary span.
	LabelSecondary
)

func (s LabelStyle) String() string {
	if s == LabelSecondary {
		return "secondary"
	}
	return "primary"
}

// Label is a styled annotation attached to a byte span, with an optional
// message rendered next to its underline. An empty span is valid and
// renders as a single insertion-point caret.
type Label struct {
	Style   LabelStyle
	Span    source.Span
	Message string
}

// Primary constructs a primary label.
func Primary(span source.Span, msg string) Label {
	return Label{Style: LabelPrimary, Span: span, Message: msg}
}

// Secondary constructs a secondary label.
func Secondary(span source.Span, msg string) Label {
	return Label{Style: LabelSecondary, Span: span, Message: msg}
}

// Validate rejects labels whose span is inverted (start > end).
func (l Label) Validate() error {
	if l.Span.Start > l.Span.End {
		return &source.RangeError{
			Offset:   l.Span.Start,
			End:      l.Span.End,
			Inverted: true,
		}
	}
	return nil
}

// Less is the deterministic per-file label ordering: start offset
// ascending, primary before secondary, then longer range first. Two
// labels starting at the same column therefore process the more
// important, more specific one first, and re-rendering a diagnostic can
// never reorder its output.
func (l Label) Less(other Label) bool {
	if l.Span.Start != other.Span.Start {
		return l.Span.Start < other.Span.Start
	}
	if l.Style != other.Style {
		return l.Style == LabelPrimary
	}
	return l.Span.Len() > other.Span.Len()
}

// SortLabels orders labels for one file by the Less tie-break. The sort
// is stable so equal labels keep their caller-supplied order.
func SortLabels(labels []Label) {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Less(labels[j])
	})
}
