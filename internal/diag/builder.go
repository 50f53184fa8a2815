package diag

import "caret/internal/source"

func New(sev Severity, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Message:  msg,
	}
}

func NewBug(msg string) Diagnostic     { return New(SevBug, msg) }
func NewError(msg string) Diagnostic   { return New(SevError, msg) }
func NewWarning(msg string) Diagnostic { return New(SevWarning, msg) }
func NewNote(msg string) Diagnostic    { return New(SevNote, msg) }
func NewHelp(msg string) Diagnostic    { return New(SevHelp, msg) }

// WithCode attaches a stable machine-readable code shown in brackets
// after the severity tag.
func (d Diagnostic) WithCode(code string) Diagnostic {
	d.Code = code
	return d
}

// WithLabel appends a primary label.
func (d Diagnostic) WithLabel(span source.Span, msg string) Diagnostic {
	d.Labels = append(d.Labels, Primary(span, msg))
	return d
}

// WithSecondaryLabel appends a secondary label.
func (d Diagnostic) WithSecondaryLabel(span source.Span, msg string) Diagnostic {
	d.Labels = append(d.Labels, Secondary(span, msg))
	return d
}

// WithLabels appends already-constructed labels in order.
func (d Diagnostic) WithLabels(labels ...Label) Diagnostic {
	d.Labels = append(d.Labels, labels...)
	return d
}

// WithNote appends a free-text note rendered after the source blocks.
func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, msg)
	return d
}
