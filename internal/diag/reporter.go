package diag

import "caret/internal/source"

// Reporter is the minimal contract for components that produce
// diagnostics. Implementations: BagReporter (collects into a Bag),
// DedupReporter (suppresses duplicates before forwarding). Producers
// that assemble a diagnostic incrementally use ReportBuilder.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter forwards every diagnostic into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// ReportBuilder accumulates one diagnostic before handing it to a
// Reporter. Emit delivers it exactly once; later calls are no-ops.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to a Reporter.
func NewReportBuilder(r Reporter, sev Severity, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, msg)}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, msg)
}

// ReportNote is a shortcut for SevNote diagnostics.
func ReportNote(r Reporter, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevNote, msg)
}

// WithCode sets the stable diagnostic code.
func (b *ReportBuilder) WithCode(code string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithCode(code)
	return b
}

// WithLabel appends a primary label.
func (b *ReportBuilder) WithLabel(span source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithLabel(span, msg)
	return b
}

// WithSecondaryLabel appends a secondary label.
func (b *ReportBuilder) WithSecondaryLabel(span source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithSecondaryLabel(span, msg)
	return b
}

// WithNote appends a free-text note.
func (b *ReportBuilder) WithNote(msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(msg)
	return b
}

// Emit sends the diagnostic to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns the accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

type dedupKey struct {
	sev   Severity
	code  string
	file  source.FileID
	start uint32
	end   uint32
	msg   string
}

// DedupReporter wraps another Reporter and suppresses diagnostics that
// repeat an earlier severity, code, primary span and message.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	primary, _ := d.PrimaryLabel()
	key := dedupKey{
		sev:   d.Severity,
		code:  d.Code,
		file:  primary.Span.File,
		start: primary.Span.Start,
		end:   primary.Span.End,
		msg:   d.Message,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
