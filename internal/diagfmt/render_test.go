package diagfmt

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"caret/internal/diag"
	"caret/internal/source"
)

// textWriter keeps only the text of every segment.
type textWriter struct {
	b strings.Builder
}

func (w *textWriter) WriteSegment(_ Style, text string) error {
	w.b.WriteString(text)
	return nil
}

func (w *textWriter) String() string { return w.b.String() }

// taggedWriter records (style, text) pairs for assertions on styling.
type taggedWriter struct {
	segs []struct {
		style Style
		text  string
	}
}

func (w *taggedWriter) WriteSegment(style Style, text string) error {
	w.segs = append(w.segs, struct {
		style Style
		text  string
	}{style, text})
	return nil
}

// failWriter fails after accepting a fixed number of segments.
type failWriter struct {
	remaining int
}

func (w *failWriter) WriteSegment(_ Style, _ string) error {
	if w.remaining <= 0 {
		return errors.New("stream closed")
	}
	w.remaining--
	return nil
}

func renderToString(t *testing.T, cfg Config, files Files, d diag.Diagnostic) string {
	t.Helper()
	r, err := NewRenderer(cfg, files)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var w textWriter
	if err := r.Render(d, &w); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return w.String()
}

func TestRenderScenarioUndefinedVariable(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("let x = 5\nlet y = x + z\n"))

	d := diag.NewError("undefined variable").
		WithLabel(source.Span{File: id, Start: 22, End: 23}, "")

	got := renderToString(t, NewConfig(), fs, d)
	want := "error: undefined variable\n" +
		"  ┌─ a.txt:2:13\n" +
		"  │\n" +
		"1 │ let x = 5\n" +
		"2 │ let y = x + z\n" +
		"  │             ^\n" +
		"3 │\n"
	if got != want {
		t.Errorf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
	if !strings.Contains(got, "a.txt:2:13") {
		t.Error("expected location a.txt:2:13 in output")
	}
}

func TestRenderLabelMessageOnDedicatedRow(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("let x = 5\nlet y = x + z\n"))

	d := diag.NewError("undefined variable").
		WithCode("E0425").
		WithLabel(source.Span{File: id, Start: 22, End: 23}, "not found in this scope").
		WithNote("declare z before use")

	got := renderToString(t, NewConfig(), fs, d)
	want := "error[E0425]: undefined variable\n" +
		"  ┌─ a.txt:2:13\n" +
		"  │\n" +
		"1 │ let x = 5\n" +
		"2 │ let y = x + z\n" +
		"  │             ^\n" +
		"  │             not found in this scope\n" +
		"3 │\n" +
		"  = note: declare z before use\n"
	if got != want {
		t.Errorf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderOverlappingLabelsUseDistinctRows(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("f.txt", []byte("abcdefghij\n"))

	d := diag.NewWarning("overlapping").
		WithLabel(source.Span{File: id, Start: 2, End: 6}, "first").
		WithSecondaryLabel(source.Span{File: id, Start: 4, End: 8}, "second")

	got := renderToString(t, NewConfig(), fs, d)
	want := "warning: overlapping\n" +
		"  ┌─ f.txt:1:3\n" +
		"  │\n" +
		"1 │ abcdefghij\n" +
		"  │   ^^^^\n" +
		"  │   first\n" +
		"  │     ----\n" +
		"  │     second\n" +
		"2 │\n"
	if got != want {
		t.Errorf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderNonOverlappingLabelsShareRow(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("f.txt", []byte("abcdefghij\n"))

	d := diag.NewWarning("share").
		WithLabel(source.Span{File: id, Start: 0, End: 2}, "").
		WithSecondaryLabel(source.Span{File: id, Start: 7, End: 9}, "")

	got := renderToString(t, NewConfig(), fs, d)
	if !strings.Contains(got, "  │ ^^     --\n") {
		t.Errorf("expected shared underline row, got:\n%s", got)
	}
}

func TestRenderEmptyRangeMarker(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("f.txt", []byte("abcdef\n"))

	d := diag.NewError("insert here").
		WithLabel(source.Span{File: id, Start: 3, End: 3}, "")

	got := renderToString(t, NewConfig(), fs, d)
	if !strings.Contains(got, "  │    ^\n") {
		t.Errorf("expected single caret marker at column 4, got:\n%s", got)
	}
	if strings.Contains(got, "^^") {
		t.Errorf("empty range must not widen beyond one caret, got:\n%s", got)
	}
}

func TestRenderMultiLineConnector(t *testing.T) {
	fs := source.NewFileSet()
	src := "fn main() {\n    let a = 1;\n    let b = 2;\n}\n"
	id := fs.AddVirtual("m.txt", []byte(src))

	d := diag.NewError("block never returns").
		WithLabel(source.Span{File: id, Start: 10, End: 43}, "this block")

	got := renderToString(t, NewConfig(), fs, d)
	want := "error: block never returns\n" +
		"  ┌─ m.txt:1:11\n" +
		"  │\n" +
		"1 │ ╭ fn main() {\n" +
		"2 │ │     let a = 1;\n" +
		"3 │ │     let b = 2;\n" +
		"4 │ │ }\n" +
		"  │ ╰─^ this block\n" +
		"5 │\n"
	if got != want {
		t.Errorf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}

	// Exactly the interior lines carry a bare vertical bar between the
	// top corner (line 1) and the bottom corner row.
	interior := strings.Count(got, "│ │ ")
	if interior != 3 { // lines 2, 3 and the end line 4
		t.Errorf("connector bar count = %d, want 3:\n%s", interior, got)
	}
	if strings.Count(got, "╭") != 1 || strings.Count(got, "╰") != 1 {
		t.Errorf("expected exactly one top and one bottom corner:\n%s", got)
	}
}

func TestRenderClampsOutOfBoundsSpans(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.txt", []byte("abc"))

	tests := []struct {
		name string
		span source.Span
		want string // underline row
	}{
		{"end past eof", source.Span{File: id, Start: 1, End: 100}, "  │  ^^\n"},
		{"whole span past eof", source.Span{File: id, Start: 50, End: 100}, "  │    ^\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diag.NewError("clamped").WithLabel(tt.span, "")
			got := renderToString(t, NewConfig(), fs, d)
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected clamped underline %q, got:\n%s", tt.want, got)
			}
		})
	}
}

func TestRenderFoldsLongGaps(t *testing.T) {
	fs := source.NewFileSet()
	var sb strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	id := fs.AddVirtual("g.txt", []byte(sb.String()))

	d := diag.NewError("two sites").
		WithLabel(source.Span{File: id, Start: 0, End: 4}, "").
		WithSecondaryLabel(source.Span{File: id, Start: 63, End: 67}, "")

	got := renderToString(t, NewConfig(), fs, d)
	if !strings.Contains(got, "   ·\n") {
		t.Errorf("expected fold marker row, got:\n%s", got)
	}
	for _, hidden := range []string{"line 4", "line 5", "line 6", "line 7", "line 8"} {
		if strings.Contains(got, hidden) {
			t.Errorf("folded line %q leaked into output:\n%s", hidden, got)
		}
	}
	for _, shown := range []string{"line 1", "line 2", "line 9", "line 10"} {
		if !strings.Contains(got, shown) {
			t.Errorf("context line %q missing from output:\n%s", shown, got)
		}
	}
}

func TestRenderSmallGapsStayVisible(t *testing.T) {
	fs := source.NewFileSet()
	src := "one\ntwo\nthree\nfour\nfive\n"
	id := fs.AddVirtual("g.txt", []byte(src))

	// Labels on lines 1 and 5; context already shows 2 and 4, leaving a
	// one-line gap at line 3 which the default threshold tolerates.
	d := diag.NewError("near").
		WithLabel(source.Span{File: id, Start: 0, End: 3}, "").
		WithSecondaryLabel(source.Span{File: id, Start: 19, End: 23}, "")

	got := renderToString(t, NewConfig(), fs, d)
	if strings.Contains(got, "·") {
		t.Errorf("expected no fold for a gap within the threshold:\n%s", got)
	}
	if !strings.Contains(got, "three") {
		t.Errorf("expected the tolerated gap line to be displayed:\n%s", got)
	}
}

func TestRenderASCIIGlyphs(t *testing.T) {
	fs := source.NewFileSet()
	src := "fn main() {\n    let a = 1;\n}\n"
	id := fs.AddVirtual("m.txt", []byte(src))

	cfg := NewConfig()
	cfg.ASCIIOnly = true

	d := diag.NewError("block").
		WithLabel(source.Span{File: id, Start: 10, End: 28}, "here")

	got := renderToString(t, cfg, fs, d)
	if !strings.Contains(got, "--> m.txt:1:11") {
		t.Errorf("expected ASCII snippet start, got:\n%s", got)
	}
	if !strings.Contains(got, "/ fn main() {") {
		t.Errorf("expected ASCII top corner, got:\n%s", got)
	}
	if !strings.Contains(got, "\\-^ here") {
		t.Errorf("expected ASCII bottom corner, got:\n%s", got)
	}
	if strings.ContainsAny(got, "┌─│╭╰·") {
		t.Errorf("box drawing glyphs leaked into ASCII output:\n%s", got)
	}
}

func TestRenderTabExpansion(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.txt", []byte("\tx = 1\n"))

	d := diag.NewError("tabbed").
		WithLabel(source.Span{File: id, Start: 1, End: 2}, "")

	got := renderToString(t, NewConfig(), fs, d)
	if !strings.Contains(got, "1 │     x = 1\n") {
		t.Errorf("expected tab expanded to four spaces in source row:\n%s", got)
	}
	if !strings.Contains(got, "  │     ^\n") {
		t.Errorf("expected caret at display column 5:\n%s", got)
	}
}

func TestRenderMultipleFilesPrimaryFirst(t *testing.T) {
	fs := source.NewFileSet()
	other := fs.AddVirtual("other.txt", []byte("decl here\n"))
	main := fs.AddVirtual("main.txt", []byte("use there\n"))

	d := diag.NewError("cross file").
		WithSecondaryLabel(source.Span{File: other, Start: 0, End: 4}, "declared").
		WithLabel(source.Span{File: main, Start: 0, End: 3}, "used")

	got := renderToString(t, NewConfig(), fs, d)
	mainIdx := strings.Index(got, "main.txt:1:1")
	otherIdx := strings.Index(got, "other.txt:1:1")
	if mainIdx < 0 || otherIdx < 0 {
		t.Fatalf("expected both file locations, got:\n%s", got)
	}
	if mainIdx > otherIdx {
		t.Errorf("primary file must render first:\n%s", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("d.txt", []byte("alpha beta gamma\ndelta epsilon\n"))

	d := diag.NewWarning("twice").
		WithLabel(source.Span{File: id, Start: 6, End: 10}, "one").
		WithSecondaryLabel(source.Span{File: id, Start: 6, End: 15}, "two").
		WithSecondaryLabel(source.Span{File: id, Start: 17, End: 22}, "three").
		WithNote("stable output")

	first := renderToString(t, NewConfig(), fs, d)
	second := renderToString(t, NewConfig(), fs, d)
	if first != second {
		t.Errorf("rendering is not deterministic:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRenderParallelMatchesSequential(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.txt", []byte("let x = 5\nlet y = x + z\n"))
	b := fs.AddVirtual("b.txt", []byte("fn f() {\n    g()\n}\n"))

	diags := []diag.Diagnostic{
		diag.NewError("first").WithLabel(source.Span{File: a, Start: 22, End: 23}, "here"),
		diag.NewWarning("second").WithLabel(source.Span{File: b, Start: 7, End: 18}, "body"),
	}

	r, err := NewRenderer(NewConfig(), fs)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	sequential := make([]string, len(diags))
	for i, d := range diags {
		var w textWriter
		if err := r.Render(d, &w); err != nil {
			t.Fatalf("sequential render: %v", err)
		}
		sequential[i] = w.String()
	}

	for range 50 {
		parallel := make([]string, len(diags))
		var g errgroup.Group
		for i, d := range diags {
			g.Go(func() error {
				var w textWriter
				if err := r.Render(d, &w); err != nil {
					return err
				}
				parallel[i] = w.String()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("parallel render: %v", err)
		}
		for i := range diags {
			if parallel[i] != sequential[i] {
				t.Fatalf("parallel output differs from sequential for diagnostic %d", i)
			}
		}
	}
}

func TestRenderConfigError(t *testing.T) {
	cfg := NewConfig()
	cfg.TabWidth = 0

	_, err := NewRenderer(cfg, source.NewFileSet())
	if err == nil {
		t.Fatal("expected ConfigError for zero tab width")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
}

func TestRenderInvertedSpanFailsWithoutOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("abc\n"))

	d := diag.NewError("bad").
		WithLabel(source.Span{File: id, Start: 3, End: 1}, "")

	r, err := NewRenderer(NewConfig(), fs)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var w textWriter
	err = r.Render(d, &w)
	var rangeErr *source.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *source.RangeError, got %T: %v", err, err)
	}
	if w.String() != "" {
		t.Errorf("expected no output before validation failure, got %q", w.String())
	}
}

func TestRenderFileNotFound(t *testing.T) {
	fs := source.NewFileSet()

	d := diag.NewError("missing").
		WithLabel(source.Span{File: 99, Start: 0, End: 1}, "")

	r, err := NewRenderer(NewConfig(), fs)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var w textWriter
	err = r.Render(d, &w)
	var nfErr *FileNotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected *FileNotFoundError, got %T: %v", err, err)
	}
	if nfErr.File != 99 {
		t.Errorf("FileNotFoundError.File = %d, want 99", nfErr.File)
	}
	if w.String() != "" {
		t.Errorf("expected no output for unresolvable diagnostic, got %q", w.String())
	}
}

func TestRenderIOError(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("abc\n"))

	d := diag.NewError("boom").
		WithLabel(source.Span{File: id, Start: 0, End: 1}, "")

	r, err := NewRenderer(NewConfig(), fs)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	err = r.Render(d, &failWriter{remaining: 3})
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
}

func TestRenderStyleTags(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("abc\n"))

	d := diag.NewError("styled").
		WithCode("E1").
		WithLabel(source.Span{File: id, Start: 0, End: 2}, "msg").
		WithNote("a note")

	r, err := NewRenderer(NewConfig(), fs)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var w taggedWriter
	if err := r.Render(d, &w); err != nil {
		t.Fatalf("Render: %v", err)
	}

	find := func(style Style, text string) bool {
		for _, s := range w.segs {
			if s.style == style && strings.Contains(s.text, text) {
				return true
			}
		}
		return false
	}
	if !find(StyleHeaderError, "error") {
		t.Error("severity tag should carry the error header style")
	}
	if !find(StyleHeaderError, "[E1]") {
		t.Error("code should carry the header style")
	}
	if !find(StyleHeaderMessage, ": styled") {
		t.Error("message should carry the header message style")
	}
	if !find(StyleSecondary, "a.txt:1:1") {
		t.Error("location should carry the secondary style")
	}
	if !find(StyleSource, "abc") {
		t.Error("source text should carry the source style")
	}
	if !find(StylePrimary, "^^") {
		t.Error("primary underline should carry the primary style")
	}
	if !find(StyleNote, "msg") {
		t.Error("label message should carry the note style")
	}
	if !find(StyleNote, "note: a note") {
		t.Error("trailing note should carry the note style")
	}
}

func TestRenderBagSeparatesDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("abc\ndef\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.NewError("one").WithLabel(source.Span{File: id, Start: 0, End: 1}, ""))
	bag.Add(diag.NewWarning("two").WithLabel(source.Span{File: id, Start: 4, End: 5}, ""))

	r, err := NewRenderer(NewConfig(), fs)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var w textWriter
	if err := r.RenderBag(bag, &w); err != nil {
		t.Fatalf("RenderBag: %v", err)
	}
	out := w.String()
	if !strings.Contains(out, "error: one") || !strings.Contains(out, "warning: two") {
		t.Fatalf("missing diagnostics in bag output:\n%s", out)
	}
	if !strings.Contains(out, "\n\nwarning") {
		t.Errorf("expected a blank line between diagnostics:\n%s", out)
	}
}

func TestRenderHeaderOnlyDiagnostic(t *testing.T) {
	fs := source.NewFileSet()

	d := diag.NewError("bad config found").WithCode("E0002")
	got := renderToString(t, NewConfig(), fs, d)
	want := "error[E0002]: bad config found\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
