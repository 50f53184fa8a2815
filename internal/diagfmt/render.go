package diagfmt

import (
	"fmt"
	"strings"

	"caret/internal/diag"
	"caret/internal/source"
)

// Writer is the output sink for rendering: an ordered stream of styled
// text segments. Implementations decide what a style tag becomes (ANSI
// escapes, HTML, nothing); the renderer never emits color codes itself.
// A failed write aborts the render immediately.
type Writer interface {
	WriteSegment(style Style, text string) error
}

// Renderer drives one diagnostic end to end: header, per-file source
// blocks, trailing notes. A Renderer holds no mutable state and may be
// shared by concurrent render calls as long as each call owns its
// Writer.
type Renderer struct {
	cfg   Config
	chars Chars
	files Files
}

// NewRenderer validates the configuration and binds a file store.
func NewRenderer(cfg Config, files Files) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg, chars: cfg.charSet(), files: files}, nil
}

// Render emits one diagnostic to w. Validation and file resolution run
// before the first segment is written, so structural errors (RangeError,
// FileNotFound) produce no partial output; only a failing Writer can
// interrupt mid-diagnostic.
func (r *Renderer) Render(d diag.Diagnostic, w Writer) error {
	if err := d.Validate(); err != nil {
		return err
	}

	type block struct {
		name string
		loc  source.LineCol
		ly   *fileLayout
	}

	fileIDs := d.Files()
	blocks := make([]block, 0, len(fileIDs))
	for _, fid := range fileIDs {
		name, err := r.files.Name(fid)
		if err != nil {
			return &FileNotFoundError{File: fid, Err: err}
		}
		ix, err := indexFor(r.files, fid)
		if err != nil {
			return &FileNotFoundError{File: fid, Err: err}
		}
		labels := d.LabelsFor(fid)

		anchor := labels[0]
		if primary, ok := d.PrimaryLabel(); ok && primary.Span.File == fid {
			anchor = primary
		}
		pos, err := ix.Resolve(ix.Clamp(anchor.Span.Start), r.cfg.TabWidth)
		if err != nil {
			return err
		}

		ly, err := layoutFile(ix, labels, r.cfg)
		if err != nil {
			return err
		}
		blocks = append(blocks, block{name: name, loc: pos, ly: ly})
	}

	sw := &segmentWriter{w: w}

	headerStyle := r.cfg.styleFor(d.Severity)
	sw.put(headerStyle, d.Severity.String())
	if d.Code != "" {
		sw.put(headerStyle, "["+d.Code+"]")
	}
	sw.put(StyleHeaderMessage, ": "+d.Message)
	sw.newline()

	gutterWidth := 0
	for i, b := range blocks {
		gw := b.ly.gutterWidth
		if i == 0 {
			gutterWidth = gw
		}
		pad := strings.Repeat(" ", gw+1)

		sw.put(StyleGutter, pad+r.chars.SnippetStart)
		sw.put(StyleText, " ")
		sw.put(StyleSecondary, fmt.Sprintf("%s:%d:%d", b.name, b.loc.Line, b.loc.Col))
		sw.newline()

		sw.put(StyleGutter, pad+string(r.chars.SourceBorderLeft))
		sw.newline()

		for _, row := range b.ly.rows {
			r.emitRow(sw, row, gw, b.ly.marginWidth)
		}
	}

	for _, note := range d.Notes {
		sw.put(StyleGutter, strings.Repeat(" ", gutterWidth+1)+string(r.chars.NoteBullet))
		sw.put(StyleNote, " note: "+note)
		sw.newline()
	}
	return sw.err
}

// RenderBag renders every diagnostic in the bag in order, separated by
// blank lines. The bag should be sorted by the caller when stable
// cross-diagnostic ordering matters.
func (r *Renderer) RenderBag(b *diag.Bag, w Writer) error {
	for i, d := range b.Items() {
		if i > 0 {
			if err := w.WriteSegment(StyleText, "\n"); err != nil {
				return &IOError{Err: err}
			}
		}
		if err := r.Render(d, w); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) emitRow(sw *segmentWriter, row layoutRow, gw, marginWidth int) {
	switch row.kind {
	case rowSource:
		sw.put(StyleGutter, fmt.Sprintf("%*d %c", gw, row.line, r.chars.SourceBorderLeft))
		if row.text != "" || hasConnectors(row.margin) {
			r.emitMargin(sw, row.margin)
			sw.put(StyleSource, row.text)
		}

	case rowFold:
		sw.put(StyleGutter, strings.Repeat(" ", gw+1)+string(r.chars.SourceBorderLeftBreak))

	case rowUnderline:
		sw.put(StyleGutter, strings.Repeat(" ", gw+1)+string(r.chars.SourceBorderLeft))
		r.emitMargin(sw, row.margin)
		cursor := uint32(1)
		for _, c := range row.carets {
			if c.start > cursor {
				sw.put(StyleText, strings.Repeat(" ", int(c.start-cursor)))
			}
			glyph := r.chars.SinglePrimaryCaret
			style := StylePrimary
			if c.style == diag.LabelSecondary {
				glyph = r.chars.SingleSecondaryCaret
				style = StyleSecondary
			}
			sw.put(style, strings.Repeat(string(glyph), int(c.end-c.start+1)))
			cursor = c.end + 1
		}

	case rowMessage:
		sw.put(StyleGutter, strings.Repeat(" ", gw+1)+string(r.chars.SourceBorderLeft))
		r.emitMargin(sw, row.margin)
		sw.put(StyleText, strings.Repeat(" ", int(row.msgCol-1)))
		sw.put(StyleNote, row.msg)

	case rowMultiBottom:
		sw.put(StyleGutter, strings.Repeat(" ", gw+1)+string(r.chars.SourceBorderLeft))
		sw.put(StyleText, " ")
		for _, cell := range row.margin[:row.slot] {
			r.emitMarginCell(sw, cell)
		}
		style := StylePrimary
		caret := r.chars.MultiPrimaryCaretEnd
		if row.style == diag.LabelSecondary {
			style = StyleSecondary
			caret = r.chars.MultiSecondaryCaretEnd
		}
		fill := marginWidth - row.slot - 1 + int(row.endCol)
		sw.put(style, string(r.chars.MultiBottomLeft)+strings.Repeat(string(r.chars.MultiBottom), fill)+string(caret))
		if row.msg != "" {
			sw.put(StyleText, " ")
			sw.put(StyleNote, row.msg)
		}
	}
	sw.newline()
}

// emitMargin writes the connector slots plus the spaces separating the
// border from the source text. Rows with no open connectors still get
// the single separating space so columns line up.
func (r *Renderer) emitMargin(sw *segmentWriter, cells []marginCell) {
	sw.put(StyleText, " ")
	for _, cell := range cells {
		r.emitMarginCell(sw, cell)
	}
	if len(cells) > 0 {
		sw.put(StyleText, " ")
	}
}

func (r *Renderer) emitMarginCell(sw *segmentWriter, cell marginCell) {
	switch cell.kind {
	case marginNone:
		sw.put(StyleText, " ")
	case marginTop:
		sw.put(r.labelStyle(cell.style), string(r.chars.MultiTopLeft))
	case marginBar:
		sw.put(r.labelStyle(cell.style), string(r.chars.MultiLeft))
	}
}

func hasConnectors(cells []marginCell) bool {
	for _, c := range cells {
		if c.kind != marginNone {
			return true
		}
	}
	return false
}

func (r *Renderer) labelStyle(s diag.LabelStyle) Style {
	if s == diag.LabelSecondary {
		return StyleSecondary
	}
	return StylePrimary
}

// segmentWriter funnels segments into the Writer and latches the first
// failure so later puts become no-ops.
type segmentWriter struct {
	w   Writer
	err error
}

func (sw *segmentWriter) put(style Style, text string) {
	if sw.err != nil || text == "" {
		return
	}
	if err := sw.w.WriteSegment(style, text); err != nil {
		sw.err = &IOError{Err: err}
	}
}

func (sw *segmentWriter) newline() {
	sw.put(StyleText, "\n")
}
