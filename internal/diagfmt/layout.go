package diagfmt

import (
	"sort"
	"strconv"

	"caret/internal/diag"
	"caret/internal/source"
)

// The layout engine turns the sorted labels of one file into a flat row
// model: which source lines appear, where folds collapse gaps, which
// underline row each single-line label lands on, and which margin slot
// each multi-line connector occupies. Everything here is transient,
// built fresh per render call and discarded afterwards.

type rowKind uint8

const (
	rowSource rowKind = iota
	rowFold
	rowUnderline
	rowMessage
	rowMultiBottom
)

type marginKind uint8

const (
	marginNone marginKind = iota
	marginTop
	marginBar
)

type marginCell struct {
	kind  marginKind
	style diag.LabelStyle
}

// caretSpan is one single-line underline in display columns, both ends
// inclusive. An insertion-point label occupies exactly one column.
type caretSpan struct {
	start uint32
	end   uint32
	style diag.LabelStyle
}

func (c caretSpan) overlaps(other caretSpan) bool {
	return c.start <= other.end && other.start <= c.end
}

type lineLabel struct {
	caret   caretSpan
	message string
}

// multiLabel is a label spanning several lines, assigned to one margin
// slot for the whole of its extent.
type multiLabel struct {
	slot      int
	startLine uint32
	endLine   uint32
	endCol    uint32 // inclusive column of the bottom underline caret
	style     diag.LabelStyle
	message   string
}

type layoutRow struct {
	kind   rowKind
	margin []marginCell

	// rowSource
	line uint32
	text string

	// rowUnderline
	carets []caretSpan

	// rowMessage / rowMultiBottom
	msg    string
	msgCol uint32
	style  diag.LabelStyle

	// rowMultiBottom
	slot   int
	endCol uint32
}

type fileLayout struct {
	gutterWidth int
	marginWidth int
	rows        []layoutRow
}

// layoutFile computes the row model for one file. Labels must already be
// filtered to this file and sorted by the diag tie-break; spans may
// exceed the file length and are clamped, inverted spans must have been
// rejected upstream.
func layoutFile(ix *source.Index, labels []diag.Label, cfg Config) (*fileLayout, error) {
	singles := make(map[uint32][]lineLabel)
	var multis []multiLabel
	var slotEnds []uint32 // endLine of the current occupant per slot

	for _, l := range labels {
		start := ix.Clamp(l.Span.Start)
		end := ix.Clamp(l.Span.End)

		startLine, err := ix.LineOf(start)
		if err != nil {
			return nil, err
		}
		endLine, err := ix.LineOf(end)
		if err != nil {
			return nil, err
		}
		startCol, err := ix.ColumnOf(start, cfg.TabWidth)
		if err != nil {
			return nil, err
		}
		endCol, err := ix.ColumnOf(end, cfg.TabWidth)
		if err != nil {
			return nil, err
		}

		if startLine == endLine {
			last := endCol
			if last > startCol {
				last-- // end column is exclusive
			}
			singles[startLine] = append(singles[startLine], lineLabel{
				caret:   caretSpan{start: startCol, end: last, style: l.Style},
				message: l.Message,
			})
			continue
		}

		// Greedy slot reuse: a slot is free once its occupant ended on an
		// earlier line, so disjoint connectors stack into one column.
		slot := -1
		for i, e := range slotEnds {
			if e < startLine {
				slot = i
				break
			}
		}
		if slot < 0 {
			slot = len(slotEnds)
			slotEnds = append(slotEnds, 0)
		}
		slotEnds[slot] = endLine

		last := endCol
		if last > 1 {
			last--
		}
		multis = append(multis, multiLabel{
			slot:      slot,
			startLine: startLine,
			endLine:   endLine,
			endCol:    last,
			style:     l.Style,
			message:   l.Message,
		})
	}

	display := displayLines(ix, singles, multis, cfg)

	maxLine := uint32(1)
	for _, dl := range display {
		if !dl.fold && dl.line > maxLine {
			maxLine = dl.line
		}
	}

	ly := &fileLayout{
		gutterWidth: len(strconv.FormatUint(uint64(maxLine), 10)),
		marginWidth: len(slotEnds),
	}

	closed := make([]bool, len(multis))
	for _, dl := range display {
		if dl.fold {
			ly.rows = append(ly.rows, layoutRow{
				kind:   rowFold,
				margin: make([]marginCell, ly.marginWidth),
			})
			continue
		}
		line := dl.line

		ly.rows = append(ly.rows, layoutRow{
			kind:   rowSource,
			line:   line,
			text:   source.ExpandTabs(ix.LineText(line), cfg.TabWidth),
			margin: marginAt(multis, closed, ly.marginWidth, line, true),
		})

		lls := singles[line]
		sort.SliceStable(lls, func(i, j int) bool {
			return lls[i].caret.start < lls[j].caret.start
		})
		for _, underlineRow := range assignUnderlineRows(lls) {
			carets := make([]caretSpan, len(underlineRow))
			for i, ll := range underlineRow {
				carets[i] = ll.caret
			}
			ly.rows = append(ly.rows, layoutRow{
				kind:   rowUnderline,
				carets: carets,
				margin: marginAt(multis, closed, ly.marginWidth, line, false),
			})
			for _, ll := range underlineRow {
				if ll.message == "" {
					continue
				}
				ly.rows = append(ly.rows, layoutRow{
					kind:   rowMessage,
					msg:    ll.message,
					msgCol: ll.caret.start,
					style:  ll.caret.style,
					margin: marginAt(multis, closed, ly.marginWidth, line, false),
				})
			}
		}

		for i, m := range multis {
			if m.endLine != line {
				continue
			}
			ly.rows = append(ly.rows, layoutRow{
				kind:   rowMultiBottom,
				slot:   m.slot,
				endCol: m.endCol,
				msg:    m.message,
				style:  m.style,
				margin: marginAt(multis, closed, ly.marginWidth, line, false),
			})
			closed[i] = true
		}
	}

	return ly, nil
}

type displayLine struct {
	line uint32
	fold bool
}

// displayLines computes the display line clusters: every line touched by
// a label, context around each contiguous cluster, and fold markers for
// gaps longer than the threshold.
func displayLines(ix *source.Index, singles map[uint32][]lineLabel, multis []multiLabel, cfg Config) []displayLine {
	touched := make(map[uint32]struct{})
	for line := range singles {
		touched[line] = struct{}{}
	}
	for _, m := range multis {
		for l := m.startLine; l <= m.endLine; l++ {
			touched[l] = struct{}{}
		}
	}
	if len(touched) == 0 {
		return nil
	}

	lines := make([]uint32, 0, len(touched))
	for l := range touched {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })

	type cluster struct{ first, last uint32 }
	var clusters []cluster
	for _, l := range lines {
		if n := len(clusters); n > 0 && l == clusters[n-1].last+1 {
			clusters[n-1].last = l
			continue
		}
		clusters = append(clusters, cluster{first: l, last: l})
	}

	ctx := uint32(cfg.ContextLines)
	lineCount := ix.LineCount()
	for i := range clusters {
		if clusters[i].first > ctx {
			clusters[i].first -= ctx
		} else {
			clusters[i].first = 1
		}
		clusters[i].last = min(clusters[i].last+ctx, lineCount)
	}

	merged := make([]cluster, 0, len(clusters))
	merged = append(merged, clusters[0])
	for _, c := range clusters[1:] {
		if last := &merged[len(merged)-1]; c.first <= last.last+1 {
			if c.last > last.last {
				last.last = c.last
			}
			continue
		}
		merged = append(merged, c)
	}

	var out []displayLine
	for i, c := range merged {
		if i > 0 {
			prev := merged[i-1].last
			gap := int(c.first-prev) - 1
			if gap <= cfg.FoldThreshold {
				for l := prev + 1; l < c.first; l++ {
					out = append(out, displayLine{line: l})
				}
			} else {
				out = append(out, displayLine{fold: true})
			}
		}
		for l := c.first; l <= c.last; l++ {
			out = append(out, displayLine{line: l})
		}
	}
	return out
}

// assignUnderlineRows packs carets into underline rows first-fit: labels
// whose column ranges do not intersect share a row, overlapping ones are
// pushed down. Input order (ascending start column, then the diag
// tie-break) is preserved within each row.
func assignUnderlineRows(lls []lineLabel) [][]lineLabel {
	var rows [][]lineLabel
	for _, ll := range lls {
		placed := false
		for i := range rows {
			conflict := false
			for _, other := range rows[i] {
				if ll.caret.overlaps(other.caret) {
					conflict = true
					break
				}
			}
			if !conflict {
				rows[i] = append(rows[i], ll)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []lineLabel{ll})
		}
	}
	return rows
}

// marginAt computes the connector glyph for every margin slot on one
// row. The top corner appears only on the source row of the start line;
// interior rows, including annotation rows of other labels, carry the
// vertical bar until the bottom row closes the slot.
func marginAt(multis []multiLabel, closed []bool, width int, line uint32, sourceRow bool) []marginCell {
	cells := make([]marginCell, width)
	for i, m := range multis {
		if closed[i] || line < m.startLine || line > m.endLine {
			continue
		}
		kind := marginBar
		if sourceRow && line == m.startLine {
			kind = marginTop
		}
		cells[m.slot] = marginCell{kind: kind, style: m.style}
	}
	return cells
}
