package source

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Index maps byte offsets in one file to 1-based line and column
// positions. It is built once per file and immutable afterwards, so a
// single Index may be shared by concurrent renders without locking.
type Index struct {
	src    []byte
	starts []uint32 // line-start offsets; strictly increasing, starts[0] == 0
}

// NewIndex scans src once and records the offset following every line
// terminator. A trailing '\n' therefore yields a final empty line whose
// start equals len(src).
func NewIndex(src []byte) *Index {
	starts := make([]uint32, 1, 16)
	starts[0] = 0
	for i, b := range src {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				panic(fmt.Errorf("line start overflow: %w", err))
			}
			starts = append(starts, off)
		}
	}
	return &Index{src: src, starts: starts}
}

// Len returns the length of the indexed source in bytes.
func (ix *Index) Len() uint32 {
	n, err := safecast.Conv[uint32](len(ix.src))
	if err != nil {
		panic(fmt.Errorf("source length overflow: %w", err))
	}
	return n
}

// LineCount returns the number of lines, counting the empty line after a
// trailing terminator.
func (ix *Index) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(ix.starts))
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	return n
}

// Clamp limits offset to the source length.
func (ix *Index) Clamp(offset uint32) uint32 {
	return min(offset, ix.Len())
}

// LineOf returns the 1-based line containing offset. An offset exactly at
// a line start belongs to that line; offset == Len() belongs to the last
// line. Offsets past the end of the source produce a RangeError.
func (ix *Index) LineOf(offset uint32) (uint32, error) {
	if offset > ix.Len() {
		return 0, &RangeError{Offset: offset, Limit: ix.Len()}
	}
	// First start strictly greater than offset; the line is the one before.
	i := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	})
	line, err := safecast.Conv[uint32](i)
	if err != nil {
		return 0, fmt.Errorf("line number overflow: %w", err)
	}
	return line, nil
}

// ColumnOf returns the 1-based display column of offset: the summed
// display width of every rune between the line start and offset, with
// tabs expanded to the next multiple of tabWidth.
func (ix *Index) ColumnOf(offset uint32, tabWidth int) (uint32, error) {
	line, err := ix.LineOf(offset)
	if err != nil {
		return 0, err
	}
	start := ix.starts[line-1]
	w := expandedWidth(string(ix.src[start:offset]), tabWidth)
	col, err := safecast.Conv[uint32](w + 1)
	if err != nil {
		return 0, fmt.Errorf("column overflow: %w", err)
	}
	return col, nil
}

// Resolve combines LineOf and ColumnOf for one offset.
func (ix *Index) Resolve(offset uint32, tabWidth int) (LineCol, error) {
	line, err := ix.LineOf(offset)
	if err != nil {
		return LineCol{}, err
	}
	col, err := ix.ColumnOf(offset, tabWidth)
	if err != nil {
		return LineCol{}, err
	}
	return LineCol{Line: line, Col: col}, nil
}

// LineStart returns the byte offset of the first character of the
// 1-based line. Lines past the end map to the source length.
func (ix *Index) LineStart(line uint32) uint32 {
	if line == 0 {
		return 0
	}
	if line > ix.LineCount() {
		return ix.Len()
	}
	return ix.starts[line-1]
}

// LineText returns the content of the 1-based line without its
// terminator, or "" for lines outside the file.
func (ix *Index) LineText(line uint32) string {
	if line == 0 || line > ix.LineCount() {
		return ""
	}
	start := ix.starts[line-1]
	end := ix.Len()
	if line < ix.LineCount() {
		end = ix.starts[line] - 1 // strip the '\n'
	}
	return string(ix.src[start:end])
}

// ExpandTabs replaces tab characters in s with enough spaces to reach the
// next multiple of tabWidth, measuring position in display-width units.
func ExpandTabs(s string, tabWidth int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	if tabWidth <= 0 {
		tabWidth = 1
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		if r == '\t' {
			next := (w/tabWidth + 1) * tabWidth
			for ; w < next; w++ {
				b.WriteByte(' ')
			}
			continue
		}
		b.WriteRune(r)
		w += RuneDisplayWidth(r)
	}
	return b.String()
}

// expandedWidth measures the display width of s with tab expansion,
// assuming s starts at column zero of its line.
func expandedWidth(s string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 1
	}
	w := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\t' {
			w = (w/tabWidth + 1) * tabWidth
		} else {
			w += RuneDisplayWidth(r)
		}
		i += size
	}
	return w
}
