package source

import (
	"errors"
	"testing"
)

func TestIndexLineOf(t *testing.T) {
	src := []byte("let x = 5\nlet y = x + z\n")
	ix := NewIndex(src)

	if got := ix.LineCount(); got != 3 {
		t.Fatalf("LineCount() = %d, want 3 (two lines plus trailing empty line)", got)
	}

	tests := []struct {
		name   string
		offset uint32
		want   uint32
	}{
		{"start of file", 0, 1},
		{"inside first line", 4, 1},
		{"last char of first line", 9, 1},
		{"start of second line", 10, 2},
		{"inside second line", 22, 2},
		{"offset of trailing newline", 23, 2},
		{"end of source", 24, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ix.LineOf(tt.offset)
			if err != nil {
				t.Fatalf("LineOf(%d) returned error: %v", tt.offset, err)
			}
			if got != tt.want {
				t.Errorf("LineOf(%d) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}

func TestIndexLineOfPastEnd(t *testing.T) {
	ix := NewIndex([]byte("abc"))

	_, err := ix.LineOf(4)
	if err == nil {
		t.Fatal("expected error for offset past end of source")
	}
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *RangeError, got %T: %v", err, err)
	}
	if rangeErr.Offset != 4 || rangeErr.Limit != 3 {
		t.Errorf("RangeError = %+v, want Offset=4 Limit=3", rangeErr)
	}
}

func TestIndexColumnOf(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		offset   uint32
		tabWidth int
		want     uint32
	}{
		{"line start", "let x = 5\n", 0, 4, 1},
		{"ascii middle", "let x = 5\n", 4, 4, 5},
		{"second line", "let x = 5\nlet y = x + z\n", 22, 4, 13},
		{"tab expands to next stop", "\tx", 1, 4, 5},
		{"tab width eight", "\tx", 1, 8, 9},
		{"tab mid line", "ab\tc", 3, 4, 5},
		{"wide rune counts two columns", "日本x", 6, 4, 5},
		{"after multibyte narrow rune", "péx", 3, 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := NewIndex([]byte(tt.src))
			got, err := ix.ColumnOf(tt.offset, tt.tabWidth)
			if err != nil {
				t.Fatalf("ColumnOf(%d, %d) returned error: %v", tt.offset, tt.tabWidth, err)
			}
			if got != tt.want {
				t.Errorf("ColumnOf(%d, %d) = %d, want %d", tt.offset, tt.tabWidth, got, tt.want)
			}
		})
	}
}

// Every valid offset must resolve to a position whose column matches the
// display width of the line prefix before it.
func TestIndexRoundTrip(t *testing.T) {
	sources := []string{
		"",
		"\n",
		"single line without terminator",
		"let x = 5\nlet y = x + z\n",
		"first\n\nthird\n",
		"wide 日本語 runes\nand\ttabs\there\n",
	}

	for _, src := range sources {
		ix := NewIndex([]byte(src))
		for o := uint32(0); o <= ix.Len(); o++ {
			line, err := ix.LineOf(o)
			if err != nil {
				t.Fatalf("src %q: LineOf(%d) error: %v", src, o, err)
			}
			col, err := ix.ColumnOf(o, 4)
			if err != nil {
				t.Fatalf("src %q: ColumnOf(%d) error: %v", src, o, err)
			}

			start := ix.LineStart(line)
			if o < start {
				t.Fatalf("src %q: offset %d resolved to line %d starting later at %d", src, o, line, start)
			}
			prefix := src[start:o]
			wantCol := uint32(expandedWidth(prefix, 4) + 1)
			if col != wantCol {
				t.Errorf("src %q: ColumnOf(%d) = %d, want %d (prefix %q)", src, o, col, wantCol, prefix)
			}
		}
	}
}

func TestIndexLineText(t *testing.T) {
	ix := NewIndex([]byte("let x = 5\nlet y = x + z\n"))

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "let x = 5"},
		{2, "let y = x + z"},
		{3, ""}, // empty line after trailing terminator
		{4, ""},
	}
	for _, tt := range tests {
		if got := ix.LineText(tt.line); got != tt.want {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestIndexNoTrailingTerminator(t *testing.T) {
	ix := NewIndex([]byte("one\ntwo"))

	if got := ix.LineCount(); got != 2 {
		t.Fatalf("LineCount() = %d, want 2", got)
	}
	if got := ix.LineText(2); got != "two" {
		t.Errorf("LineText(2) = %q, want %q", got, "two")
	}
	line, err := ix.LineOf(7)
	if err != nil {
		t.Fatalf("LineOf(len) error: %v", err)
	}
	if line != 2 {
		t.Errorf("LineOf(len) = %d, want 2", line)
	}
}

func TestIndexClamp(t *testing.T) {
	ix := NewIndex([]byte("abc"))
	if got := ix.Clamp(100); got != 3 {
		t.Errorf("Clamp(100) = %d, want 3", got)
	}
	if got := ix.Clamp(2); got != 2 {
		t.Errorf("Clamp(2) = %d, want 2", got)
	}
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		tabWidth int
		want     string
	}{
		{"no tabs untouched", "plain text", 4, "plain text"},
		{"leading tab", "\tx", 4, "    x"},
		{"tab after two chars", "ab\tc", 4, "ab  c"},
		{"tab after wide rune", "日\tc", 4, "日  c"},
		{"consecutive tabs", "\t\tx", 2, "    x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTabs(tt.in, tt.tabWidth); got != tt.want {
				t.Errorf("ExpandTabs(%q, %d) = %q, want %q", tt.in, tt.tabWidth, got, tt.want)
			}
		})
	}
}
