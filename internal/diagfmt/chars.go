package diagfmt

// Chars is the glyph set used for borders, underlines and connectors.
type Chars struct {
	// SnippetStart introduces the file:line:column location of a block.
	SnippetStart string
	// SourceBorderLeft separates the gutter from the source text.
	SourceBorderLeft rune
	// SourceBorderLeftBreak replaces the border on fold rows.
	SourceBorderLeftBreak rune

	// NoteBullet introduces a trailing note.
	NoteBullet rune

	// SinglePrimaryCaret underlines single-line primary labels.
	SinglePrimaryCaret rune
	// SingleSecondaryCaret underlines single-line secondary labels.
	SingleSecondaryCaret rune

	// MultiPrimaryCaretEnd marks where a multi-line primary label ends.
	MultiPrimaryCaretEnd rune
	// MultiSecondaryCaretEnd marks where a multi-line secondary label ends.
	MultiSecondaryCaretEnd rune
	// MultiTopLeft is the top corner of a multi-line connector.
	MultiTopLeft rune
	// MultiBottomLeft is the bottom corner of a multi-line connector.
	MultiBottomLeft rune
	// MultiBottom fills the bottom underline of a multi-line connector.
	MultiBottom rune
	// MultiLeft is the vertical bar on interior lines of a connector.
	MultiLeft rune
}

// BoxDrawingChars returns the default glyph set, using Unicode box
// drawing characters.
func BoxDrawingChars() Chars {
	return Chars{
		SnippetStart:          "┌─",
		SourceBorderLeft:      '│',
		SourceBorderLeftBreak: '·',

		NoteBullet: '=',

		SinglePrimaryCaret:   '^',
		SingleSecondaryCaret: '-',

		MultiPrimaryCaretEnd:   '^',
		MultiSecondaryCaretEnd: '\'',
		MultiTopLeft:           '╭',
		MultiBottomLeft:        '╰',
		MultiBottom:            '─',
		MultiLeft:              '│',
	}
}

// ASCIIChars returns a glyph set that only uses ASCII characters, for
// terminals whose fonts render box drawing badly. The output resembles
// rustc's diagnostics.
func ASCIIChars() Chars {
	return Chars{
		SnippetStart:          "-->",
		SourceBorderLeft:      '|',
		SourceBorderLeftBreak: '.',

		NoteBullet: '=',

		SinglePrimaryCaret:   '^',
		SingleSecondaryCaret: '-',

		MultiPrimaryCaretEnd:   '^',
		MultiSecondaryCaretEnd: '\'',
		MultiTopLeft:           '/',
		MultiBottomLeft:        '\\',
		MultiBottom:            '-',
		MultiLeft:              '|',
	}
}
