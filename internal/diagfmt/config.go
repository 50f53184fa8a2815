package diagfmt

import "caret/internal/diag"

// Config controls how diagnostics are laid out and rendered. The zero
// value is not usable; start from NewConfig.
type Config struct {
	// TabWidth is the column width of tab stops. Must be positive.
	TabWidth int
	// FoldThreshold is the number of consecutive unlabeled lines
	// tolerated between displayed lines before the gap collapses into a
	// fold marker. Must not be negative; zero folds every gap.
	FoldThreshold int
	// ContextLines is the number of unlabeled lines shown before and
	// after each contiguous cluster of labeled lines.
	ContextLines int
	// ASCIIOnly selects the ASCII glyph set instead of box drawing.
	ASCIIOnly bool
	// Styles maps severities to the style tag used for the header.
	// Missing entries fall back to StyleHeaderMessage.
	Styles StyleMap
}

// NewConfig returns the default configuration: tab width 4, one line of
// context, folding gaps longer than one line, box drawing glyphs.
func NewConfig() Config {
	return Config{
		TabWidth:      4,
		FoldThreshold: 1,
		ContextLines:  1,
		Styles:        DefaultStyles(),
	}
}

// Validate rejects configurations the layout engine cannot honor.
// It is called by NewRenderer before any render starts.
func (c Config) Validate() error {
	if c.TabWidth <= 0 {
		return &ConfigError{Option: "TabWidth", Reason: "must be positive"}
	}
	if c.FoldThreshold < 0 {
		return &ConfigError{Option: "FoldThreshold", Reason: "must not be negative"}
	}
	if c.ContextLines < 0 {
		return &ConfigError{Option: "ContextLines", Reason: "must not be negative"}
	}
	return nil
}

func (c Config) charSet() Chars {
	if c.ASCIIOnly {
		return ASCIIChars()
	}
	return BoxDrawingChars()
}

func (c Config) styleFor(sev diag.Severity) Style {
	if s, ok := c.Styles[sev]; ok {
		return s
	}
	return StyleHeaderMessage
}
