package termstyle

import (
	"io"

	"github.com/fatih/color"

	"caret/internal/diagfmt"
)

// Theme maps style tags to fatih/color styles. A nil entry leaves the
// segment unstyled.
type Theme struct {
	HeaderBug     *color.Color
	HeaderError   *color.Color
	HeaderWarning *color.Color
	HeaderNote    *color.Color
	HeaderHelp    *color.Color
	HeaderMessage *color.Color
	Gutter        *color.Color
	Source        *color.Color
	Primary       *color.Color
	Secondary     *color.Color
	Note          *color.Color
}

// DefaultTheme is the conventional compiler palette: red bold headers
// for bugs and errors, yellow for warnings, green for notes, cyan for
// help, blue for the gutter and secondary annotations.
func DefaultTheme() Theme {
	return Theme{
		HeaderBug:     color.New(color.FgHiRed, color.Bold),
		HeaderError:   color.New(color.FgHiRed, color.Bold),
		HeaderWarning: color.New(color.FgHiYellow, color.Bold),
		HeaderNote:    color.New(color.FgHiGreen, color.Bold),
		HeaderHelp:    color.New(color.FgHiCyan, color.Bold),
		HeaderMessage: color.New(color.Bold),
		Gutter:        color.New(color.FgHiBlue),
		Primary:       color.New(color.FgHiRed),
		Secondary:     color.New(color.FgHiBlue),
	}
}

func (t Theme) colorFor(s diagfmt.Style) *color.Color {
	switch s {
	case diagfmt.StyleHeaderBug:
		return t.HeaderBug
	case diagfmt.StyleHeaderError:
		return t.HeaderError
	case diagfmt.StyleHeaderWarning:
		return t.HeaderWarning
	case diagfmt.StyleHeaderNote:
		return t.HeaderNote
	case diagfmt.StyleHeaderHelp:
		return t.HeaderHelp
	case diagfmt.StyleHeaderMessage:
		return t.HeaderMessage
	case diagfmt.StyleGutter:
		return t.Gutter
	case diagfmt.StyleSource:
		return t.Source
	case diagfmt.StylePrimary:
		return t.Primary
	case diagfmt.StyleSecondary:
		return t.Secondary
	case diagfmt.StyleNote:
		return t.Note
	}
	return nil
}

// ANSI returns a writer painting segments with the default theme.
// Whether escapes are actually emitted follows the fatih/color global
// detection (NO_COLOR, terminal checks); use ForceANSI to override.
func ANSI(w io.Writer) diagfmt.Writer {
	return ANSIWith(w, DefaultTheme())
}

// ANSIWith returns a writer painting segments with a custom theme.
func ANSIWith(w io.Writer, theme Theme) diagfmt.Writer {
	return &ansiWriter{w: w, theme: theme}
}

// ForceANSI returns a writer that always emits escapes, bypassing the
// terminal detection. Used by --color=always when output is piped.
func ForceANSI(w io.Writer) diagfmt.Writer {
	theme := DefaultTheme()
	for _, c := range []*color.Color{
		theme.HeaderBug, theme.HeaderError, theme.HeaderWarning,
		theme.HeaderNote, theme.HeaderHelp, theme.HeaderMessage,
		theme.Gutter, theme.Primary, theme.Secondary,
	} {
		c.EnableColor()
	}
	return ANSIWith(w, theme)
}

type ansiWriter struct {
	w     io.Writer
	theme Theme
}

func (a *ansiWriter) WriteSegment(style diagfmt.Style, text string) error {
	c := a.theme.colorFor(style)
	if c == nil {
		_, err := io.WriteString(a.w, text)
		return err
	}
	_, err := c.Fprint(a.w, text)
	return err
}
