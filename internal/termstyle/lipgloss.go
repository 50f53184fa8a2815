package termstyle

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"caret/internal/diagfmt"
)

// Lipgloss returns a writer that paints segments through lipgloss
// styles, following the terminal color profile lipgloss detects. It
// serves embedders that already compose their terminal UI with
// lipgloss and want diagnostics to match its profile handling.
func Lipgloss(w io.Writer) diagfmt.Writer {
	return &lipglossWriter{w: w, styles: defaultLipglossStyles()}
}

type lipglossWriter struct {
	w      io.Writer
	styles map[diagfmt.Style]lipgloss.Style
}

func defaultLipglossStyles() map[diagfmt.Style]lipgloss.Style {
	header := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c))
	}
	return map[diagfmt.Style]lipgloss.Style{
		diagfmt.StyleHeaderBug:     header("9"),
		diagfmt.StyleHeaderError:   header("9"),
		diagfmt.StyleHeaderWarning: header("11"),
		diagfmt.StyleHeaderNote:    header("10"),
		diagfmt.StyleHeaderHelp:    header("14"),
		diagfmt.StyleHeaderMessage: lipgloss.NewStyle().Bold(true),
		diagfmt.StyleGutter:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		diagfmt.StylePrimary:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		diagfmt.StyleSecondary:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

func (l *lipglossWriter) WriteSegment(style diagfmt.Style, text string) error {
	if s, ok := l.styles[style]; ok {
		text = s.Render(text)
	}
	_, err := io.WriteString(l.w, text)
	return err
}
