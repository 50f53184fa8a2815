// Package codec reads and writes diagnostic documents: TOML for
// human-authored fixtures and tool output, msgpack for tool-to-tool
// exchange. Both forms carry the same data, a set of source files plus
// the diagnostics annotating them.
package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"caret/internal/diag"
	"caret/internal/source"
)

var (
	// ErrUnknownFile indicates a label referencing a file the document
	// never declares.
	ErrUnknownFile = errors.New("label references undeclared file")
	// ErrUnknownStyle indicates a label style other than primary/secondary.
	ErrUnknownStyle = errors.New("unknown label style")
)

// Document mirrors the TOML layout:
//
//	[[file]]
//	path = "a.txt"
//	text = "let x = 5\nlet y = x + z\n"
//
//	[[diagnostic]]
//	severity = "error"
//	code = "E0425"
//	message = "undefined variable"
//	notes = ["declare z before use"]
//
//	  [[diagnostic.label]]
//	  file = "a.txt"
//	  start = 22
//	  end = 23
//	  message = "not found in this scope"
//
// Files without inline text are loaded from disk relative to the
// process working directory.
type Document struct {
	Files       []DocumentFile       `toml:"file"`
	Diagnostics []DocumentDiagnostic `toml:"diagnostic"`
}

type DocumentFile struct {
	Path string `toml:"path"`
	Text string `toml:"text"`
}

type DocumentDiagnostic struct {
	Severity string          `toml:"severity"`
	Code     string          `toml:"code"`
	Message  string          `toml:"message"`
	Labels   []DocumentLabel `toml:"label"`
	Notes    []string        `toml:"notes"`
}

type DocumentLabel struct {
	Style   string `toml:"style"`
	File    string `toml:"file"`
	Start   uint32 `toml:"start"`
	End     uint32 `toml:"end"`
	Message string `toml:"message"`
}

// LoadDocument parses a TOML document file and materializes it.
func LoadDocument(path string) (*source.FileSet, *diag.Bag, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	fs, bag, err := doc.Materialize()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return fs, bag, nil
}

// ParseDocument parses TOML text and materializes it.
func ParseDocument(data string) (*source.FileSet, *diag.Bag, error) {
	var doc Document
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return doc.Materialize()
}

// Materialize turns the raw document into a FileSet and a Bag,
// resolving label file references by path.
func (doc Document) Materialize() (*source.FileSet, *diag.Bag, error) {
	fs := source.NewFileSet()
	ids := make(map[string]source.FileID, len(doc.Files))
	for _, f := range doc.Files {
		if f.Path == "" {
			return nil, nil, errors.New("file entry missing path")
		}
		if f.Text != "" {
			ids[f.Path] = fs.AddVirtual(f.Path, []byte(f.Text))
			continue
		}
		id, err := fs.Load(f.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", f.Path, err)
		}
		ids[f.Path] = id
	}

	bag := diag.NewBag(len(doc.Diagnostics))
	for i, dd := range doc.Diagnostics {
		sev, err := diag.ParseSeverity(dd.Severity)
		if err != nil {
			return nil, nil, fmt.Errorf("diagnostic %d: %w", i, err)
		}
		d := diag.Diagnostic{
			Severity: sev,
			Code:     dd.Code,
			Message:  dd.Message,
			Notes:    dd.Notes,
		}
		for _, dl := range dd.Labels {
			style, err := parseLabelStyle(dl.Style)
			if err != nil {
				return nil, nil, fmt.Errorf("diagnostic %d: %w", i, err)
			}
			id, ok := ids[dl.File]
			if !ok {
				return nil, nil, fmt.Errorf("diagnostic %d: %w: %q", i, ErrUnknownFile, dl.File)
			}
			d.Labels = append(d.Labels, diag.Label{
				Style:   style,
				Span:    source.Span{File: id, Start: dl.Start, End: dl.End},
				Message: dl.Message,
			})
		}
		if err := d.Validate(); err != nil {
			return nil, nil, fmt.Errorf("diagnostic %d: %w", i, err)
		}
		bag.Add(d)
	}
	return fs, bag, nil
}

// EncodeDocument writes a FileSet and Bag back out as TOML.
func EncodeDocument(w io.Writer, fs *source.FileSet, bag *diag.Bag) error {
	doc := Document{
		Files:       make([]DocumentFile, 0, fs.Len()),
		Diagnostics: make([]DocumentDiagnostic, 0, bag.Len()),
	}
	for i := 0; i < fs.Len(); i++ {
		f := fs.Get(source.FileID(i))
		doc.Files = append(doc.Files, DocumentFile{
			Path: f.Path,
			Text: string(f.Content),
		})
	}
	for _, d := range bag.Items() {
		dd := DocumentDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Notes:    d.Notes,
		}
		for _, l := range d.Labels {
			name, err := fs.Name(l.Span.File)
			if err != nil {
				return err
			}
			dd.Labels = append(dd.Labels, DocumentLabel{
				Style:   l.Style.String(),
				File:    name,
				Start:   l.Span.Start,
				End:     l.Span.End,
				Message: l.Message,
			})
		}
		doc.Diagnostics = append(doc.Diagnostics, dd)
	}
	return toml.NewEncoder(w).Encode(doc)
}

func parseLabelStyle(s string) (diag.LabelStyle, error) {
	switch s {
	case "", "primary":
		return diag.LabelPrimary, nil
	case "secondary":
		return diag.LabelSecondary, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}
