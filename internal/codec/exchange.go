package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"caret/internal/diag"
	"caret/internal/source"
)

// Bump when the payload format changes; decoders reject other versions
// instead of guessing.
const exchangeSchemaVersion uint16 = 1

// exchangePayload is the wire form of one document. File order is
// significant: labels reference files by their index, which matches
// the FileIDs a decoded FileSet assigns.
type exchangePayload struct {
	Schema uint16

	FilePaths []string
	FileTexts [][]byte

	Diagnostics []payloadDiagnostic
}

type payloadDiagnostic struct {
	Severity uint8
	Code     string
	Message  string
	Labels   []payloadLabel
	Notes    []string
}

type payloadLabel struct {
	Style   uint8
	File    uint32
	Start   uint32
	End     uint32
	Message string
}

// EncodePayload writes the msgpack exchange form of a document.
func EncodePayload(w io.Writer, fs *source.FileSet, bag *diag.Bag) error {
	p := exchangePayload{
		Schema:      exchangeSchemaVersion,
		FilePaths:   make([]string, 0, fs.Len()),
		FileTexts:   make([][]byte, 0, fs.Len()),
		Diagnostics: make([]payloadDiagnostic, 0, bag.Len()),
	}
	for i := 0; i < fs.Len(); i++ {
		f := fs.Get(source.FileID(i))
		p.FilePaths = append(p.FilePaths, f.Path)
		p.FileTexts = append(p.FileTexts, f.Content)
	}
	for _, d := range bag.Items() {
		pd := payloadDiagnostic{
			Severity: uint8(d.Severity),
			Code:     d.Code,
			Message:  d.Message,
			Notes:    d.Notes,
		}
		for _, l := range d.Labels {
			pd.Labels = append(pd.Labels, payloadLabel{
				Style:   uint8(l.Style),
				File:    uint32(l.Span.File),
				Start:   l.Span.Start,
				End:     l.Span.End,
				Message: l.Message,
			})
		}
		p.Diagnostics = append(p.Diagnostics, pd)
	}
	return msgpack.NewEncoder(w).Encode(&p)
}

// DecodePayload reads the msgpack exchange form back into a FileSet and
// a Bag. Payloads with a different schema version are rejected.
func DecodePayload(r io.Reader) (*source.FileSet, *diag.Bag, error) {
	var p exchangePayload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, nil, err
	}
	if p.Schema != exchangeSchemaVersion {
		return nil, nil, fmt.Errorf("unsupported payload schema %d (want %d)", p.Schema, exchangeSchemaVersion)
	}
	if len(p.FilePaths) != len(p.FileTexts) {
		return nil, nil, fmt.Errorf("corrupt payload: %d paths, %d texts", len(p.FilePaths), len(p.FileTexts))
	}

	fs := source.NewFileSet()
	for i, path := range p.FilePaths {
		fs.AddVirtual(path, p.FileTexts[i])
	}

	bag := diag.NewBag(len(p.Diagnostics))
	for i, pd := range p.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(pd.Severity),
			Code:     pd.Code,
			Message:  pd.Message,
			Notes:    pd.Notes,
		}
		for _, pl := range pd.Labels {
			if int(pl.File) >= fs.Len() {
				return nil, nil, fmt.Errorf("diagnostic %d: %w: file %d", i, ErrUnknownFile, pl.File)
			}
			d.Labels = append(d.Labels, diag.Label{
				Style:   diag.LabelStyle(pl.Style),
				Span:    source.Span{File: source.FileID(pl.File), Start: pl.Start, End: pl.End},
				Message: pl.Message,
			})
		}
		if err := d.Validate(); err != nil {
			return nil, nil, fmt.Errorf("diagnostic %d: %w", i, err)
		}
		bag.Add(d)
	}
	return fs, bag, nil
}

// WriteFile writes the exchange form to path via a temp file and an
// atomic rename, so readers never observe a half-written payload.
func WriteFile(path string, fs *source.FileSet, bag *diag.Bag) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := EncodePayload(f, fs, bag); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile reads an exchange payload from disk.
func ReadFile(path string) (*source.FileSet, *diag.Bag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodePayload(f)
}
