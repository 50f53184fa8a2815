package diagfmt

import "caret/internal/source"

// Files is the capability the renderer needs from a file store: map a
// FileID to a display name and to its full text. source.FileSet is the
// canonical implementation; tests may supply an in-memory map.
type Files interface {
	Name(id source.FileID) (string, error)
	Source(id source.FileID) ([]byte, error)
}

// IndexedFiles is an optional extension for stores that cache a position
// index per file, so repeated renders of diagnostics in the same file
// skip re-scanning its text.
type IndexedFiles interface {
	Files
	Index(id source.FileID) (*source.Index, error)
}

// indexFor fetches the cached index when the store provides one and
// builds a throwaway index otherwise.
func indexFor(files Files, id source.FileID) (*source.Index, error) {
	if ixf, ok := files.(IndexedFiles); ok {
		return ixf.Index(id)
	}
	src, err := files.Source(id)
	if err != nil {
		return nil, err
	}
	return source.NewIndex(src), nil
}
