package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

type onceIndex struct {
	once sync.Once
	idx  *Index
}

// FileSet manages a collection of source files and serves as the Files
// collaborator for rendering: it maps FileIDs to display names and
// content and caches one position Index per file. Files are append-only;
// after the set is populated it is safe for concurrent readers.
type FileSet struct {
	files   []*File
	index   map[string]FileID // normalized path -> latest id
	baseDir string            // base for relative path display
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]*File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet with the given base directory for
// relative path display.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir sets the base directory for relative path display.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.baseDir = dir
}

// BaseDir returns the configured base directory, falling back to the
// current working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fs.baseDir
}

// Add stores a file from normalized bytes and returns a new FileID. It
// always creates a new FileID even if a file with the same path already
// exists; the path index points at the latest version.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalizedPath := normalizePath(path)
	fs.files = append(fs.files, &File{
		ID:        id,
		Path:      normalizedPath,
		Content:   content,
		Flags:     flags,
		indexOnce: &onceIndex{},
	})
	fs.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (stdin, test, or generated) with the
// FileVirtual flag.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Len returns the number of files in the set.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Get returns the file for the given ID, or nil when the ID is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// GetByPath returns the latest file registered under path.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fs.index[normalizePath(path)]; ok {
		return fs.files[id], true
	}
	return nil, false
}

// Name returns the display name for the file, or an error for unknown IDs.
func (fs *FileSet) Name(id FileID) (string, error) {
	f := fs.Get(id)
	if f == nil {
		return "", fmt.Errorf("file %d not found in FileSet", id)
	}
	return f.Path, nil
}

// Source returns the full content of the file, or an error for unknown IDs.
func (fs *FileSet) Source(id FileID) ([]byte, error) {
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("file %d not found in FileSet", id)
	}
	return f.Content, nil
}

// Index returns the position index for the file, building it on first
// use and caching it for later renders. Unknown IDs yield an error.
func (fs *FileSet) Index(id FileID) (*Index, error) {
	f := fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("file %d not found in FileSet", id)
	}
	return f.Index(), nil
}

// Index returns the file's position index, building it lazily exactly
// once. Files constructed outside a FileSet get a fresh index per call.
func (f *File) Index() *Index {
	if f.indexOnce == nil {
		return NewIndex(f.Content)
	}
	f.indexOnce.once.Do(func() {
		f.indexOnce.idx = NewIndex(f.Content)
	})
	return f.indexOnce.idx
}

// FormatPath renders the file path in the requested display mode.
// mode: "absolute", "relative", "basename", "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return normalizePath(abs)
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		return relativePath(f.Path, baseDir)

	case "basename":
		return filepath.Base(f.Path)

	case "auto":
		// Short or relative paths as is, long absolute ones by basename.
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return filepath.Base(f.Path)

	default:
		return f.Path
	}
}
