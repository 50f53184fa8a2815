package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags

	indexOnce *onceIndex
}

// LineCol represents a human-readable position in a source file.
// Line is 1-based; Col is 1-based and measured in display-width units.
type LineCol struct {
	Line uint32
	Col  uint32
}
