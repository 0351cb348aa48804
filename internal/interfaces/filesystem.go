// File: internal/interfaces/filesystem.go
package interfaces

import (
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// DirectoryEntry is one record emitted by Directory.Read. Name holds a
// NUL-terminated string; the final byte is always NUL even when the source
// name was truncated to fit.
type DirectoryEntry struct {
	Name [types.MaxEntryNameLength + 1]byte
	Type types.DirectoryEntryType
	Size int64
}

// EntryName returns the entry name as a Go string, up to the first NUL.
func (e *DirectoryEntry) EntryName() string {
	for i, b := range e.Name {
		if b == 0 {
			return string(e.Name[:i])
		}
	}
	return string(e.Name[:len(e.Name)-1])
}

// SetEntryName copies name into the fixed name field, truncating if needed
// and guaranteeing a NUL terminator at the last byte.
func (e *DirectoryEntry) SetEntryName(name string) {
	n := copy(e.Name[:len(e.Name)-1], name)
	for i := n; i < len(e.Name); i++ {
		e.Name[i] = 0
	}
}

// File is an open handle to a single archive member. Reads are bounded by
// the member size; mutating operations fail on read-only archives.
type File interface {
	// Read copies up to len(buf) bytes starting at the file-relative offset
	// and returns the number of bytes produced. An offset equal to the file
	// size yields 0 bytes; an offset past it fails.
	Read(offset int64, buf []byte) (int, error)

	// GetSize returns the member size in bytes.
	GetSize() (int64, error)

	// Write replaces bytes within the existing extent of a writable member.
	Write(offset int64, buf []byte) error

	// SetSize resizes the member.
	SetSize(size int64) error

	// Flush commits buffered writes, if any.
	Flush() error

	// OperateRange performs a maintenance or query operation against a byte
	// range of the member.
	OperateRange(op types.OperationID, offset int64, size int64) (RangeInfo, error)
}

// Directory is a stateful cursor over the children of one directory.
type Directory interface {
	// Read fills entries with the next batch of children and returns how
	// many were produced. A fully-drained cursor produces 0.
	Read(entries []DirectoryEntry) (int, error)

	// GetEntryCount returns the number of children the open mode exposes.
	GetEntryCount() (int64, error)
}

// FileSystem is a path-addressed view over an archive image. Paths are
// absolute and '/'-separated.
type FileSystem interface {
	// GetEntryType reports whether path names a file or a directory.
	GetEntryType(path string) (types.DirectoryEntryType, error)

	// OpenFile opens the file at path with the given access mode.
	OpenFile(path string, mode types.OpenMode) (File, error)

	// OpenDirectory opens the directory at path; mode selects which child
	// kinds enumeration emits.
	OpenDirectory(path string, mode types.OpenDirectoryMode) (Directory, error)

	// Commit applies pending changes. A no-op on read-only archives.
	Commit() error

	// CommitProvisionally stages changes against a revision counter.
	CommitProvisionally(counter int64) error

	// Rollback discards pending changes.
	Rollback() error

	// GetFreeSpaceSize returns the free bytes available beneath path.
	GetFreeSpaceSize(path string) (int64, error)

	// GetTotalSpaceSize returns the total bytes beneath path.
	GetTotalSpaceSize(path string) (int64, error)

	CreateFile(path string, size int64) error
	DeleteFile(path string) error
	CreateDirectory(path string) error
	DeleteDirectory(path string) error
	DeleteDirectoryRecursively(path string) error
	CleanDirectoryRecursively(path string) error
	RenameFile(oldPath string, newPath string) error
	RenameDirectory(oldPath string, newPath string) error
}
