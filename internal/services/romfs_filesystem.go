// File: internal/services/romfs_filesystem.go
package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/parsers/romfs"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// RomFileSystem is a hierarchical read-only archive resolved through the
// bucket-chained ROM file table. Initialization materializes the four table
// regions into a working buffer; all subsequent lookups run against memory.
type RomFileSystem struct {
	readOnlyArchiveBase
	storage     interfaces.Storage
	table       *romfs.FileTable
	mountID     uuid.UUID
	initialized bool
}

// NewRomFileSystem returns an uninitialized filesystem.
func NewRomFileSystem() *RomFileSystem {
	return &RomFileSystem{}
}

// GetRequiredWorkingMemorySize returns the buffer size Initialize needs to
// hold the image's file table.
func GetRequiredWorkingMemorySize(storage interfaces.Storage) (int64, error) {
	return romfs.RequiredWorkingMemorySize(storage)
}

// Initialize parses the ROM file table from storage into work and binds the
// filesystem. Pass a buffer of at least GetRequiredWorkingMemorySize bytes,
// or nil to allocate internally. A second call fails.
func (fs *RomFileSystem) Initialize(storage interfaces.Storage, work []byte) error {
	if fs.initialized {
		return fmt.Errorf("rom filesystem already initialized: %w", fserrors.ErrPreconditionViolation)
	}

	table, err := romfs.NewFileTableReader(storage, work)
	if err != nil {
		return fmt.Errorf("failed to parse rom file table: %w", err)
	}

	fs.storage = storage
	fs.table = table
	fs.mountID = uuid.New()
	fs.initialized = true
	return nil
}

// MountID identifies this initialized instance.
func (fs *RomFileSystem) MountID() uuid.UUID {
	return fs.mountID
}

// GetBaseStorage returns the storage the filesystem reads from.
func (fs *RomFileSystem) GetBaseStorage() interfaces.Storage {
	return fs.storage
}

// GetRomFileTable returns the parsed file table.
func (fs *RomFileSystem) GetRomFileTable() *romfs.FileTable {
	return fs.table
}

// GetFileBaseOffset returns the absolute storage offset of the first content
// byte of the file at path.
func (fs *RomFileSystem) GetFileBaseOffset(path string) (int64, error) {
	if !fs.initialized {
		return 0, fmt.Errorf("rom filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	info, err := fs.table.OpenFile(path)
	if err != nil {
		return 0, err
	}
	return fs.table.DataOffset() + int64(info.DataOffset), nil
}

// GetEntryType reports whether path names a directory or a file.
func (fs *RomFileSystem) GetEntryType(path string) (types.DirectoryEntryType, error) {
	if !fs.initialized {
		return 0, fmt.Errorf("rom filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	return fs.table.EntryType(path)
}

// OpenFile opens the file at path. Write mode is accepted; the failure is
// deferred to the mutating call.
func (fs *RomFileSystem) OpenFile(path string, mode types.OpenMode) (interfaces.File, error) {
	if !fs.initialized {
		return nil, fmt.Errorf("rom filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	info, err := fs.table.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &romFile{parent: fs, info: info, mode: mode}, nil
}

// OpenDirectory opens the directory at path.
func (fs *RomFileSystem) OpenDirectory(path string, mode types.OpenDirectoryMode) (interfaces.Directory, error) {
	if !fs.initialized {
		return nil, fmt.Errorf("rom filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	dirOffset, err := fs.table.OpenDirectory(path)
	if err != nil {
		return nil, err
	}
	entry, err := fs.table.DirectoryEntryAt(dirOffset)
	if err != nil {
		return nil, err
	}
	return &romDirectory{
		table:       fs.table,
		mode:        mode,
		currentDir:  entry.FirstChild,
		currentFile: entry.FirstFile,
	}, nil
}

// GetFreeSpaceSize reports 0: the image is immutable.
func (fs *RomFileSystem) GetFreeSpaceSize(path string) (int64, error) {
	if !fs.initialized {
		return 0, fmt.Errorf("rom filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	return 0, nil
}

// GetTotalSpaceSize reports 0: space accounting is not tracked for ROM
// images.
func (fs *RomFileSystem) GetTotalSpaceSize(path string) (int64, error) {
	if !fs.initialized {
		return 0, fmt.Errorf("rom filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	return 0, nil
}

var _ interfaces.FileSystem = (*RomFileSystem)(nil)
