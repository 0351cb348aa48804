// File: internal/services/partition_filesystem.go
package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/parsers/partition"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// PartitionFileSystem is a flat read-only archive: every file lives directly
// under "/". It binds a Storage to parsed partition metadata and serves
// opens; all mutations fail.
type PartitionFileSystem struct {
	readOnlyArchiveBase
	storage      interfaces.Storage
	meta         *partition.Meta
	metaDataSize int64
	mountID      uuid.UUID
	initialized  bool
}

// NewPartitionFileSystem returns an uninitialized filesystem. Until
// Initialize binds a storage, GetEntryType, OpenFile, OpenDirectory and
// GetFileBaseOffset fail with ErrPreconditionViolation. Commit and Rollback
// succeed before Initialize as well; the mutating operations and the space
// queries return their unsupported-operation errors either way.
func NewPartitionFileSystem() *PartitionFileSystem {
	return &PartitionFileSystem{}
}

// Initialize parses the partition metadata at the start of storage and binds
// the filesystem to it. A second call fails.
func (fs *PartitionFileSystem) Initialize(storage interfaces.Storage) error {
	if fs.initialized {
		return fmt.Errorf("partition filesystem already initialized: %w", fserrors.ErrPreconditionViolation)
	}

	meta, err := partition.NewMetaReader(storage)
	if err != nil {
		return fmt.Errorf("failed to parse partition metadata: %w", err)
	}

	fs.storage = storage
	fs.meta = meta
	fs.metaDataSize = meta.MetaDataSize()
	fs.mountID = uuid.New()
	fs.initialized = true
	return nil
}

// MountID identifies this initialized instance.
func (fs *PartitionFileSystem) MountID() uuid.UUID {
	return fs.mountID
}

// GetBaseStorage returns the storage the filesystem reads from.
func (fs *PartitionFileSystem) GetBaseStorage() interfaces.Storage {
	return fs.storage
}

// GetFileBaseOffset returns the absolute storage offset of the first content
// byte of the file at path.
func (fs *PartitionFileSystem) GetFileBaseOffset(path string) (int64, error) {
	if !fs.initialized {
		return 0, fmt.Errorf("partition filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	index, err := fs.entryIndex(path)
	if err != nil {
		return 0, err
	}
	return fs.metaDataSize + int64(fs.meta.Entry(index).Offset), nil
}

// GetEntryType reports whether path names the root directory or a file.
func (fs *PartitionFileSystem) GetEntryType(path string) (types.DirectoryEntryType, error) {
	if !fs.initialized {
		return 0, fmt.Errorf("partition filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	if len(path) == 0 || path[0] != types.PathSeparator {
		return 0, fmt.Errorf("path %q is not absolute: %w", path, fserrors.ErrInvalidPathFormat)
	}
	if path == types.RootPath {
		return types.DirectoryEntryTypeDirectory, nil
	}
	if fs.meta.EntryIndex(path[1:]) < 0 {
		return 0, fmt.Errorf("no entry at %q: %w", path, fserrors.ErrPathNotFound)
	}
	return types.DirectoryEntryTypeFile, nil
}

// OpenFile opens the file at path. Write mode is accepted; the failure is
// deferred to the mutating call.
func (fs *PartitionFileSystem) OpenFile(path string, mode types.OpenMode) (interfaces.File, error) {
	if !fs.initialized {
		return nil, fmt.Errorf("partition filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	index, err := fs.entryIndex(path)
	if err != nil {
		return nil, err
	}
	return &partitionFile{parent: fs, entry: fs.meta.Entry(index), mode: mode}, nil
}

// OpenDirectory opens the sole directory "/".
func (fs *PartitionFileSystem) OpenDirectory(path string, mode types.OpenDirectoryMode) (interfaces.Directory, error) {
	if !fs.initialized {
		return nil, fmt.Errorf("partition filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	if path != types.RootPath {
		return nil, fmt.Errorf("no directory at %q: %w", path, fserrors.ErrPathNotFound)
	}
	return &partitionDirectory{meta: fs.meta, mode: mode}, nil
}

// GetFreeSpaceSize is not a supported query on a partition archive.
func (fs *PartitionFileSystem) GetFreeSpaceSize(path string) (int64, error) {
	return 0, fmt.Errorf("free space query on %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemB)
}

// GetTotalSpaceSize is not a supported query on a partition archive.
func (fs *PartitionFileSystem) GetTotalSpaceSize(path string) (int64, error) {
	return 0, fmt.Errorf("total space query on %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemB)
}

func (fs *PartitionFileSystem) entryIndex(path string) (int, error) {
	if len(path) == 0 || path[0] != types.PathSeparator {
		return 0, fmt.Errorf("path %q is not absolute: %w", path, fserrors.ErrInvalidPathFormat)
	}
	index := fs.meta.EntryIndex(path[1:])
	if index < 0 {
		return 0, fmt.Errorf("no entry at %q: %w", path, fserrors.ErrPathNotFound)
	}
	return index, nil
}

// Sha256PartitionFileSystem is the integrity-checked variant: entries carry a
// SHA-256 digest over a declared region, verified on every overlapping read.
type Sha256PartitionFileSystem struct {
	readOnlyArchiveBase
	storage      interfaces.Storage
	meta         *partition.HashedMeta
	metaDataSize int64
	mountID      uuid.UUID
	initialized  bool
}

// NewSha256PartitionFileSystem returns an uninitialized filesystem.
func NewSha256PartitionFileSystem() *Sha256PartitionFileSystem {
	return &Sha256PartitionFileSystem{}
}

// Initialize parses the hashed partition metadata at the start of storage
// and binds the filesystem to it. A second call fails.
func (fs *Sha256PartitionFileSystem) Initialize(storage interfaces.Storage) error {
	if fs.initialized {
		return fmt.Errorf("partition filesystem already initialized: %w", fserrors.ErrPreconditionViolation)
	}

	meta, err := partition.NewHashedMetaReader(storage)
	if err != nil {
		return fmt.Errorf("failed to parse hashed partition metadata: %w", err)
	}

	fs.storage = storage
	fs.meta = meta
	fs.metaDataSize = meta.MetaDataSize()
	fs.mountID = uuid.New()
	fs.initialized = true
	return nil
}

// MountID identifies this initialized instance.
func (fs *Sha256PartitionFileSystem) MountID() uuid.UUID {
	return fs.mountID
}

// GetBaseStorage returns the storage the filesystem reads from.
func (fs *Sha256PartitionFileSystem) GetBaseStorage() interfaces.Storage {
	return fs.storage
}

// GetFileBaseOffset returns the absolute storage offset of the first content
// byte of the file at path.
func (fs *Sha256PartitionFileSystem) GetFileBaseOffset(path string) (int64, error) {
	if !fs.initialized {
		return 0, fmt.Errorf("partition filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	index, err := fs.entryIndex(path)
	if err != nil {
		return 0, err
	}
	return fs.metaDataSize + int64(fs.meta.Entry(index).Offset), nil
}

// GetEntryType reports whether path names the root directory or a file.
func (fs *Sha256PartitionFileSystem) GetEntryType(path string) (types.DirectoryEntryType, error) {
	if !fs.initialized {
		return 0, fmt.Errorf("partition filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	if len(path) == 0 || path[0] != types.PathSeparator {
		return 0, fmt.Errorf("path %q is not absolute: %w", path, fserrors.ErrInvalidPathFormat)
	}
	if path == types.RootPath {
		return types.DirectoryEntryTypeDirectory, nil
	}
	if fs.meta.EntryIndex(path[1:]) < 0 {
		return 0, fmt.Errorf("no entry at %q: %w", path, fserrors.ErrPathNotFound)
	}
	return types.DirectoryEntryTypeFile, nil
}

// OpenFile opens the file at path. Reads overlapping the hashed region are
// verified before any byte is released.
func (fs *Sha256PartitionFileSystem) OpenFile(path string, mode types.OpenMode) (interfaces.File, error) {
	if !fs.initialized {
		return nil, fmt.Errorf("partition filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	index, err := fs.entryIndex(path)
	if err != nil {
		return nil, err
	}
	return &sha256PartitionFile{parent: fs, entry: fs.meta.Entry(index), mode: mode}, nil
}

// OpenDirectory opens the sole directory "/".
func (fs *Sha256PartitionFileSystem) OpenDirectory(path string, mode types.OpenDirectoryMode) (interfaces.Directory, error) {
	if !fs.initialized {
		return nil, fmt.Errorf("partition filesystem not initialized: %w", fserrors.ErrPreconditionViolation)
	}
	if path != types.RootPath {
		return nil, fmt.Errorf("no directory at %q: %w", path, fserrors.ErrPathNotFound)
	}
	return &partitionDirectory{meta: fs.meta, mode: mode}, nil
}

// GetFreeSpaceSize is not a supported query on a partition archive.
func (fs *Sha256PartitionFileSystem) GetFreeSpaceSize(path string) (int64, error) {
	return 0, fmt.Errorf("free space query on %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemB)
}

// GetTotalSpaceSize is not a supported query on a partition archive.
func (fs *Sha256PartitionFileSystem) GetTotalSpaceSize(path string) (int64, error) {
	return 0, fmt.Errorf("total space query on %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemB)
}

func (fs *Sha256PartitionFileSystem) entryIndex(path string) (int, error) {
	if len(path) == 0 || path[0] != types.PathSeparator {
		return 0, fmt.Errorf("path %q is not absolute: %w", path, fserrors.ErrInvalidPathFormat)
	}
	index := fs.meta.EntryIndex(path[1:])
	if index < 0 {
		return 0, fmt.Errorf("no entry at %q: %w", path, fserrors.ErrPathNotFound)
	}
	return index, nil
}

var _ interfaces.FileSystem = (*PartitionFileSystem)(nil)
var _ interfaces.FileSystem = (*Sha256PartitionFileSystem)(nil)
