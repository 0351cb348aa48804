// File: internal/services/readonly_base.go
package services

import (
	"fmt"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
)

// readOnlyArchiveBase supplies the mutating half of the FileSystem interface
// for archives that reject every mutation. Embedded by the concrete
// filesystem types.
type readOnlyArchiveBase struct{}

func (readOnlyArchiveBase) CreateFile(path string, size int64) error {
	return fmt.Errorf("create %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
}

func (readOnlyArchiveBase) DeleteFile(path string) error {
	return fmt.Errorf("delete %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
}

func (readOnlyArchiveBase) CreateDirectory(path string) error {
	return fmt.Errorf("create directory %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
}

func (readOnlyArchiveBase) DeleteDirectory(path string) error {
	return fmt.Errorf("delete directory %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
}

func (readOnlyArchiveBase) DeleteDirectoryRecursively(path string) error {
	return fmt.Errorf("delete directory tree %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
}

func (readOnlyArchiveBase) CleanDirectoryRecursively(path string) error {
	return fmt.Errorf("clean directory %q: %w", path, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
}

func (readOnlyArchiveBase) RenameFile(oldPath string, newPath string) error {
	return fmt.Errorf("rename %q to %q: %w", oldPath, newPath, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
}

func (readOnlyArchiveBase) RenameDirectory(oldPath string, newPath string) error {
	return fmt.Errorf("rename directory %q to %q: %w", oldPath, newPath, fserrors.ErrUnsupportedOperationInPartitionFileSystemA)
}

func (readOnlyArchiveBase) Commit() error {
	return nil
}

func (readOnlyArchiveBase) CommitProvisionally(counter int64) error {
	return fmt.Errorf("provisional commit with counter %d: %w", counter, fserrors.ErrUnsupportedOperationInPartitionFileSystemB)
}

func (readOnlyArchiveBase) Rollback() error {
	return nil
}
