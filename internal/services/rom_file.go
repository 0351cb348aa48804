// File: internal/services/rom_file.go
package services

import (
	"fmt"
	"sync"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// romFile is an open handle into a ROM image. Reads translate into storage
// reads offset by the data region and the entry's data offset.
type romFile struct {
	mu     sync.Mutex
	parent *RomFileSystem
	info   types.RomFileInfo
	mode   types.OpenMode
}

// Read copies up to len(buf) bytes starting at offset and returns the count.
func (f *romFile) Read(offset int64, buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	readSize, err := dryRead(offset, len(buf), int64(f.info.DataSize), f.mode)
	if err != nil {
		return 0, err
	}
	if readSize == 0 {
		return 0, nil
	}

	base := f.parent.table.DataOffset() + int64(f.info.DataOffset)
	if err := f.parent.storage.Read(base+offset, buf[:readSize]); err != nil {
		return 0, err
	}
	return readSize, nil
}

// GetSize returns the file's content length.
func (f *romFile) GetSize() (int64, error) {
	return int64(f.info.DataSize), nil
}

// Flush is a no-op unless the handle was opened writable.
func (f *romFile) Flush() error {
	if f.mode&types.OpenModeWrite == 0 {
		return nil
	}
	return f.parent.storage.Flush()
}

// Write always fails: the image is immutable.
func (f *romFile) Write(offset int64, buf []byte) error {
	if err := checkFileRange(offset, int64(len(buf)), int64(f.info.DataSize)); err != nil {
		return err
	}
	return fmt.Errorf("write to rom file: %w", fserrors.ErrUnsupportedOperationInPartitionFileA)
}

// SetSize always fails: the image is immutable.
func (f *romFile) SetSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("negative size %d: %w", size, fserrors.ErrOutOfRange)
	}
	return fmt.Errorf("resize rom file: %w", fserrors.ErrUnsupportedOperationInPartitionFileA)
}

// OperateRange forwards Invalidate and QueryRange to the base storage after
// validating the mode and range.
func (f *romFile) OperateRange(op types.OperationID, offset int64, size int64) (interfaces.RangeInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := checkOperateRange(op, offset, size, int64(f.info.DataSize), f.mode); err != nil {
		return interfaces.RangeInfo{}, err
	}
	base := f.parent.table.DataOffset() + int64(f.info.DataOffset)
	return f.parent.storage.OperateRange(op, base+offset, size)
}

var _ interfaces.File = (*romFile)(nil)
