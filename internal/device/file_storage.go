// File: internal/device/file_storage.go
package device

import (
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// FileStorage exposes an archive image file as a read-only Storage.
type FileStorage struct {
	file *os.File
	size int64
}

// OpenFileStorage opens path and wraps it as a Storage.
func OpenFileStorage(path string) (*FileStorage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat image %s: %w", path, err)
	}

	return &FileStorage{file: f, size: info.Size()}, nil
}

// Read fills buf with exactly len(buf) bytes starting at offset.
func (s *FileStorage) Read(offset int64, buf []byte) error {
	if err := checkRange(offset, int64(len(buf)), s.size); err != nil {
		return err
	}
	if _, err := s.file.ReadAt(buf, offset); err != nil && err != io.EOF {
		return fmt.Errorf("image read at %d failed: %w", offset, err)
	}
	return nil
}

// Size returns the image length in bytes.
func (s *FileStorage) Size() (int64, error) {
	return s.size, nil
}

// Flush is a no-op; the image is opened read-only.
func (s *FileStorage) Flush() error {
	return nil
}

// OperateRange validates the range and reports it for QueryRange. Invalidate
// has nothing to drop for an unbuffered file.
func (s *FileStorage) OperateRange(op types.OperationID, offset int64, size int64) (interfaces.RangeInfo, error) {
	switch op {
	case types.OperationIDInvalidate, types.OperationIDQueryRange:
	default:
		return interfaces.RangeInfo{}, fmt.Errorf("unknown storage operation %d: %w", op, fserrors.ErrUnsupportedOperationInPartitionFileB)
	}
	if err := checkRange(offset, size, s.size); err != nil {
		return interfaces.RangeInfo{}, err
	}
	return interfaces.RangeInfo{Size: size}, nil
}

// Close releases the underlying file.
func (s *FileStorage) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

func checkRange(offset, size, total int64) error {
	if offset < 0 || offset > total {
		return fmt.Errorf("offset %d outside storage of %d bytes: %w", offset, total, fserrors.ErrOutOfRange)
	}
	if size < 0 || offset+size < offset || offset+size > total {
		return fmt.Errorf("range [%d, %d+%d) outside storage of %d bytes: %w", offset, offset, size, total, fserrors.ErrInvalidSize)
	}
	return nil
}
