// File: internal/device/memory_storage.go
package device

import (
	"fmt"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// MemoryStorage serves an image held entirely in memory. Used for small
// images and throughout the tests.
type MemoryStorage struct {
	data []byte
}

// NewMemoryStorage wraps data as a Storage. The caller must not mutate data
// while the storage is in use.
func NewMemoryStorage(data []byte) *MemoryStorage {
	return &MemoryStorage{data: data}
}

// Read fills buf with exactly len(buf) bytes starting at offset.
func (s *MemoryStorage) Read(offset int64, buf []byte) error {
	if err := checkRange(offset, int64(len(buf)), int64(len(s.data))); err != nil {
		return err
	}
	copy(buf, s.data[offset:offset+int64(len(buf))])
	return nil
}

// Size returns the image length in bytes.
func (s *MemoryStorage) Size() (int64, error) {
	return int64(len(s.data)), nil
}

// Flush is a no-op.
func (s *MemoryStorage) Flush() error {
	return nil
}

// OperateRange validates the range and reports it for QueryRange.
func (s *MemoryStorage) OperateRange(op types.OperationID, offset int64, size int64) (interfaces.RangeInfo, error) {
	switch op {
	case types.OperationIDInvalidate, types.OperationIDQueryRange:
	default:
		return interfaces.RangeInfo{}, fmt.Errorf("unknown storage operation %d: %w", op, fserrors.ErrUnsupportedOperationInPartitionFileB)
	}
	if err := checkRange(offset, size, int64(len(s.data))); err != nil {
		return interfaces.RangeInfo{}, err
	}
	return interfaces.RangeInfo{Size: size}, nil
}
