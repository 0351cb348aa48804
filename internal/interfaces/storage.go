// File: internal/interfaces/storage.go
package interfaces

import (
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// Storage is a random-access byte image backing an archive filesystem. The
// image is immutable for the lifetime of any filesystem bound to it.
type Storage interface {
	// Read fills buf with exactly len(buf) bytes starting at offset.
	Read(offset int64, buf []byte) error

	// Size returns the total length of the image in bytes.
	Size() (int64, error)

	// Flush commits any buffered state. Read-only implementations treat this
	// as a no-op.
	Flush() error

	// OperateRange performs a maintenance or query operation against a byte
	// range of the image.
	OperateRange(op types.OperationID, offset int64, size int64) (RangeInfo, error)
}

// RangeInfo describes the result of a QueryRange operation.
type RangeInfo struct {
	Size int64
}
