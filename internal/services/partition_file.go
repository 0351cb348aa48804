// File: internal/services/partition_file.go
package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// hashChunkSize bounds the scratch buffer used while streaming a hashed
// region that is larger than the requested read.
const hashChunkSize = 512

// partitionFile is an open handle into a flat partition archive. Reads
// translate directly into storage reads offset by the metadata size and the
// entry offset.
type partitionFile struct {
	mu     sync.Mutex
	parent *PartitionFileSystem
	entry  *types.PartitionEntry
	mode   types.OpenMode
}

// Read copies up to len(buf) bytes starting at offset and returns the count.
func (f *partitionFile) Read(offset int64, buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	readSize, err := dryRead(offset, len(buf), int64(f.entry.Size), f.mode)
	if err != nil {
		return 0, err
	}
	if readSize == 0 {
		return 0, nil
	}

	if err := f.parent.storage.Read(f.parent.metaDataSize+int64(f.entry.Offset)+offset, buf[:readSize]); err != nil {
		return 0, err
	}
	return readSize, nil
}

// GetSize returns the entry size.
func (f *partitionFile) GetSize() (int64, error) {
	return int64(f.entry.Size), nil
}

// Flush is a no-op unless the handle was opened writable, in which case the
// base storage is flushed.
func (f *partitionFile) Flush() error {
	if f.mode&types.OpenModeWrite == 0 {
		return nil
	}
	return f.parent.storage.Flush()
}

// Write always fails: the archive is immutable.
func (f *partitionFile) Write(offset int64, buf []byte) error {
	if err := checkFileRange(offset, int64(len(buf)), int64(f.entry.Size)); err != nil {
		return err
	}
	return fmt.Errorf("write to partition file: %w", fserrors.ErrUnsupportedOperationInPartitionFileA)
}

// SetSize always fails: the archive is immutable.
func (f *partitionFile) SetSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("negative size %d: %w", size, fserrors.ErrOutOfRange)
	}
	return fmt.Errorf("resize partition file: %w", fserrors.ErrUnsupportedOperationInPartitionFileA)
}

// OperateRange forwards Invalidate and QueryRange to the base storage after
// validating the mode and range.
func (f *partitionFile) OperateRange(op types.OperationID, offset int64, size int64) (interfaces.RangeInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := checkOperateRange(op, offset, size, int64(f.entry.Size), f.mode); err != nil {
		return interfaces.RangeInfo{}, err
	}
	return f.parent.storage.OperateRange(op, f.parent.metaDataSize+int64(f.entry.Offset)+offset, size)
}

// sha256PartitionFile is an open handle into a hashed partition archive. Any
// read overlapping the entry's hash target region recomputes the digest over
// exactly that region and releases bytes only on a match.
type sha256PartitionFile struct {
	mu     sync.Mutex
	parent *Sha256PartitionFileSystem
	entry  *types.Sha256PartitionEntry
	mode   types.OpenMode
}

// Read copies up to len(buf) bytes starting at offset, verifying the hashed
// region whenever the request overlaps it. On verification failure the
// destination is zeroed before the error is returned.
func (f *sha256PartitionFile) Read(offset int64, buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	readSize, err := dryRead(offset, len(buf), int64(f.entry.Size), f.mode)
	if err != nil {
		return 0, err
	}
	if readSize == 0 {
		return 0, nil
	}

	entryStart := f.parent.metaDataSize + int64(f.entry.Offset)
	readEnd := offset + int64(readSize)
	hashStart := int64(f.entry.HashTargetOffset)
	hashEnd := hashStart + int64(f.entry.HashTargetSize)

	// Disjoint from the hash target region: a plain storage read suffices.
	if readEnd <= hashStart || hashEnd <= offset {
		if err := f.parent.storage.Read(entryStart+offset, buf[:readSize]); err != nil {
			return 0, err
		}
		return readSize, nil
	}

	// Only hashing from the start of the file is supported.
	if hashStart != 0 {
		return 0, fmt.Errorf("hash target starts at %d: %w", hashStart, fserrors.ErrInvalidSha256PartitionHashTarget)
	}
	if f.entry.HashTargetOffset+uint64(f.entry.HashTargetSize) > f.entry.Size {
		return 0, fmt.Errorf("hash target ends at %d past file of %d bytes: %w", hashEnd, f.entry.Size, fserrors.ErrInvalidSha256PartitionHashTarget)
	}

	readOffset := entryStart + offset
	if readOffset < offset {
		return 0, fmt.Errorf("storage offset overflow: %w", fserrors.ErrOutOfRange)
	}

	hashInRead := offset <= hashStart && hashEnd <= readEnd
	readInHash := hashStart <= offset && readEnd <= hashEnd
	if !hashInRead && !readInHash {
		return 0, fmt.Errorf("read [%d, %d) straddles hash target [%d, %d): %w", offset, readEnd, hashStart, hashEnd, fserrors.ErrInvalidSha256PartitionHashTarget)
	}

	digest := sha256.New()

	if hashInRead {
		// The whole hashed region lands in the destination buffer.
		if err := f.parent.storage.Read(entryStart+offset, buf[:readSize]); err != nil {
			return 0, err
		}
		digest.Write(buf[hashStart-offset : hashStart-offset+int64(f.entry.HashTargetSize)])
	} else {
		// Stream the full hashed region in fixed-size chunks, copying only
		// the slices that overlap the request.
		var scratch [hashChunkSize]byte
		remainingHash := int64(f.entry.HashTargetSize)
		hashOffset := entryStart + hashStart
		remaining := int64(readSize)
		copied := int64(0)
		for remainingHash > 0 {
			cur := remainingHash
			if cur > hashChunkSize {
				cur = hashChunkSize
			}
			if err := f.parent.storage.Read(hashOffset, scratch[:cur]); err != nil {
				return 0, err
			}
			digest.Write(scratch[:cur])

			if readOffset <= hashOffset+cur && remaining > 0 {
				skip := readOffset - hashOffset
				if skip < 0 {
					skip = 0
				}
				copySize := cur - skip
				if copySize > remaining {
					copySize = remaining
				}
				if copySize > 0 {
					copy(buf[copied:copied+copySize], scratch[skip:skip+copySize])
					remaining -= copySize
					copied += copySize
				}
			}

			remainingHash -= cur
			hashOffset += cur
		}
	}

	if subtle.ConstantTimeCompare(digest.Sum(nil), f.entry.Hash[:]) != 1 {
		for i := 0; i < readSize; i++ {
			buf[i] = 0
		}
		return 0, fmt.Errorf("digest mismatch over hash target of %d bytes: %w", f.entry.HashTargetSize, fserrors.ErrSha256PartitionHashVerificationFailed)
	}

	return readSize, nil
}

// GetSize returns the entry size.
func (f *sha256PartitionFile) GetSize() (int64, error) {
	return int64(f.entry.Size), nil
}

// Flush is a no-op unless the handle was opened writable.
func (f *sha256PartitionFile) Flush() error {
	if f.mode&types.OpenModeWrite == 0 {
		return nil
	}
	return f.parent.storage.Flush()
}

// Write always fails: the archive is immutable.
func (f *sha256PartitionFile) Write(offset int64, buf []byte) error {
	if err := checkFileRange(offset, int64(len(buf)), int64(f.entry.Size)); err != nil {
		return err
	}
	return fmt.Errorf("write to partition file: %w", fserrors.ErrUnsupportedOperationInPartitionFileA)
}

// SetSize always fails: the archive is immutable.
func (f *sha256PartitionFile) SetSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("negative size %d: %w", size, fserrors.ErrOutOfRange)
	}
	return fmt.Errorf("resize partition file: %w", fserrors.ErrUnsupportedOperationInPartitionFileA)
}

// OperateRange forwards Invalidate and QueryRange to the base storage after
// validating the mode and range.
func (f *sha256PartitionFile) OperateRange(op types.OperationID, offset int64, size int64) (interfaces.RangeInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := checkOperateRange(op, offset, size, int64(f.entry.Size), f.mode); err != nil {
		return interfaces.RangeInfo{}, err
	}
	return f.parent.storage.OperateRange(op, f.parent.metaDataSize+int64(f.entry.Offset)+offset, size)
}

// dryRead validates mode and bounds for a read and returns the effective
// byte count: min(bufLen, size - offset).
func dryRead(offset int64, bufLen int, size int64, mode types.OpenMode) (int, error) {
	if mode&types.OpenModeRead == 0 {
		return 0, fmt.Errorf("handle not opened for reading: %w", fserrors.ErrReadNotPermitted)
	}
	if offset < 0 || offset > size {
		return 0, fmt.Errorf("read offset %d outside file of %d bytes: %w", offset, size, fserrors.ErrOutOfRange)
	}
	readSize := size - offset
	if int64(bufLen) < readSize {
		readSize = int64(bufLen)
	}
	return int(readSize), nil
}

// checkFileRange validates an (offset, size) pair against the entry size.
func checkFileRange(offset, size, entrySize int64) error {
	if offset < 0 || offset > entrySize {
		return fmt.Errorf("offset %d outside file of %d bytes: %w", offset, entrySize, fserrors.ErrOutOfRange)
	}
	if offset+size < offset || offset+size > entrySize {
		return fmt.Errorf("range [%d, %d) outside file of %d bytes: %w", offset, offset+size, entrySize, fserrors.ErrInvalidSize)
	}
	return nil
}

// checkOperateRange validates the operation id, the open mode it requires,
// and the byte range.
func checkOperateRange(op types.OperationID, offset, size, entrySize int64, mode types.OpenMode) error {
	switch op {
	case types.OperationIDInvalidate:
		if mode&types.OpenModeRead == 0 {
			return fmt.Errorf("invalidate without read permission: %w", fserrors.ErrReadNotPermitted)
		}
		if mode&types.OpenModeWrite != 0 {
			return fmt.Errorf("invalidate on writable handle: %w", fserrors.ErrUnsupportedOperationInPartitionFileB)
		}
	case types.OperationIDQueryRange:
	default:
		return fmt.Errorf("operation %d on partition file: %w", op, fserrors.ErrUnsupportedOperationInPartitionFileB)
	}
	return checkFileRange(offset, size, entrySize)
}
