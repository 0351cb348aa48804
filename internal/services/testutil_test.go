package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/deploymenttheory/go-nxfs/internal/device"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// archiveEntry describes one member of a test image.
type archiveEntry struct {
	name    string
	content []byte
	// hashSize is the hashed prefix length for hashed images.
	hashSize uint32
	// hashOffset is nonzero only to exercise the unsupported-offset path.
	hashOffset uint64
	// corrupt flips a content byte after hashing, so verification fails.
	corrupt bool
}

// buildPartitionImage assembles a PFS0 (hashed=false) or HFS0 (hashed=true)
// image from entries.
func buildPartitionImage(hashed bool, entries []archiveEntry) []byte {
	var pool bytes.Buffer
	nameOffsets := make([]uint32, len(entries))
	for i, e := range entries {
		nameOffsets[i] = uint32(pool.Len())
		pool.WriteString(e.name)
		pool.WriteByte(0)
	}
	for pool.Len()%4 != 0 {
		pool.WriteByte(0)
	}

	magic := types.PartitionMagic
	if hashed {
		magic = types.Sha256PartitionMagic
	}

	var image bytes.Buffer
	image.WriteString(magic)
	binary.Write(&image, binary.LittleEndian, uint32(len(entries)))
	binary.Write(&image, binary.LittleEndian, uint32(pool.Len()))
	binary.Write(&image, binary.LittleEndian, uint32(0))

	dataOffset := uint64(0)
	for i, e := range entries {
		binary.Write(&image, binary.LittleEndian, dataOffset)
		binary.Write(&image, binary.LittleEndian, uint64(len(e.content)))
		binary.Write(&image, binary.LittleEndian, nameOffsets[i])
		if hashed {
			digest := sha256.Sum256(e.content[:e.hashSize])
			binary.Write(&image, binary.LittleEndian, e.hashSize)
			binary.Write(&image, binary.LittleEndian, e.hashOffset)
			image.Write(digest[:])
		} else {
			binary.Write(&image, binary.LittleEndian, uint32(0))
		}
		dataOffset += uint64(len(e.content))
	}
	image.Write(pool.Bytes())
	for _, e := range entries {
		start := image.Len()
		image.Write(e.content)
		if e.corrupt {
			image.Bytes()[start] ^= 0xFF
		}
	}
	return image.Bytes()
}

// readRange records one storage read observed by recordingStorage.
type readRange struct {
	offset int64
	length int
}

// recordingStorage wraps a memory storage and records every read range, so
// tests can assert which image regions a code path touched.
type recordingStorage struct {
	*device.MemoryStorage
	reads []readRange
}

func newRecordingStorage(image []byte) *recordingStorage {
	return &recordingStorage{MemoryStorage: device.NewMemoryStorage(image)}
}

func (s *recordingStorage) Read(offset int64, buf []byte) error {
	s.reads = append(s.reads, readRange{offset: offset, length: len(buf)})
	return s.MemoryStorage.Read(offset, buf)
}

// readsOverlapping counts recorded reads that touch [start, end).
func (s *recordingStorage) readsOverlapping(start, end int64) int {
	count := 0
	for _, r := range s.reads {
		if r.offset < end && r.offset+int64(r.length) > start {
			count++
		}
	}
	return count
}

var _ interfaces.Storage = (*recordingStorage)(nil)

// drainDirectory reads a directory to exhaustion in batches of batchSize.
func drainDirectory(dir interfaces.Directory, batchSize int) ([]interfaces.DirectoryEntry, error) {
	var all []interfaces.DirectoryEntry
	batch := make([]interfaces.DirectoryEntry, batchSize)
	for {
		n, err := dir.Read(batch)
		if err != nil {
			return all, err
		}
		if n == 0 {
			return all, nil
		}
		all = append(all, batch[:n]...)
	}
}
