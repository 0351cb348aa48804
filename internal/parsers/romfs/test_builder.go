// File: internal/parsers/romfs/test_builder.go
package romfs

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// ImageBuilder assembles a ROM image in memory for the test suites. It lays
// out the four table regions and the data region exactly as the reader
// expects, chaining buckets with the frozen hash.
type ImageBuilder struct {
	dirs            []builderDirectory
	files           []builderFile
	dirBucketCount  int
	fileBucketCount int
}

type builderDirectory struct {
	name   string
	parent int
}

type builderFile struct {
	name    string
	parent  int
	content []byte
}

// NewImageBuilder returns a builder holding only the root directory, which
// has index 0.
func NewImageBuilder() *ImageBuilder {
	return &ImageBuilder{
		dirs:            []builderDirectory{{name: "", parent: 0}},
		dirBucketCount:  8,
		fileBucketCount: 8,
	}
}

// AddDirectory appends a directory under the directory at index parent and
// returns its index.
func (b *ImageBuilder) AddDirectory(parent int, name string) int {
	b.dirs = append(b.dirs, builderDirectory{name: name, parent: parent})
	return len(b.dirs) - 1
}

// AddFile appends a file under the directory at index parent.
func (b *ImageBuilder) AddFile(parent int, name string, content []byte) {
	b.files = append(b.files, builderFile{name: name, parent: parent, content: content})
}

func alignUp(n int) int {
	return (n + types.RomEntryAlignment - 1) &^ (types.RomEntryAlignment - 1)
}

// Build assembles the image bytes.
func (b *ImageBuilder) Build() []byte {
	dirOffsets := make([]uint32, len(b.dirs))
	dirTableSize := 0
	for i, d := range b.dirs {
		dirOffsets[i] = uint32(dirTableSize)
		dirTableSize += types.RomDirectoryEntryFixedSize + alignUp(len(d.name))
	}

	fileOffsets := make([]uint32, len(b.files))
	fileTableSize := 0
	for i, f := range b.files {
		fileOffsets[i] = uint32(fileTableSize)
		fileTableSize += types.RomFileEntryFixedSize + alignUp(len(f.name))
	}

	firstChild := make([]uint32, len(b.dirs))
	nextDirSibling := make([]uint32, len(b.dirs))
	firstFile := make([]uint32, len(b.dirs))
	nextFileSibling := make([]uint32, len(b.files))
	for i := range firstChild {
		firstChild[i] = types.RomInvalidEntry
		firstFile[i] = types.RomInvalidEntry
	}
	for i := range nextDirSibling {
		nextDirSibling[i] = types.RomInvalidEntry
	}
	for i := range nextFileSibling {
		nextFileSibling[i] = types.RomInvalidEntry
	}

	lastChild := make(map[int]int)
	for i := 1; i < len(b.dirs); i++ {
		p := b.dirs[i].parent
		if prev, ok := lastChild[p]; ok {
			nextDirSibling[prev] = dirOffsets[i]
		} else {
			firstChild[p] = dirOffsets[i]
		}
		lastChild[p] = i
	}

	lastFile := make(map[int]int)
	for i, f := range b.files {
		if prev, ok := lastFile[f.parent]; ok {
			nextFileSibling[prev] = fileOffsets[i]
		} else {
			firstFile[f.parent] = fileOffsets[i]
		}
		lastFile[f.parent] = i
	}

	dirBuckets := make([]uint32, b.dirBucketCount)
	for i := range dirBuckets {
		dirBuckets[i] = types.RomInvalidEntry
	}
	dirNextInBucket := make([]uint32, len(b.dirs))
	for i, d := range b.dirs {
		parentOffset := dirOffsets[d.parent]
		bucket := bucketHash(parentOffset, d.name) % uint32(b.dirBucketCount)
		dirNextInBucket[i] = dirBuckets[bucket]
		dirBuckets[bucket] = dirOffsets[i]
	}

	fileBuckets := make([]uint32, b.fileBucketCount)
	for i := range fileBuckets {
		fileBuckets[i] = types.RomInvalidEntry
	}
	fileNextInBucket := make([]uint32, len(b.files))
	for i, f := range b.files {
		parentOffset := dirOffsets[f.parent]
		bucket := bucketHash(parentOffset, f.name) % uint32(b.fileBucketCount)
		fileNextInBucket[i] = fileBuckets[bucket]
		fileBuckets[bucket] = fileOffsets[i]
	}

	dirEntries := make([]byte, dirTableSize)
	for i, d := range b.dirs {
		rec := dirEntries[dirOffsets[i]:]
		binary.LittleEndian.PutUint32(rec[0:4], dirOffsets[d.parent])
		binary.LittleEndian.PutUint32(rec[4:8], nextDirSibling[i])
		binary.LittleEndian.PutUint32(rec[8:12], firstChild[i])
		binary.LittleEndian.PutUint32(rec[12:16], firstFile[i])
		binary.LittleEndian.PutUint32(rec[16:20], dirNextInBucket[i])
		binary.LittleEndian.PutUint32(rec[20:24], uint32(len(d.name)))
		copy(rec[24:], d.name)
	}

	fileEntries := make([]byte, fileTableSize)
	dataOffset := uint64(0)
	var data []byte
	for i, f := range b.files {
		rec := fileEntries[fileOffsets[i]:]
		binary.LittleEndian.PutUint32(rec[0:4], dirOffsets[f.parent])
		binary.LittleEndian.PutUint32(rec[4:8], nextFileSibling[i])
		binary.LittleEndian.PutUint64(rec[8:16], dataOffset)
		binary.LittleEndian.PutUint64(rec[16:24], uint64(len(f.content)))
		binary.LittleEndian.PutUint32(rec[24:28], fileNextInBucket[i])
		binary.LittleEndian.PutUint32(rec[28:32], uint32(len(f.name)))
		copy(rec[32:], f.name)
		dataOffset += uint64(len(f.content))
		data = append(data, f.content...)
	}

	dirBucketBytes := make([]byte, 4*len(dirBuckets))
	for i, v := range dirBuckets {
		binary.LittleEndian.PutUint32(dirBucketBytes[i*4:], v)
	}
	fileBucketBytes := make([]byte, 4*len(fileBuckets))
	for i, v := range fileBuckets {
		binary.LittleEndian.PutUint32(fileBucketBytes[i*4:], v)
	}

	header := types.RomFsHeader{
		HeaderSize:            types.RomFsHeaderSize,
		DirectoryBucketOffset: types.RomFsHeaderSize,
		DirectoryBucketSize:   uint64(len(dirBucketBytes)),
	}
	header.DirectoryEntryOffset = header.DirectoryBucketOffset + header.DirectoryBucketSize
	header.DirectoryEntrySize = uint64(len(dirEntries))
	header.FileBucketOffset = header.DirectoryEntryOffset + header.DirectoryEntrySize
	header.FileBucketSize = uint64(len(fileBucketBytes))
	header.FileEntryOffset = header.FileBucketOffset + header.FileBucketSize
	header.FileEntrySize = uint64(len(fileEntries))
	header.DataOffset = header.FileEntryOffset + header.FileEntrySize

	image := make([]byte, 0, int(header.DataOffset)+len(data))
	headerBytes := make([]byte, types.RomFsHeaderSize)
	for i, v := range []uint64{
		header.HeaderSize,
		header.DirectoryBucketOffset, header.DirectoryBucketSize,
		header.DirectoryEntryOffset, header.DirectoryEntrySize,
		header.FileBucketOffset, header.FileBucketSize,
		header.FileEntryOffset, header.FileEntrySize,
		header.DataOffset,
	} {
		binary.LittleEndian.PutUint64(headerBytes[i*8:], v)
	}
	image = append(image, headerBytes...)
	image = append(image, dirBucketBytes...)
	image = append(image, dirEntries...)
	image = append(image, fileBucketBytes...)
	image = append(image, fileEntries...)
	image = append(image, data...)
	return image
}
