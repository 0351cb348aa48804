// File: internal/types/romfs.go
package types

// RomFsHeaderSize is the fixed header length at offset 0 of a ROM image.
const RomFsHeaderSize = 80

// RomFsHeader declares the location and size of the four file-table regions
// and of the data region. All fields are little-endian u64; offsets are
// absolute within the image.
type RomFsHeader struct {
	HeaderSize            uint64
	DirectoryBucketOffset uint64
	DirectoryBucketSize   uint64
	DirectoryEntryOffset  uint64
	DirectoryEntrySize    uint64
	FileBucketOffset      uint64
	FileBucketSize        uint64
	FileEntryOffset       uint64
	FileEntrySize         uint64
	DataOffset            uint64
}

// RomInvalidEntry is the nil link in bucket chains and sibling/child lists.
const RomInvalidEntry = 0xFFFFFFFF

// Fixed portions of the ROM table records. Each record is followed by its
// name bytes, zero-padded to 4-byte alignment.
const (
	RomDirectoryEntryFixedSize = 24
	RomFileEntryFixedSize      = 32
	RomEntryAlignment          = 4
)

// RomDirectoryEntry is one record of the directory entry table. All link
// fields are byte offsets into their respective entry tables, or
// RomInvalidEntry.
type RomDirectoryEntry struct {
	Parent       uint32
	NextSibling  uint32
	FirstChild   uint32
	FirstFile    uint32
	NextInBucket uint32
	Name         string
}

// RomFileEntry is one record of the file entry table. DataOffset is relative
// to the header's DataOffset.
type RomFileEntry struct {
	Parent       uint32
	NextSibling  uint32
	DataOffset   uint64
	DataSize     uint64
	NextInBucket uint32
	Name         string
}

// RomFileInfo locates a file's content within the image data region.
type RomFileInfo struct {
	DataOffset uint64
	DataSize   uint64
}
