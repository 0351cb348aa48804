// File: internal/types/partition.go
package types

// Partition filesystem magic values. Both formats share the same header
// layout; they differ in the per-entry record size.
const (
	PartitionMagic       = "PFS0"
	Sha256PartitionMagic = "HFS0"
)

// Header and entry record sizes in bytes.
const (
	PartitionHeaderSize       = 16
	PartitionEntrySize        = 24
	Sha256PartitionEntrySize  = 64
	Sha256PartitionHashLength = 32
)

// PartitionHeader is the fixed 16-byte header at offset 0 of a partition
// filesystem image. All integers are little-endian.
type PartitionHeader struct {
	Magic           [4]byte
	EntryCount      uint32
	StringTableSize uint32
	Reserved        uint32
}

// PartitionEntry is one 24-byte entry record of the flat partition format.
// Offset is relative to the start of the data region, which begins
// immediately after the metadata (header + entries + string table).
type PartitionEntry struct {
	Offset     uint64
	Size       uint64
	NameOffset uint32
	Reserved   uint32
}

// Sha256PartitionEntry is one 64-byte entry record of the hashed partition
// format. HashTargetOffset is relative to the start of the file; the SHA-256
// of [HashTargetOffset, HashTargetOffset+HashTargetSize) must match Hash
// before any overlapping bytes may be released to a reader.
type Sha256PartitionEntry struct {
	Offset           uint64
	Size             uint64
	NameOffset       uint32
	HashTargetSize   uint32
	HashTargetOffset uint64
	Hash             [Sha256PartitionHashLength]byte
}

// DirectoryEntryType distinguishes files from directories in listings.
type DirectoryEntryType uint8

const (
	DirectoryEntryTypeDirectory DirectoryEntryType = iota
	DirectoryEntryTypeFile
)

// MaxEntryNameLength is the largest name an enumeration entry can carry.
// The fixed name field holds MaxEntryNameLength bytes plus a guaranteed
// NUL terminator at the last byte.
const MaxEntryNameLength = 0x300

// OpenMode is the access mode bitfield for file opens.
type OpenMode uint32

const (
	OpenModeRead        OpenMode = 1 << 0
	OpenModeWrite       OpenMode = 1 << 1
	OpenModeAllowAppend OpenMode = 1 << 2

	OpenModeReadWrite = OpenModeRead | OpenModeWrite
	OpenModeAll       = OpenModeReadWrite | OpenModeAllowAppend
)

// OpenDirectoryMode selects which entry kinds a directory handle emits.
type OpenDirectoryMode uint32

const (
	OpenDirectoryModeDirectory OpenDirectoryMode = 1 << 0
	OpenDirectoryModeFile      OpenDirectoryMode = 1 << 1

	OpenDirectoryModeAll = OpenDirectoryModeDirectory | OpenDirectoryModeFile
)

// OperationID selects the operation performed by OperateRange.
type OperationID uint32

const (
	OperationIDInvalidate OperationID = iota
	OperationIDQueryRange
)

// PathSeparator begins every absolute path; RootPath is the sole directory
// of a flat partition archive.
const (
	PathSeparator = '/'
	RootPath      = "/"
)
