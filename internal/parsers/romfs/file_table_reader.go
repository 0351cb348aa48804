// File: internal/parsers/romfs/file_table_reader.go
package romfs

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// FileTable is the parsed hierarchical index of a ROM image: two
// bucket-chained hash tables resolving (parent, name) to directory and file
// entries. The four table regions live in a caller-provided working buffer.
type FileTable struct {
	header      types.RomFsHeader
	dirBuckets  []byte
	dirEntries  []byte
	fileBuckets []byte
	fileEntries []byte
}

// RootDirectoryOffset addresses the root entry in the directory entry table.
const RootDirectoryOffset = 0

// ParseHeader reads and validates the 80-byte ROM header at offset 0.
func ParseHeader(storage interfaces.Storage) (types.RomFsHeader, error) {
	var header types.RomFsHeader

	buf := make([]byte, types.RomFsHeaderSize)
	if err := storage.Read(0, buf); err != nil {
		return header, fmt.Errorf("failed to read rom header: %w", err)
	}

	header.HeaderSize = binary.LittleEndian.Uint64(buf[0:8])
	header.DirectoryBucketOffset = binary.LittleEndian.Uint64(buf[8:16])
	header.DirectoryBucketSize = binary.LittleEndian.Uint64(buf[16:24])
	header.DirectoryEntryOffset = binary.LittleEndian.Uint64(buf[24:32])
	header.DirectoryEntrySize = binary.LittleEndian.Uint64(buf[32:40])
	header.FileBucketOffset = binary.LittleEndian.Uint64(buf[40:48])
	header.FileBucketSize = binary.LittleEndian.Uint64(buf[48:56])
	header.FileEntryOffset = binary.LittleEndian.Uint64(buf[56:64])
	header.FileEntrySize = binary.LittleEndian.Uint64(buf[64:72])
	header.DataOffset = binary.LittleEndian.Uint64(buf[72:80])

	if header.HeaderSize != types.RomFsHeaderSize {
		return header, fmt.Errorf("invalid rom header size: got %d, want %d: %w", header.HeaderSize, types.RomFsHeaderSize, fserrors.ErrInvalidRomFileSystem)
	}

	storageSize, err := storage.Size()
	if err != nil {
		return header, fmt.Errorf("failed to query storage size: %w", err)
	}
	regions := []struct {
		name         string
		offset, size uint64
	}{
		{"directory bucket", header.DirectoryBucketOffset, header.DirectoryBucketSize},
		{"directory entry", header.DirectoryEntryOffset, header.DirectoryEntrySize},
		{"file bucket", header.FileBucketOffset, header.FileBucketSize},
		{"file entry", header.FileEntryOffset, header.FileEntrySize},
	}
	for _, r := range regions {
		if r.offset+r.size < r.offset || r.offset+r.size > uint64(storageSize) {
			return header, fmt.Errorf("%s table [%d, %d) outside storage of %d bytes: %w", r.name, r.offset, r.offset+r.size, storageSize, fserrors.ErrInvalidRomFileSystem)
		}
	}
	if header.DirectoryBucketSize%4 != 0 || header.FileBucketSize%4 != 0 {
		return header, fmt.Errorf("bucket table sizes %d/%d not u32-aligned: %w", header.DirectoryBucketSize, header.FileBucketSize, fserrors.ErrInvalidRomFileSystem)
	}
	if header.DataOffset > uint64(storageSize) {
		return header, fmt.Errorf("data offset %d outside storage of %d bytes: %w", header.DataOffset, storageSize, fserrors.ErrInvalidRomFileSystem)
	}

	return header, nil
}

// RequiredWorkingMemorySize returns the buffer size needed to hold the four
// table regions declared by the image header.
func RequiredWorkingMemorySize(storage interfaces.Storage) (int64, error) {
	header, err := ParseHeader(storage)
	if err != nil {
		return 0, err
	}
	return int64(header.DirectoryBucketSize + header.DirectoryEntrySize + header.FileBucketSize + header.FileEntrySize), nil
}

// NewFileTableReader parses the ROM file table, materializing the four table
// regions into work. A nil work allocates internally.
func NewFileTableReader(storage interfaces.Storage, work []byte) (*FileTable, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}

	header, err := ParseHeader(storage)
	if err != nil {
		return nil, err
	}

	needed := int64(header.DirectoryBucketSize + header.DirectoryEntrySize + header.FileBucketSize + header.FileEntrySize)
	if work == nil {
		work = make([]byte, needed)
	}
	if int64(len(work)) < needed {
		return nil, fmt.Errorf("working buffer of %d bytes cannot hold %d table bytes: %w", len(work), needed, fserrors.ErrInvalidSize)
	}

	t := &FileTable{header: header}

	cursor := work
	slice := func(size uint64) []byte {
		region := cursor[:size]
		cursor = cursor[size:]
		return region
	}
	t.dirBuckets = slice(header.DirectoryBucketSize)
	t.dirEntries = slice(header.DirectoryEntrySize)
	t.fileBuckets = slice(header.FileBucketSize)
	t.fileEntries = slice(header.FileEntrySize)

	for _, r := range []struct {
		offset uint64
		dst    []byte
	}{
		{header.DirectoryBucketOffset, t.dirBuckets},
		{header.DirectoryEntryOffset, t.dirEntries},
		{header.FileBucketOffset, t.fileBuckets},
		{header.FileEntryOffset, t.fileEntries},
	} {
		if len(r.dst) == 0 {
			continue
		}
		if err := storage.Read(int64(r.offset), r.dst); err != nil {
			return nil, fmt.Errorf("failed to read rom table region: %w", err)
		}
	}

	if _, err := t.DirectoryEntryAt(RootDirectoryOffset); err != nil {
		return nil, fmt.Errorf("missing root directory entry: %w", err)
	}

	return t, nil
}

// Header returns the parsed image header.
func (t *FileTable) Header() types.RomFsHeader {
	return t.header
}

// DataOffset returns the absolute offset of the data region.
func (t *FileTable) DataOffset() int64 {
	return int64(t.header.DataOffset)
}

// OpenFile resolves path to the location of a file's content.
func (t *FileTable) OpenFile(path string) (types.RomFileInfo, error) {
	dirOffset, name, err := t.resolveParent(path)
	if err != nil {
		return types.RomFileInfo{}, err
	}
	if name == "" {
		return types.RomFileInfo{}, fmt.Errorf("path %q names a directory: %w", path, fserrors.ErrPathNotFound)
	}

	entry, _, err := t.findFile(dirOffset, name)
	if err != nil {
		return types.RomFileInfo{}, err
	}
	return types.RomFileInfo{DataOffset: entry.DataOffset, DataSize: entry.DataSize}, nil
}

// OpenDirectory resolves path to a directory entry offset usable with
// DirectoryEntryAt.
func (t *FileTable) OpenDirectory(path string) (uint32, error) {
	dirOffset, name, err := t.resolveParent(path)
	if err != nil {
		return 0, err
	}
	if name == "" {
		return dirOffset, nil
	}
	child, err := t.findDirectory(dirOffset, name)
	if err != nil {
		return 0, err
	}
	return child, nil
}

// EntryType reports whether path names a directory or a file.
func (t *FileTable) EntryType(path string) (types.DirectoryEntryType, error) {
	dirOffset, name, err := t.resolveParent(path)
	if err != nil {
		return 0, err
	}
	if name == "" {
		return types.DirectoryEntryTypeDirectory, nil
	}
	if _, err := t.findDirectory(dirOffset, name); err == nil {
		return types.DirectoryEntryTypeDirectory, nil
	}
	if _, _, err := t.findFile(dirOffset, name); err == nil {
		return types.DirectoryEntryTypeFile, nil
	}
	return 0, fmt.Errorf("no entry %q under parent: %w", name, fserrors.ErrPathNotFound)
}

// DirectoryEntryAt decodes the directory record at the given table offset.
func (t *FileTable) DirectoryEntryAt(offset uint32) (types.RomDirectoryEntry, error) {
	var entry types.RomDirectoryEntry

	rec, name, err := entryAt(t.dirEntries, offset, types.RomDirectoryEntryFixedSize, 20)
	if err != nil {
		return entry, fmt.Errorf("directory entry at %d: %w", offset, err)
	}

	entry.Parent = binary.LittleEndian.Uint32(rec[0:4])
	entry.NextSibling = binary.LittleEndian.Uint32(rec[4:8])
	entry.FirstChild = binary.LittleEndian.Uint32(rec[8:12])
	entry.FirstFile = binary.LittleEndian.Uint32(rec[12:16])
	entry.NextInBucket = binary.LittleEndian.Uint32(rec[16:20])
	entry.Name = name
	return entry, nil
}

// FileEntryAt decodes the file record at the given table offset.
func (t *FileTable) FileEntryAt(offset uint32) (types.RomFileEntry, error) {
	var entry types.RomFileEntry

	rec, name, err := entryAt(t.fileEntries, offset, types.RomFileEntryFixedSize, 28)
	if err != nil {
		return entry, fmt.Errorf("file entry at %d: %w", offset, err)
	}

	entry.Parent = binary.LittleEndian.Uint32(rec[0:4])
	entry.NextSibling = binary.LittleEndian.Uint32(rec[4:8])
	entry.DataOffset = binary.LittleEndian.Uint64(rec[8:16])
	entry.DataSize = binary.LittleEndian.Uint64(rec[16:24])
	entry.NextInBucket = binary.LittleEndian.Uint32(rec[24:28])
	entry.Name = name
	return entry, nil
}

// resolveParent walks every component of path except the last, returning the
// containing directory's entry offset and the final component. A path naming
// the root returns name == "".
func (t *FileTable) resolveParent(path string) (uint32, string, error) {
	if len(path) == 0 || path[0] != types.PathSeparator {
		return 0, "", fmt.Errorf("path %q is not absolute: %w", path, fserrors.ErrInvalidPathFormat)
	}

	components := make([]string, 0, 8)
	for _, c := range strings.Split(path[1:], "/") {
		if c != "" {
			components = append(components, c)
		}
	}
	if len(components) == 0 {
		return RootDirectoryOffset, "", nil
	}

	current := uint32(RootDirectoryOffset)
	for _, c := range components[:len(components)-1] {
		next, err := t.findDirectory(current, c)
		if err != nil {
			return 0, "", err
		}
		current = next
	}
	return current, components[len(components)-1], nil
}

// findDirectory follows the directory bucket chain for (parent, name).
func (t *FileTable) findDirectory(parent uint32, name string) (uint32, error) {
	bucketCount := uint32(len(t.dirBuckets) / 4)
	if bucketCount == 0 {
		return 0, fmt.Errorf("no directory %q: %w", name, fserrors.ErrPathNotFound)
	}

	bucket := bucketHash(parent, name) % bucketCount
	offset := binary.LittleEndian.Uint32(t.dirBuckets[bucket*4:])
	for offset != types.RomInvalidEntry {
		entry, err := t.DirectoryEntryAt(offset)
		if err != nil {
			return 0, err
		}
		if entry.Parent == parent && entry.Name == name {
			return offset, nil
		}
		offset = entry.NextInBucket
	}
	return 0, fmt.Errorf("no directory %q: %w", name, fserrors.ErrPathNotFound)
}

// findFile follows the file bucket chain for (parent, name), returning the
// decoded entry and its table offset.
func (t *FileTable) findFile(parent uint32, name string) (types.RomFileEntry, uint32, error) {
	bucketCount := uint32(len(t.fileBuckets) / 4)
	if bucketCount == 0 {
		return types.RomFileEntry{}, 0, fmt.Errorf("no file %q: %w", name, fserrors.ErrPathNotFound)
	}

	bucket := bucketHash(parent, name) % bucketCount
	offset := binary.LittleEndian.Uint32(t.fileBuckets[bucket*4:])
	for offset != types.RomInvalidEntry {
		entry, err := t.FileEntryAt(offset)
		if err != nil {
			return types.RomFileEntry{}, 0, err
		}
		if entry.Parent == parent && entry.Name == name {
			return entry, offset, nil
		}
		offset = entry.NextInBucket
	}
	return types.RomFileEntry{}, 0, fmt.Errorf("no file %q: %w", name, fserrors.ErrPathNotFound)
}

// bucketHash is the frozen chain hash: seed parent ^ 123456789, then for each
// name byte rotate right by 5 and xor the byte in.
func bucketHash(parent uint32, name string) uint32 {
	h := parent ^ 123456789
	for i := 0; i < len(name); i++ {
		h = (h>>5 | h<<27) ^ uint32(name[i])
	}
	return h
}

// entryAt slices the fixed record and trailing name of a table entry, with
// bounds checks against the table region. nameLenOff locates the u32 name
// length within the fixed record.
func entryAt(table []byte, offset uint32, fixedSize int, nameLenOff int) ([]byte, string, error) {
	if int64(offset)+int64(fixedSize) > int64(len(table)) {
		return nil, "", fmt.Errorf("record extends past table of %d bytes: %w", len(table), fserrors.ErrInvalidRomFileSystem)
	}
	rec := table[int64(offset) : int64(offset)+int64(fixedSize)]

	nameLen := binary.LittleEndian.Uint32(rec[nameLenOff : nameLenOff+4])
	nameStart := int64(offset) + int64(fixedSize)
	if nameStart+int64(nameLen) > int64(len(table)) {
		return nil, "", fmt.Errorf("name of %d bytes extends past table of %d bytes: %w", nameLen, len(table), fserrors.ErrInvalidRomFileSystem)
	}
	return rec, string(table[nameStart : nameStart+int64(nameLen)]), nil
}
