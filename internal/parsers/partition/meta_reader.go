// File: internal/parsers/partition/meta_reader.go
package partition

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-nxfs/internal/fserrors"
	"github.com/deploymenttheory/go-nxfs/internal/interfaces"
	"github.com/deploymenttheory/go-nxfs/internal/types"
)

// Meta holds the parsed header, entry table and string pool of a flat
// partition image. Entries are immutable after parsing.
type Meta struct {
	header       types.PartitionHeader
	entries      []types.PartitionEntry
	stringPool   []byte
	metaDataSize int64
}

// NewMetaReader parses the partition metadata at offset 0 of storage.
func NewMetaReader(storage interfaces.Storage) (*Meta, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}

	header, err := parseHeader(storage, types.PartitionMagic)
	if err != nil {
		return nil, err
	}

	tableSize := int64(header.EntryCount) * types.PartitionEntrySize
	metaDataSize := types.PartitionHeaderSize + tableSize + int64(header.StringTableSize)

	storageSize, err := storage.Size()
	if err != nil {
		return nil, fmt.Errorf("failed to query storage size: %w", err)
	}
	if metaDataSize > storageSize {
		return nil, fmt.Errorf("metadata spans %d bytes but storage holds %d: %w", metaDataSize, storageSize, fserrors.ErrInvalidPartitionFileSystem)
	}

	m := &Meta{
		header:       header,
		entries:      make([]types.PartitionEntry, header.EntryCount),
		metaDataSize: metaDataSize,
	}

	if tableSize > 0 {
		table := make([]byte, tableSize)
		if err := storage.Read(types.PartitionHeaderSize, table); err != nil {
			return nil, fmt.Errorf("failed to read entry table: %w", err)
		}
		for i := range m.entries {
			rec := table[i*types.PartitionEntrySize:]
			m.entries[i] = types.PartitionEntry{
				Offset:     binary.LittleEndian.Uint64(rec[0:8]),
				Size:       binary.LittleEndian.Uint64(rec[8:16]),
				NameOffset: binary.LittleEndian.Uint32(rec[16:20]),
				Reserved:   binary.LittleEndian.Uint32(rec[20:24]),
			}
		}
	}

	m.stringPool, err = readStringPool(storage, types.PartitionHeaderSize+tableSize, header.StringTableSize)
	if err != nil {
		return nil, err
	}

	dataRegion := storageSize - metaDataSize
	for i := range m.entries {
		e := &m.entries[i]
		if e.NameOffset >= header.StringTableSize {
			return nil, fmt.Errorf("entry %d name offset %d outside string table of %d bytes: %w", i, e.NameOffset, header.StringTableSize, fserrors.ErrInvalidPartitionFileSystem)
		}
		if e.Offset+e.Size < e.Offset || e.Offset+e.Size > uint64(dataRegion) {
			return nil, fmt.Errorf("entry %d extent [%d, %d) outside data region of %d bytes: %w", i, e.Offset, e.Offset+e.Size, dataRegion, fserrors.ErrInvalidPartitionFileSystem)
		}
	}

	return m, nil
}

// EntryCount returns the number of entries in the archive.
func (m *Meta) EntryCount() int {
	return len(m.entries)
}

// Entry returns the entry record at index i.
func (m *Meta) Entry(i int) *types.PartitionEntry {
	return &m.entries[i]
}

// EntrySize returns the content length of the entry at index i.
func (m *Meta) EntrySize(i int) int64 {
	return int64(m.entries[i].Size)
}

// EntryName returns the name of the entry at index i.
func (m *Meta) EntryName(i int) string {
	return nameAt(m.stringPool, m.entries[i].NameOffset)
}

// EntryIndex returns the index of the entry named name, or -1.
func (m *Meta) EntryIndex(name string) int {
	for i := range m.entries {
		if nameEquals(m.stringPool, m.entries[i].NameOffset, name) {
			return i
		}
	}
	return -1
}

// MetaDataSize returns the byte offset at which file data begins.
func (m *Meta) MetaDataSize() int64 {
	return m.metaDataSize
}

// parseHeader reads and validates the fixed 16-byte header shared by both
// partition formats.
func parseHeader(storage interfaces.Storage, magic string) (types.PartitionHeader, error) {
	var header types.PartitionHeader

	buf := make([]byte, types.PartitionHeaderSize)
	if err := storage.Read(0, buf); err != nil {
		return header, fmt.Errorf("failed to read partition header: %w", err)
	}

	copy(header.Magic[:], buf[0:4])
	header.EntryCount = binary.LittleEndian.Uint32(buf[4:8])
	header.StringTableSize = binary.LittleEndian.Uint32(buf[8:12])
	header.Reserved = binary.LittleEndian.Uint32(buf[12:16])

	if !bytes.Equal(header.Magic[:], []byte(magic)) {
		return header, fmt.Errorf("invalid partition magic: got %q, want %q: %w", header.Magic[:], magic, fserrors.ErrInvalidPartitionFileSystem)
	}

	return header, nil
}

// readStringPool loads the NUL-terminated name pool that follows the entry
// table.
func readStringPool(storage interfaces.Storage, offset int64, size uint32) ([]byte, error) {
	pool := make([]byte, size)
	if size > 0 {
		if err := storage.Read(offset, pool); err != nil {
			return nil, fmt.Errorf("failed to read string table: %w", err)
		}
	}
	return pool, nil
}

// nameAt returns the NUL-terminated string starting at off within pool.
func nameAt(pool []byte, off uint32) string {
	end := int(off)
	for end < len(pool) && pool[end] != 0 {
		end++
	}
	return string(pool[off:end])
}

// nameEquals compares the NUL-terminated string at off against name without
// allocating.
func nameEquals(pool []byte, off uint32, name string) bool {
	rest := pool[off:]
	if len(rest) < len(name)+1 {
		return false
	}
	for i := 0; i < len(name); i++ {
		if rest[i] != name[i] {
			return false
		}
	}
	return rest[len(name)] == 0
}
